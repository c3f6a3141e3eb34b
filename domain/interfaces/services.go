package interfaces

import (
	"context"
	"time"

	"herocraft/domain/entities"
)

// LedgerService mutates balances inside the caller's unit of work.
// Every mutation records balance history and publishes a BalanceChangeEvent.
type LedgerService interface {
	// GetBalance returns 0 for unknown accounts
	GetBalance(ctx context.Context, accountID int64) (int64, error)

	// Adjust applies delta and floors the result at zero
	Adjust(ctx context.Context, accountID int64, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	// Debit removes amount or fails with InsufficientFundsError without side effects
	Debit(ctx context.Context, accountID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	Credit(ctx context.Context, accountID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	// Transfer moves coins between two accounts, locking rows in ascending id order
	Transfer(ctx context.Context, fromID, toID int64, amount int64) (*TransferResult, error)

	// LockAccount row-locks the account for the rest of the transaction
	LockAccount(ctx context.Context, accountID int64) (*entities.Account, error)

	Leaderboard(ctx context.Context, limit int) ([]*entities.Account, error)
}

// TransferResult holds both balances after a transfer
type TransferResult struct {
	FromBalance int64
	ToBalance   int64
	Amount      int64
}

// LotteryService defines the interface for the daily drawing
type LotteryService interface {
	BuyTicket(ctx context.Context, accountID int64, numbers []int, bonus int) (*LotteryPurchaseResult, error)
	QuickPick(ctx context.Context, accountID int64) (*LotteryPurchaseResult, error)

	// DiscardTickets removes tickets by 1-based position in purchase order. There is no refund.
	DiscardTickets(ctx context.Context, accountID int64, indices []int) (int, error)

	GetTickets(ctx context.Context, accountID int64) ([]*entities.LotteryTicket, error)
	GetStatus(ctx context.Context) (*LotteryStatus, error)

	// EnsureScheduled sets the first drawing time when none is stored
	EnsureScheduled(ctx context.Context, now time.Time) (*entities.LotteryState, error)

	// ConductDrawing runs the drawing if one is due and returns nil otherwise
	ConductDrawing(ctx context.Context, now time.Time) (*entities.LotteryDrawing, error)
}

// LotteryPurchaseResult holds the outcome of a ticket purchase
type LotteryPurchaseResult struct {
	Ticket     *entities.LotteryTicket
	NewBalance int64
	Pot        int64
	Held       int
	Max        int
}

// LotteryStatus is the display view of the drawing
type LotteryStatus struct {
	Pot           int64
	NextDrawingAt *time.Time
	Participants  int
	Tickets       int
	TicketPrice   int64
	LastDrawing   *entities.LotteryDrawing
}

// ActivityRewardService pays coins for chat activity
type ActivityRewardService interface {
	// RewardMessage pays the message reward when the cooldown has elapsed.
	// It returns the coins paid (0 when still cooling down) and the remaining cooldown.
	RewardMessage(ctx context.Context, accountID int64, now time.Time) (int64, time.Duration, error)

	CooldownRemaining(ctx context.Context, accountID int64, now time.Time) (time.Duration, error)

	// RewardVoice pays for minutes spent in a rewarded channel, honouring the daily cap
	RewardVoice(ctx context.Context, accountID int64, rule entities.VoiceChannelReward, minutes int, now time.Time) (int64, error)

	VoiceUsage(ctx context.Context, accountID int64, now time.Time) ([]*entities.VoiceRewardUsage, error)
}
