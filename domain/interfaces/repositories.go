package interfaces

import (
	"context"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/events"
)

// AccountRepository defines the interface for ledger record access
type AccountRepository interface {
	// GetByID returns the account or nil if it was never touched
	GetByID(ctx context.Context, accountID int64) (*entities.Account, error)

	// GetOrCreateForUpdate creates a zero-balance account if missing and row-locks it
	GetOrCreateForUpdate(ctx context.Context, accountID int64) (*entities.Account, error)

	// UpdateBalance writes the new balance and stamps last_reward_at
	UpdateBalance(ctx context.Context, accountID int64, newBalance int64, rewardAt time.Time) error

	// GetTop returns the richest accounts, highest balance first
	GetTop(ctx context.Context, limit int) ([]*entities.Account, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByAccount returns the most recent entries for an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)
}

// WheelSettlementRepository stores the append-only wheel log
type WheelSettlementRepository interface {
	Create(ctx context.Context, settlement *entities.WheelSettlement) error
	GetByDay(ctx context.Context, day time.Time) ([]*entities.WheelSettlement, error)
	GetLatest(ctx context.Context) (*entities.WheelSettlement, error)
}

// LotteryStateRepository defines access to the singleton drawing state
type LotteryStateRepository interface {
	// Get returns the state without locking
	Get(ctx context.Context) (*entities.LotteryState, error)

	// GetForUpdate returns the state with a row lock held until the transaction ends
	GetForUpdate(ctx context.Context) (*entities.LotteryState, error)

	// Update persists pot and next drawing time
	Update(ctx context.Context, state *entities.LotteryState) error

	// AddToPot atomically increments the pot and returns the new value
	AddToPot(ctx context.Context, amount int64) (int64, error)
}

// LotteryTicketRepository defines access to held tickets
type LotteryTicketRepository interface {
	Create(ctx context.Context, ticket *entities.LotteryTicket) error

	// GetByAccount returns the account's tickets in purchase order
	GetByAccount(ctx context.Context, accountID int64) ([]*entities.LotteryTicket, error)

	CountByAccount(ctx context.Context, accountID int64) (int, error)

	// GetAll returns every held ticket ordered by account then purchase
	GetAll(ctx context.Context) ([]*entities.LotteryTicket, error)

	// DeleteByIDs removes the given tickets owned by accountID
	DeleteByIDs(ctx context.Context, accountID int64, ids []int64) (int64, error)

	DeleteAll(ctx context.Context) (int64, error)

	// CountParticipants returns the number of distinct accounts holding tickets
	CountParticipants(ctx context.Context) (int, error)

	CountTickets(ctx context.Context) (int, error)
}

// LotteryDrawingRepository stores the append-only drawing log
type LotteryDrawingRepository interface {
	Create(ctx context.Context, drawing *entities.LotteryDrawing) error
	GetLatest(ctx context.Context) (*entities.LotteryDrawing, error)
	GetByDay(ctx context.Context, day time.Time) ([]*entities.LotteryDrawing, error)
}

// VoiceRewardRepository tracks daily voice reward usage
type VoiceRewardRepository interface {
	Get(ctx context.Context, accountID, channelID int64, day time.Time) (*entities.VoiceRewardUsage, error)

	// AddUsage upserts minutes and coins onto the day's row
	AddUsage(ctx context.Context, accountID, channelID int64, day time.Time, minutes int, coins int64) error

	GetByAccountDay(ctx context.Context, accountID int64, day time.Time) ([]*entities.VoiceRewardUsage, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher queues events until the owning transaction commits
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
