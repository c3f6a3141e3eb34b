package events

import (
	"time"

	"herocraft/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange   EventType = "balance_change"
	EventTypeWheelSettled    EventType = "wheel_settled"
	EventTypeLotteryDrawn    EventType = "lottery_drawn"
	EventTypeLotteryTicket   EventType = "lottery_ticket_purchased"
	EventTypeRideTheBusEnded EventType = "ridethebus_ended"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that was committed
type BalanceChangeEvent struct {
	AccountID       int64                    `json:"account_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                    `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// WheelSettledEvent is emitted once per resolved wheel cycle
type WheelSettledEvent struct {
	SettlementID string    `json:"settlement_id"`
	Cycle        int64     `json:"cycle"`
	Outcome      string    `json:"outcome"`
	Multiplier   int64     `json:"multiplier"`
	Winners      int       `json:"winners"`
	Losers       int       `json:"losers"`
	TotalStaked  int64     `json:"total_staked"`
	TotalPaid    int64     `json:"total_paid"`
	SettledAt    time.Time `json:"settled_at"`

	Payouts []entities.WheelSettlementEntry `json:"payouts"`
}

func (e WheelSettledEvent) Type() EventType {
	return EventTypeWheelSettled
}

// LotteryTicketPurchasedEvent is emitted when a ticket is bought
type LotteryTicketPurchasedEvent struct {
	AccountID int64 `json:"account_id"`
	TicketID  int64 `json:"ticket_id"`
	Pot       int64 `json:"pot"`
	QuickPick bool  `json:"quick_pick"`
}

func (e LotteryTicketPurchasedEvent) Type() EventType {
	return EventTypeLotteryTicket
}

// LotteryDrawnEvent is emitted after a drawing commits
type LotteryDrawnEvent struct {
	DrawingID      int64     `json:"drawing_id"`
	WinningNumbers []int     `json:"winning_numbers"`
	WinningBonus   int       `json:"winning_bonus"`
	PotBefore      int64     `json:"pot_before"`
	TotalPaid      int64     `json:"total_paid"`
	PotAfter       int64     `json:"pot_after"`
	Winners        int       `json:"winners"`
	Tickets        int       `json:"tickets"`
	NextDrawingAt  time.Time `json:"next_drawing_at"`

	Payouts []entities.LotteryWinnerEntry `json:"payouts"`
}

func (e LotteryDrawnEvent) Type() EventType {
	return EventTypeLotteryDrawn
}

// RideTheBusEndedEvent is emitted when a card game session reaches a terminal state
type RideTheBusEndedEvent struct {
	AccountID int64                  `json:"account_id"`
	Stake     int64                  `json:"stake"`
	Payout    int64                  `json:"payout"`
	Round     int                    `json:"round"`
	Status    entities.SessionStatus `json:"status"`
}

func (e RideTheBusEndedEvent) Type() EventType {
	return EventTypeRideTheBusEnded
}
