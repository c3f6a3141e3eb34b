package application

import (
	"context"

	"herocraft/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction and discards queued events
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	WheelSettlementRepository() interfaces.WheelSettlementRepository
	LotteryStateRepository() interfaces.LotteryStateRepository
	LotteryTicketRepository() interfaces.LotteryTicketRepository
	LotteryDrawingRepository() interfaces.LotteryDrawingRepository
	VoiceRewardRepository() interfaces.VoiceRewardRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
