package repository

import (
	"context"
	"errors"
	"fmt"

	"herocraft/application"
	"herocraft/database"
	"herocraft/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements application.UnitOfWork on a pgx transaction
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	accountRepo            interfaces.AccountRepository
	balanceHistoryRepo     interfaces.BalanceHistoryRepository
	wheelSettlementRepo    interfaces.WheelSettlementRepository
	lotteryStateRepo       interfaces.LotteryStateRepository
	lotteryTicketRepo      interfaces.LotteryTicketRepository
	lotteryDrawingRepo     interfaces.LotteryDrawingRepository
	voiceRewardRepo        interfaces.VoiceRewardRepository
}

// UnitOfWorkFactory creates pgx-backed units of work
type UnitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// CreateWithPublisher creates a UnitOfWork whose events go through transactionalPublisher
func (f *UnitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepository(tx)
	u.balanceHistoryRepo = newBalanceHistoryRepository(tx)
	u.wheelSettlementRepo = newWheelSettlementRepository(tx)
	u.lotteryStateRepo = newLotteryStateRepository(tx)
	u.lotteryTicketRepo = newLotteryTicketRepository(tx)
	u.lotteryDrawingRepo = newLotteryDrawingRepository(tx)
	u.voiceRewardRepo = newVoiceRewardRepository(tx)

	return nil
}

// Commit commits the transaction, then flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// The transaction is durable at this point, so publishing is best effort
	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithError(err).Error("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistoryRepo
}

func (u *unitOfWork) WheelSettlementRepository() interfaces.WheelSettlementRepository {
	if u.wheelSettlementRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.wheelSettlementRepo
}

func (u *unitOfWork) LotteryStateRepository() interfaces.LotteryStateRepository {
	if u.lotteryStateRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryStateRepo
}

func (u *unitOfWork) LotteryTicketRepository() interfaces.LotteryTicketRepository {
	if u.lotteryTicketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryTicketRepo
}

func (u *unitOfWork) LotteryDrawingRepository() interfaces.LotteryDrawingRepository {
	if u.lotteryDrawingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryDrawingRepo
}

func (u *unitOfWork) VoiceRewardRepository() interfaces.VoiceRewardRepository {
	if u.voiceRewardRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.voiceRewardRepo
}

// EventBus returns the transactional publisher of this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work has no event publisher")
	}
	return u.transactionalPublisher
}
