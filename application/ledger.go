package application

import (
	"context"
	"fmt"

	"herocraft/domain/entities"
	"herocraft/domain/interfaces"
	"herocraft/domain/services"
	"herocraft/domain/utils"
	"herocraft/infrastructure/lock"
	"herocraft/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Ledger is the process-wide entry point for balance changes. Each call takes the
// in-process account locks, then runs in its own unit of work where the rows are
// locked again with SELECT ... FOR UPDATE.
type Ledger struct {
	uowFactory UnitOfWorkFactory
	locks      *lock.AccountLock
	clock      utils.Clock
}

// NewLedger creates a ledger over the given unit of work factory
func NewLedger(uowFactory UnitOfWorkFactory, locks *lock.AccountLock, clock utils.Clock) *Ledger {
	return &Ledger{
		uowFactory: uowFactory,
		locks:      locks,
		clock:      clock,
	}
}

// LedgerTx is what a caller of WithAccounts sees inside the transaction
type LedgerTx struct {
	UnitOfWork UnitOfWork
	Ledger     interfaces.LedgerService
}

// WithAccounts locks the given accounts, opens a unit of work and runs fn in it.
// The transaction commits when fn returns nil and rolls back otherwise.
func (l *Ledger) WithAccounts(ctx context.Context, accountIDs []int64, fn func(tx *LedgerTx) error) error {
	unlock, err := l.locks.LockAll(ctx, accountIDs...)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer unlock()

	return l.inUnitOfWork(ctx, fn)
}

func (l *Ledger) inUnitOfWork(ctx context.Context, fn func(tx *LedgerTx) error) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("ledger", "unit_of_work")()

	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", entities.ErrPersistenceFailure, err)
	}
	defer uow.Rollback()

	tx := &LedgerTx{
		UnitOfWork: uow,
		Ledger:     services.NewLedgerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), l.clock),
	}
	if err := fn(tx); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrPersistenceFailure, err)
	}
	return nil
}

// GetBalance returns 0 for accounts that were never touched
func (l *Ledger) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	var balance int64
	err := l.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		balance, err = tx.Ledger.GetBalance(ctx, accountID)
		return err
	})
	return balance, err
}

// Adjust applies delta and floors the balance at zero
func (l *Ledger) Adjust(ctx context.Context, accountID, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	var balance int64
	err := l.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		balance, err = tx.Ledger.Adjust(ctx, accountID, delta, txType, metadata)
		return err
	})
	return balance, err
}

// Debit removes amount or returns InsufficientFundsError leaving the balance untouched
func (l *Ledger) Debit(ctx context.Context, accountID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	var balance int64
	err := l.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		balance, err = tx.Ledger.Debit(ctx, accountID, amount, txType, metadata)
		return err
	})
	return balance, err
}

func (l *Ledger) Credit(ctx context.Context, accountID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	var balance int64
	err := l.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		balance, err = tx.Ledger.Credit(ctx, accountID, amount, txType, metadata)
		return err
	})
	return balance, err
}

// Transfer moves coins between two members in one transaction
func (l *Ledger) Transfer(ctx context.Context, fromID, toID, amount int64) (*interfaces.TransferResult, error) {
	if fromID == toID {
		return nil, entities.ErrSelfTransfer
	}
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}

	var result *interfaces.TransferResult
	err := l.WithAccounts(ctx, []int64{fromID, toID}, func(tx *LedgerTx) error {
		var err error
		result, err = tx.Ledger.Transfer(ctx, fromID, toID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"from":   fromID,
		"to":     toID,
		"amount": amount,
	}).Info("Transfer completed")
	return result, nil
}

// Leaderboard returns the richest accounts
func (l *Ledger) Leaderboard(ctx context.Context, limit int) ([]*entities.Account, error) {
	var accounts []*entities.Account
	err := l.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		accounts, err = tx.Ledger.Leaderboard(ctx, limit)
		return err
	})
	return accounts, err
}

// History returns the most recent balance changes of an account
func (l *Ledger) History(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	var history []*entities.BalanceHistory
	err := l.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		history, err = tx.UnitOfWork.BalanceHistoryRepository().GetByAccount(ctx, accountID, limit)
		if err != nil {
			return fmt.Errorf("%w: failed to get balance history: %w", entities.ErrPersistenceFailure, err)
		}
		return nil
	})
	return history, err
}
