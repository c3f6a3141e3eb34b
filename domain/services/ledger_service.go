package services

import (
	"context"
	"fmt"

	"herocraft/domain/entities"
	"herocraft/domain/interfaces"
	"herocraft/domain/utils"
)

// ledgerService implements balance mutation inside one database transaction
type ledgerService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	clock              utils.Clock
}

// NewLedgerService creates a ledger bound to the repositories of a unit of work
func NewLedgerService(
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	clock utils.Clock,
) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		clock:              clock,
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get account %d: %w", entities.ErrPersistenceFailure, accountID, err)
	}
	if account == nil {
		return 0, nil
	}
	return account.Balance, nil
}

func (s *ledgerService) LockAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.accountRepo.GetOrCreateForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to lock account %d: %w", entities.ErrPersistenceFailure, accountID, err)
	}
	return account, nil
}

func (s *ledgerService) Adjust(ctx context.Context, accountID int64, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	account, err := s.LockAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return s.apply(ctx, account, delta, txType, metadata)
}

func (s *ledgerService) Debit(ctx context.Context, accountID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}

	account, err := s.LockAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if !account.CanAfford(amount) {
		return 0, &entities.InsufficientFundsError{Balance: account.Balance, Required: amount}
	}

	return s.apply(ctx, account, -amount, txType, metadata)
}

func (s *ledgerService) Credit(ctx context.Context, accountID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}

	account, err := s.LockAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return s.apply(ctx, account, amount, txType, metadata)
}

func (s *ledgerService) Transfer(ctx context.Context, fromID, toID int64, amount int64) (*interfaces.TransferResult, error) {
	if fromID == toID {
		return nil, entities.ErrSelfTransfer
	}
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}

	// Lock both rows in ascending id order so opposite transfers cannot deadlock
	firstID, secondID := fromID, toID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	locked := make(map[int64]*entities.Account, 2)
	for _, id := range []int64{firstID, secondID} {
		account, err := s.LockAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = account
	}

	from, to := locked[fromID], locked[toID]
	if !from.CanAfford(amount) {
		return nil, &entities.InsufficientFundsError{Balance: from.Balance, Required: amount}
	}

	fromBalance, err := s.apply(ctx, from, -amount, entities.TransactionTypeTransferOut, map[string]any{"to": toID})
	if err != nil {
		return nil, err
	}
	toBalance, err := s.apply(ctx, to, amount, entities.TransactionTypeTransferIn, map[string]any{"from": fromID})
	if err != nil {
		return nil, err
	}

	return &interfaces.TransferResult{FromBalance: fromBalance, ToBalance: toBalance, Amount: amount}, nil
}

func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]*entities.Account, error) {
	accounts, err := s.accountRepo.GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get leaderboard: %w", entities.ErrPersistenceFailure, err)
	}
	return accounts, nil
}

// apply writes the clamped balance and its history row. The account must be locked.
func (s *ledgerService) apply(ctx context.Context, account *entities.Account, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	newBalance := entities.ClampBalance(account.Balance, delta)
	now := s.clock.Now()

	if err := s.accountRepo.UpdateBalance(ctx, account.AccountID, newBalance, now); err != nil {
		return 0, fmt.Errorf("%w: failed to update balance of %d: %w", entities.ErrPersistenceFailure, account.AccountID, err)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	applied := newBalance - account.Balance
	if applied != delta {
		metadata["requested_delta"] = delta
	}

	history := &entities.BalanceHistory{
		AccountID:           account.AccountID,
		BalanceBefore:       account.Balance,
		BalanceAfter:        newBalance,
		ChangeAmount:        applied,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return 0, fmt.Errorf("%w: %w", entities.ErrPersistenceFailure, err)
	}

	account.Balance = newBalance
	account.LastRewardAt = &now
	return newBalance, nil
}
