package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"herocraft/database"
	"herocraft/domain/entities"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements ledger record access
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository on the pool
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepository creates an account repository bound to a transaction
func newAccountRepository(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `account_id, balance, last_reward_at, created_at, updated_at`

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.AccountID,
		&account.Balance,
		&account.LastRewardAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID returns nil when the account has never been touched
func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	return account, nil
}

// GetOrCreateForUpdate inserts a zero-balance row if needed and locks it
func (r *AccountRepository) GetOrCreateForUpdate(ctx context.Context, accountID int64) (*entities.Account, error) {
	insert := `
		INSERT INTO accounts (account_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (account_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, accountID); err != nil {
		return nil, fmt.Errorf("failed to create account %d: %w", accountID, err)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE`
	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	return account, nil
}

// UpdateBalance writes the balance and stamps last_reward_at
func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID int64, newBalance int64, rewardAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $1, last_reward_at = $2, updated_at = NOW()
		WHERE account_id = $3
	`
	result, err := r.q.Exec(ctx, query, newBalance, rewardAt, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", accountID)
	}
	return nil
}

// GetTop returns the richest accounts
func (r *AccountRepository) GetTop(ctx context.Context, limit int) ([]*entities.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE balance > 0
		ORDER BY balance DESC, account_id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
