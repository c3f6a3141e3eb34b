package testutil

import (
	"context"
	"testing"
	"time"

	"herocraft/database"
	"herocraft/domain/entities"

	"github.com/stretchr/testify/require"
)

// SeedAccount inserts an account with the given balance
func SeedAccount(t *testing.T, db *database.DB, accountID, balance int64) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO accounts (account_id, balance) VALUES ($1, $2)
		 ON CONFLICT (account_id) DO UPDATE SET balance = EXCLUDED.balance`,
		accountID, balance)
	require.NoError(t, err)
}

// CreateTestBalanceHistory creates a history entry for a debit of 10
func CreateTestBalanceHistory(accountID int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   100,
		BalanceAfter:    90,
		ChangeAmount:    -10,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestTicket creates an unsaved ticket
func CreateTestTicket(accountID int64, numbers []int, bonus int) *entities.LotteryTicket {
	return &entities.LotteryTicket{
		AccountID: accountID,
		Numbers:   numbers,
		Bonus:     bonus,
		Price:     10,
	}
}

// CreateTestWheelSettlement creates a settled cycle with one winner and one loser
func CreateTestWheelSettlement(cycle int64, settledAt time.Time) *entities.WheelSettlement {
	blue := entities.WheelOutcome{Name: "blue", Multiplier: 5, Weight: 4}
	return entities.NewWheelSettlement(cycle, []entities.WheelBet{
		{AccountID: 1, Amount: 50, Outcome: "blue"},
		{AccountID: 2, Amount: 20, Outcome: "red"},
	}, blue, settledAt)
}
