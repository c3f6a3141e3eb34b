package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"herocraft/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLedger_AdjustNeverGoesNegative(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(nil)
		ctx := context.Background()

		var model int64
		deltas := rapid.SliceOfN(rapid.Int64Range(-500, 500), 1, 30).Draw(rt, "deltas")
		for _, delta := range deltas {
			got, err := h.ledger.Adjust(ctx, 7, delta, entities.TransactionTypeAdjustment, nil)
			if err != nil {
				rt.Fatalf("adjust failed: %v", err)
			}
			model = entities.ClampBalance(model, delta)
			if got != model {
				rt.Fatalf("balance %d, want %d", got, model)
			}
			if got < 0 {
				rt.Fatalf("negative balance %d", got)
			}
		}

		balance, err := h.ledger.GetBalance(ctx, 7)
		if err != nil {
			rt.Fatalf("get balance failed: %v", err)
		}
		if balance != model {
			rt.Fatalf("stored balance %d, want %d", balance, model)
		}
	})
}

func TestLedger_GetBalanceUnknownAccount(t *testing.T) {
	t.Parallel()

	h := newHarness(nil)
	balance, err := h.ledger.GetBalance(context.Background(), 404)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestLedger_ConcurrentDebitsSerialize(t *testing.T) {
	t.Parallel()

	h := newHarness(map[int64]int64{1: 300})
	ctx := context.Background()

	var wg sync.WaitGroup
	var succeeded atomic.Int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.ledger.Debit(ctx, 1, 10, entities.TransactionTypeWheelBet, nil); err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(30), succeeded.Load())
	assert.Zero(t, h.store.balance(1))
	assert.Len(t, h.store.historyOf(1), 30)
}

func TestLedger_DifferentAccountsDoNotBlock(t *testing.T) {
	t.Parallel()

	h := newHarness(map[int64]int64{1: 100, 2: 100})
	ctx := context.Background()

	// Hold account 1 inside a transaction; a credit to account 2 must not wait on it
	release := make(chan struct{})
	entered := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- h.ledger.WithAccounts(ctx, []int64{1}, func(tx *LedgerTx) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	unlock, err := h.ledger.locks.LockAll(ctx, 2)
	require.NoError(t, err)
	unlock()

	close(release)
	require.NoError(t, <-done)
}

func TestLedger_Transfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int64
		amount   int64
		wantErr  error
		wantFrom int64
		wantTo   int64
	}{
		{name: "moves coins", from: 9, to: 3, amount: 40, wantFrom: 60, wantTo: 90},
		{name: "insufficient funds", from: 9, to: 3, amount: 101, wantErr: entities.ErrInsufficientFunds, wantFrom: 100, wantTo: 50},
		{name: "self transfer", from: 9, to: 9, amount: 10, wantErr: entities.ErrSelfTransfer, wantFrom: 100, wantTo: 50},
		{name: "zero amount", from: 9, to: 3, amount: 0, wantErr: entities.ErrInvalidAmount, wantFrom: 100, wantTo: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(map[int64]int64{9: 100, 3: 50})

			result, err := h.ledger.Transfer(context.Background(), tt.from, tt.to, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantFrom, result.FromBalance)
				assert.Equal(t, tt.wantTo, result.ToBalance)
			}
			assert.Equal(t, tt.wantFrom, h.store.balance(9))
			assert.Equal(t, tt.wantTo, h.store.balance(3))
		})
	}
}

func TestLedger_CommitFailureIsPersistenceFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(map[int64]int64{5: 100})
	h.store.setFailCommit(true)

	_, err := h.ledger.Credit(context.Background(), 5, 25, entities.TransactionTypeAdjustment, nil)
	assert.ErrorIs(t, err, entities.ErrPersistenceFailure)
	assert.Equal(t, int64(100), h.store.balance(5))
	assert.Empty(t, h.store.historyOf(5))
	assert.Empty(t, h.store.publishedEvents())
}

func TestLedger_LeaderboardAndHistory(t *testing.T) {
	t.Parallel()

	h := newHarness(map[int64]int64{1: 10, 2: 300, 3: 0, 4: 300})
	ctx := context.Background()

	top, err := h.ledger.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].AccountID)
	assert.Equal(t, int64(4), top[1].AccountID)

	_, err = h.ledger.Credit(ctx, 1, 5, entities.TransactionTypeMessageReward, nil)
	require.NoError(t, err)
	_, err = h.ledger.Debit(ctx, 1, 3, entities.TransactionTypeWheelBet, nil)
	require.NoError(t, err)

	history, err := h.ledger.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entities.TransactionTypeWheelBet, history[0].TransactionType)
	assert.Equal(t, int64(12), history[0].BalanceAfter)
}
