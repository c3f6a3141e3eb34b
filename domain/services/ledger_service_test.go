package services

import (
	"context"
	"errors"
	"testing"

	"herocraft/domain/entities"
	"herocraft/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		account *entities.Account
		repoErr error
		want    int64
		wantErr error
	}{
		{name: "unknown account is zero", account: nil, want: 0},
		{name: "existing account", account: &entities.Account{AccountID: 1, Balance: 250}, want: 250},
		{name: "storage error is a persistence failure", repoErr: errors.New("conn reset"), wantErr: entities.ErrPersistenceFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ledger, m := newTestLedger()
			m.accounts.On("GetByID", mock.Anything, int64(1)).Return(tt.account, tt.repoErr)

			got, err := ledger.GetBalance(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLedgerService_AdjustClampsAtZero(t *testing.T) {
	t.Parallel()

	ledger, m := newTestLedger()
	m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: 30}, nil)
	m.accounts.On("UpdateBalance", mock.Anything, int64(1), int64(0), testNow).Return(nil)

	got, err := ledger.Adjust(context.Background(), 1, -100, entities.TransactionTypeAdjustment, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	m.history.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.ChangeAmount == -30 && h.BalanceAfter == 0 && h.TransactionMetadata["requested_delta"] == int64(-100)
	}))
	m.publisher.AssertCalled(t, "Publish", mock.MatchedBy(func(e events.Event) bool {
		bc, ok := e.(events.BalanceChangeEvent)
		return ok && bc.NewBalance == 0
	}))
}

func TestLedgerService_Debit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		balance int64
		amount  int64
		want    int64
		wantErr error
	}{
		{name: "sufficient funds", balance: 100, amount: 40, want: 60},
		{name: "exact balance", balance: 100, amount: 100, want: 0},
		{name: "insufficient funds", balance: 50, amount: 100, wantErr: entities.ErrInsufficientFunds},
		{name: "zero amount", balance: 50, amount: 0, wantErr: entities.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ledger, m := newTestLedger()
			m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: tt.balance}, nil)
			m.accounts.On("UpdateBalance", mock.Anything, int64(1), tt.want, testNow).Return(nil).Maybe()

			got, err := ledger.Debit(context.Background(), 1, tt.amount, entities.TransactionTypeWheelBet, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLedgerService_DebitReportsBalance(t *testing.T) {
	t.Parallel()

	ledger, m := newTestLedger()
	m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: 25}, nil)

	_, err := ledger.Debit(context.Background(), 1, 100, entities.TransactionTypeLotteryTicket, nil)

	var insufficient *entities.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(25), insufficient.Balance)
	assert.Equal(t, int64(100), insufficient.Required)
}

func TestLedgerService_UpdateFailureIsPersistenceFailure(t *testing.T) {
	t.Parallel()

	ledger, m := newTestLedger()
	m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: 25}, nil)
	m.accounts.On("UpdateBalance", mock.Anything, int64(1), int64(35), testNow).Return(errors.New("disk full"))

	_, err := ledger.Credit(context.Background(), 1, 10, entities.TransactionTypeMessageReward, nil)
	assert.ErrorIs(t, err, entities.ErrPersistenceFailure)
	m.history.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_Transfer(t *testing.T) {
	t.Parallel()

	t.Run("locks rows in ascending order", func(t *testing.T) {
		t.Parallel()
		ledger, m := newTestLedger()
		m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(3)).Return(&entities.Account{AccountID: 3, Balance: 10}, nil)
		m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(9)).Return(&entities.Account{AccountID: 9, Balance: 500}, nil)
		m.accounts.On("UpdateBalance", mock.Anything, int64(9), int64(300), testNow).Return(nil)
		m.accounts.On("UpdateBalance", mock.Anything, int64(3), int64(210), testNow).Return(nil)

		result, err := ledger.Transfer(context.Background(), 9, 3, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(300), result.FromBalance)
		assert.Equal(t, int64(210), result.ToBalance)

		require.GreaterOrEqual(t, len(m.accounts.Calls), 2)
		assert.Equal(t, int64(3), m.accounts.Calls[0].Arguments.Get(1))
		assert.Equal(t, int64(9), m.accounts.Calls[1].Arguments.Get(1))
	})

	t.Run("self transfer rejected", func(t *testing.T) {
		t.Parallel()
		ledger, m := newTestLedger()
		_, err := ledger.Transfer(context.Background(), 5, 5, 10)
		assert.ErrorIs(t, err, entities.ErrSelfTransfer)
		m.accounts.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("insufficient funds leaves both untouched", func(t *testing.T) {
		t.Parallel()
		ledger, m := newTestLedger()
		m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: 5}, nil)
		m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(2)).Return(&entities.Account{AccountID: 2, Balance: 0}, nil)

		_, err := ledger.Transfer(context.Background(), 1, 2, 10)
		assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
		m.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		t.Parallel()
		ledger, _ := newTestLedger()
		_, err := ledger.Transfer(context.Background(), 1, 2, -5)
		assert.ErrorIs(t, err, entities.ErrInvalidAmount)
	})
}
