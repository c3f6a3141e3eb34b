package services

import (
	"context"
	"testing"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/events"
	"herocraft/domain/interfaces"
	"herocraft/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRules = LotteryRules{
	TicketPrice:          100,
	PotMultiplier:        2,
	MaxTicketsPerAccount: 5,
	DrawingHour:          20,
	DrawingMinute:        0,
}

type lotteryMocks struct {
	*ledgerMocks
	state    *testhelpers.MockLotteryStateRepository
	tickets  *testhelpers.MockLotteryTicketRepository
	drawings *testhelpers.MockLotteryDrawingRepository
}

func newTestLotteryService(rng entities.RandomSource) (interfaces.LotteryService, *lotteryMocks) {
	ledger, lm := newTestLedger()
	m := &lotteryMocks{
		ledgerMocks: lm,
		state:       new(testhelpers.MockLotteryStateRepository),
		tickets:     new(testhelpers.MockLotteryTicketRepository),
		drawings:    new(testhelpers.MockLotteryDrawingRepository),
	}
	svc := NewLotteryService(ledger, m.state, m.tickets, m.drawings, lm.publisher, rng, testRules)
	return svc, m
}

func TestLotteryService_BuyTicketScenario(t *testing.T) {
	t.Parallel()

	svc, m := newTestLotteryService(&scriptedRandom{values: []int{0}})
	account := &entities.Account{AccountID: 42, Balance: 1000}
	m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(42)).Return(account, nil)
	m.accounts.On("UpdateBalance", mock.Anything, int64(42), int64(900), testNow).Return(nil)
	m.tickets.On("CountByAccount", mock.Anything, int64(42)).Return(0, nil)
	m.tickets.On("Create", mock.Anything, mock.MatchedBy(func(t *entities.LotteryTicket) bool {
		return t.AccountID == 42 && t.Bonus == 7 && assert.ObjectsAreEqual([]int{1, 2, 3, 4, 5}, t.Numbers)
	})).Return(nil)
	m.state.On("GetForUpdate", mock.Anything).Return(&entities.LotteryState{}, nil)
	m.state.On("AddToPot", mock.Anything, int64(200)).Return(int64(200), nil)

	result, err := svc.BuyTicket(context.Background(), 42, []int{5, 4, 3, 2, 1}, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(900), result.NewBalance)
	assert.Equal(t, int64(200), result.Pot)
	assert.Equal(t, 1, result.Held)

	m.publisher.AssertCalled(t, "Publish", mock.MatchedBy(func(e events.Event) bool {
		_, ok := e.(events.LotteryTicketPurchasedEvent)
		return ok
	}))
}

func TestLotteryService_BuyTicketRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		numbers []int
		bonus   int
		held    int
		balance int64
		wantErr error
	}{
		{name: "invalid numbers", numbers: []int{1, 2, 3}, bonus: 7, wantErr: entities.ErrInvalidTicketNumbers},
		{name: "at cap", numbers: []int{1, 2, 3, 4, 5}, bonus: 7, held: 5, balance: 1000, wantErr: entities.ErrTicketLimitExceeded},
		{name: "cannot afford", numbers: []int{1, 2, 3, 4, 5}, bonus: 7, held: 0, balance: 99, wantErr: entities.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, m := newTestLotteryService(&scriptedRandom{values: []int{0}})
			m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: tt.balance}, nil).Maybe()
			m.tickets.On("CountByAccount", mock.Anything, int64(1)).Return(tt.held, nil).Maybe()
			m.state.On("GetForUpdate", mock.Anything).Return(&entities.LotteryState{}, nil).Maybe()

			_, err := svc.BuyTicket(context.Background(), 1, tt.numbers, tt.bonus)
			assert.ErrorIs(t, err, tt.wantErr)
			m.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			m.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			m.state.AssertNotCalled(t, "AddToPot", mock.Anything, mock.Anything)
		})
	}
}

func TestLotteryService_TicketLimitCarriesCounts(t *testing.T) {
	t.Parallel()

	svc, m := newTestLotteryService(&scriptedRandom{values: []int{0}})
	m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: 1000}, nil)
	m.tickets.On("CountByAccount", mock.Anything, int64(1)).Return(5, nil)
	m.state.On("GetForUpdate", mock.Anything).Return(&entities.LotteryState{}, nil)

	_, err := svc.QuickPick(context.Background(), 1)

	var limit *entities.TicketLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 5, limit.Held)
	assert.Equal(t, 5, limit.Max)
}

func TestLotteryService_DiscardTickets(t *testing.T) {
	t.Parallel()

	held := []*entities.LotteryTicket{{ID: 11}, {ID: 12}, {ID: 13}}

	t.Run("discards by position", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestLotteryService(&scriptedRandom{values: []int{0}})
		m.tickets.On("GetByAccount", mock.Anything, int64(1)).Return(held, nil)
		m.tickets.On("DeleteByIDs", mock.Anything, int64(1), []int64{13, 11}).Return(int64(2), nil)

		n, err := svc.DiscardTickets(context.Background(), 1, []int{3, 1, 3})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		m.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of range index rejects everything", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestLotteryService(&scriptedRandom{values: []int{0}})
		m.tickets.On("GetByAccount", mock.Anything, int64(1)).Return(held, nil)

		_, err := svc.DiscardTickets(context.Background(), 1, []int{1, 4})
		assert.ErrorIs(t, err, entities.ErrInvalidTicketIndex)
		m.tickets.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLotteryService_ConductDrawingNotDue(t *testing.T) {
	t.Parallel()

	svc, m := newTestLotteryService(&scriptedRandom{values: []int{0}})
	future := testNow.Add(time.Hour)
	m.state.On("GetForUpdate", mock.Anything).Return(&entities.LotteryState{Pot: 500, NextDrawingAt: &future}, nil)

	drawing, err := svc.ConductDrawing(context.Background(), testNow)
	require.NoError(t, err)
	assert.Nil(t, drawing)
	m.tickets.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestLotteryService_ConductDrawingFourPlusBonus(t *testing.T) {
	t.Parallel()

	// Draws 1 2 3 4 6 with bonus 7
	svc, m := newTestLotteryService(&scriptedRandom{values: []int{0, 0, 0, 0, 1, 6}})
	due := testNow.Add(-30 * time.Second)
	state := &entities.LotteryState{Pot: 200, NextDrawingAt: &due}
	ticket := &entities.LotteryTicket{ID: 1, AccountID: 42, Numbers: []int{1, 2, 3, 4, 5}, Bonus: 7, Price: 100}

	m.state.On("GetForUpdate", mock.Anything).Return(state, nil)
	m.tickets.On("GetAll", mock.Anything).Return([]*entities.LotteryTicket{ticket}, nil)
	m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(42)).Return(&entities.Account{AccountID: 42, Balance: 900}, nil)
	m.accounts.On("UpdateBalance", mock.Anything, int64(42), int64(980), testNow).Return(nil)
	m.tickets.On("DeleteAll", mock.Anything).Return(int64(1), nil)
	m.state.On("Update", mock.Anything, mock.MatchedBy(func(s *entities.LotteryState) bool {
		next := time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC)
		return s.Pot == 120 && s.NextDrawingAt != nil && s.NextDrawingAt.Equal(next)
	})).Return(nil)
	m.drawings.On("Create", mock.Anything, mock.Anything).Return(nil)

	drawing, err := svc.ConductDrawing(context.Background(), testNow)
	require.NoError(t, err)
	require.NotNil(t, drawing)
	assert.Equal(t, []int{1, 2, 3, 4, 6}, drawing.WinningNumbers)
	assert.Equal(t, 7, drawing.WinningBonus)
	require.Len(t, drawing.Winners, 1)
	assert.Equal(t, entities.Tier4PB, drawing.Winners[0].Tier)
	assert.Equal(t, int64(80), drawing.Winners[0].Payout)

	m.state.AssertExpectations(t)
	m.drawings.AssertExpectations(t)
}

func TestLotteryService_ConductDrawingNoParticipants(t *testing.T) {
	t.Parallel()

	svc, m := newTestLotteryService(&scriptedRandom{values: []int{3}})
	due := testNow.Add(-time.Minute)
	m.state.On("GetForUpdate", mock.Anything).Return(&entities.LotteryState{Pot: 640, NextDrawingAt: &due}, nil)
	m.tickets.On("GetAll", mock.Anything).Return([]*entities.LotteryTicket{}, nil)
	m.tickets.On("DeleteAll", mock.Anything).Return(int64(0), nil)
	m.state.On("Update", mock.Anything, mock.MatchedBy(func(s *entities.LotteryState) bool {
		return s.Pot == 640 && s.NextDrawingAt.After(testNow)
	})).Return(nil)
	m.drawings.On("Create", mock.Anything, mock.Anything).Return(nil)

	drawing, err := svc.ConductDrawing(context.Background(), testNow)
	require.NoError(t, err)
	assert.False(t, drawing.HasWinners())
	m.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLotteryService_EnsureScheduled(t *testing.T) {
	t.Parallel()

	svc, m := newTestLotteryService(&scriptedRandom{values: []int{0}})
	m.state.On("GetForUpdate", mock.Anything).Return(&entities.LotteryState{Pot: 0}, nil)
	m.state.On("Update", mock.Anything, mock.Anything).Return(nil)

	state, err := svc.EnsureScheduled(context.Background(), time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, state.NextDrawingAt)
	assert.Equal(t, time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC), *state.NextDrawingAt)
}
