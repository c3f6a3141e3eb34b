package repository

import (
	"context"
	"testing"
	"time"

	"herocraft/domain/entities"
	"herocraft/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotteryStateRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryStateRepository(testDB.DB)
	ctx := context.Background()

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.Pot)
	assert.Nil(t, state.NextDrawingAt)

	pot, err := repo.AddToPot(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), pot)
	pot, err = repo.AddToPot(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(40), pot)

	next := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	state.Pot = 15
	state.NextDrawingAt = &next
	require.NoError(t, repo.Update(ctx, state))

	stored, err := repo.GetForUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(15), stored.Pot)
	require.NotNil(t, stored.NextDrawingAt)
	assert.True(t, next.Equal(*stored.NextDrawingAt))
}

func TestLotteryTicketRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryTicketRepository(testDB.DB)
	ctx := context.Background()
	testutil.SeedAccount(t, testDB.DB, 1, 100)
	testutil.SeedAccount(t, testDB.DB, 2, 100)

	mine := []*entities.LotteryTicket{
		testutil.CreateTestTicket(1, []int{1, 2, 3, 4, 5}, 1),
		testutil.CreateTestTicket(1, []int{6, 7, 8, 9, 70}, 25),
	}
	for _, ticket := range mine {
		require.NoError(t, repo.Create(ctx, ticket))
		assert.NotZero(t, ticket.ID)
	}
	theirs := testutil.CreateTestTicket(2, []int{10, 20, 30, 40, 50}, 7)
	require.NoError(t, repo.Create(ctx, theirs))

	t.Run("numbers round trip", func(t *testing.T) {
		tickets, err := repo.GetByAccount(ctx, 1)
		require.NoError(t, err)
		require.Len(t, tickets, 2)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, tickets[0].Numbers)
		assert.Equal(t, []int{6, 7, 8, 9, 70}, tickets[1].Numbers)
		assert.Equal(t, 25, tickets[1].Bonus)
		assert.Equal(t, int64(10), tickets[1].Price)
	})

	t.Run("counts", func(t *testing.T) {
		held, err := repo.CountByAccount(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, held)

		participants, err := repo.CountParticipants(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, participants)

		total, err := repo.CountTickets(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("delete ignores tickets of other accounts", func(t *testing.T) {
		deleted, err := repo.DeleteByIDs(ctx, 1, []int64{mine[0].ID, theirs.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, mine[1].ID, all[0].ID)
		assert.Equal(t, theirs.ID, all[1].ID)
	})

	t.Run("delete all", func(t *testing.T) {
		deleted, err := repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		total, err := repo.CountTickets(ctx)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestLotteryDrawingRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryDrawingRepository(testDB.DB)
	ctx := context.Background()

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	drawnAt := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	tickets := []*entities.LotteryTicket{
		{ID: 1, AccountID: 1, Numbers: []int{1, 2, 3, 4, 60}, Bonus: 1},
		{ID: 2, AccountID: 2, Numbers: []int{10, 20, 30, 40, 50}, Bonus: 9},
	}
	drawing := entities.ResolveLotteryDrawing(200, tickets, []int{1, 2, 3, 4, 5}, 1, drawnAt)
	require.NoError(t, repo.Create(ctx, drawing))
	assert.NotZero(t, drawing.ID)

	latest, err = repo.GetLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, drawing.ID, latest.ID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, latest.WinningNumbers)
	assert.Equal(t, int64(80), latest.TotalPaid)
	assert.Equal(t, int64(120), latest.PotAfter)
	require.Len(t, latest.Winners, 1)
	assert.Equal(t, entities.Tier4PB, latest.Winners[0].Tier)
	require.Len(t, latest.NonWinners, 1)
	assert.Equal(t, int64(2), latest.NonWinners[0].AccountID)

	sameDay, err := repo.GetByDay(ctx, drawnAt.Add(-12*time.Hour))
	require.NoError(t, err)
	assert.Len(t, sameDay, 1)

	otherDay, err := repo.GetByDay(ctx, drawnAt.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, otherDay)
}
