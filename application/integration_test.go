package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"herocraft/application"
	"herocraft/domain/entities"
	"herocraft/domain/events"
	"herocraft/domain/services"
	"herocraft/domain/utils"
	"herocraft/infrastructure"
	"herocraft/infrastructure/lock"
	"herocraft/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroRandom struct{}

func (zeroRandom) Intn(int) int { return 0 }

func TestLedgerIntegration_ConcurrentTransfersConserveCoins(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	for id := int64(1); id <= 4; id++ {
		testutil.SeedAccount(t, testDB.DB, id, 1000)
	}

	publisher := infrastructure.NewLocalEventPublisher()
	var mu sync.Mutex
	changes := 0
	publisher.RegisterLocalHandler(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) error {
		mu.Lock()
		changes++
		mu.Unlock()
		return nil
	})

	clock := utils.NewFixedClock(time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC))
	ledger := application.NewLedger(infrastructure.NewUnitOfWorkFactory(testDB.DB, publisher), lock.New(), clock)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from := int64(i%4) + 1
			to := int64((i+1)%4) + 1
			_, err := ledger.Transfer(ctx, from, to, 25)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var total int64
	for id := int64(1); id <= 4; id++ {
		balance, err := ledger.GetBalance(ctx, id)
		require.NoError(t, err)
		total += balance
	}
	assert.Equal(t, int64(4000), total)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 80, changes)
}

func TestLotteryIntegration_PurchaseAndDrawing(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	testutil.SeedAccount(t, testDB.DB, 1, 100)

	clock := utils.NewFixedClock(time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC))
	ledger := application.NewLedger(infrastructure.NewUnitOfWorkFactory(testDB.DB, infrastructure.NewNoopEventPublisher()), lock.New(), clock)
	lottery := application.NewLottery(ledger, zeroRandom{}, clock, services.LotteryRules{
		TicketPrice:          10,
		PotMultiplier:        2,
		MaxTicketsPerAccount: 5,
		DrawingHour:          20,
	})
	ctx := context.Background()

	purchase, err := lottery.BuyTicket(ctx, 1, []int{1, 2, 3, 4, 60}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(90), purchase.NewBalance)
	assert.Equal(t, int64(20), purchase.Pot)

	_, err = lottery.EnsureScheduled(ctx)
	require.NoError(t, err)
	clock.Advance(time.Hour)

	drawing, err := lottery.ConductDrawing(ctx)
	require.NoError(t, err)
	require.NotNil(t, drawing)
	assert.Equal(t, int64(8), drawing.TotalPaid)
	require.Len(t, drawing.Winners, 1)
	assert.Equal(t, entities.Tier4PB, drawing.Winners[0].Tier)

	balance, err := ledger.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(98), balance)

	status, err := lottery.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), status.Pot)
	assert.Zero(t, status.Tickets)
	require.NotNil(t, status.LastDrawing)
	assert.Equal(t, drawing.ID, status.LastDrawing.ID)
}
