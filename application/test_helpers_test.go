package application

import (
	"sync"
	"time"

	"herocraft/domain/utils"
	"herocraft/infrastructure/lock"
)

var testNow = time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

// scriptedRandom replays values, reducing each modulo n
type scriptedRandom struct {
	mu     sync.Mutex
	values []int
	next   int
}

func (r *scriptedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.values[r.next%len(r.values)] % n
	r.next++
	return v
}

type harness struct {
	store  *memoryStore
	clock  *utils.FixedClock
	ledger *Ledger
}

func newHarness(balances map[int64]int64) *harness {
	store := newMemoryStore()
	store.seed(balances)
	clock := utils.NewFixedClock(testNow)
	return &harness{
		store:  store,
		clock:  clock,
		ledger: NewLedger(&memoryUnitOfWorkFactory{store: store}, lock.New(), clock),
	}
}
