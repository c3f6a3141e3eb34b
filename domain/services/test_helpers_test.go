package services

import (
	"time"

	"herocraft/domain/interfaces"
	"herocraft/domain/testhelpers"
	"herocraft/domain/utils"

	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2024, 5, 1, 20, 0, 30, 0, time.UTC)

// scriptedRandom replays values, reducing each modulo n
type scriptedRandom struct {
	values []int
	next   int
}

func (s *scriptedRandom) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

type ledgerMocks struct {
	accounts  *testhelpers.MockAccountRepository
	history   *testhelpers.MockBalanceHistoryRepository
	publisher *testhelpers.MockEventPublisher
}

// newTestLedger builds a real ledger over mocks that accept history and events
func newTestLedger() (interfaces.LedgerService, *ledgerMocks) {
	m := &ledgerMocks{
		accounts:  new(testhelpers.MockAccountRepository),
		history:   new(testhelpers.MockBalanceHistoryRepository),
		publisher: new(testhelpers.MockEventPublisher),
	}
	m.history.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.publisher.On("Publish", mock.Anything).Return(nil).Maybe()
	return NewLedgerService(m.accounts, m.history, m.publisher, utils.NewFixedClock(testNow)), m
}
