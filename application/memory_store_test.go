package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/events"
	"herocraft/domain/interfaces"
)

// memoryStore is an in-memory database for engine tests. A unit of work holds
// the store mutex from Begin to Commit or Rollback, so transactions are serial.
type memoryStore struct {
	mu sync.Mutex

	accounts    map[int64]entities.Account
	history     []*entities.BalanceHistory
	settlements []*entities.WheelSettlement
	state       entities.LotteryState
	tickets     []*entities.LotteryTicket
	drawings    []*entities.LotteryDrawing
	voice       map[voiceKey]entities.VoiceRewardUsage
	nextID      int64

	// guarded by eventsMu so tests can read while engines run
	eventsMu  sync.Mutex
	published []events.Event

	failCommit      bool
	failSettlements bool
}

type voiceKey struct {
	accountID int64
	channelID int64
	day       time.Time
}

type memorySnapshot struct {
	accounts    map[int64]entities.Account
	history     []*entities.BalanceHistory
	settlements []*entities.WheelSettlement
	state       entities.LotteryState
	tickets     []*entities.LotteryTicket
	drawings    []*entities.LotteryDrawing
	voice       map[voiceKey]entities.VoiceRewardUsage
	nextID      int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[int64]entities.Account),
		voice:    make(map[voiceKey]entities.VoiceRewardUsage),
	}
}

func (s *memoryStore) snapshot() *memorySnapshot {
	accounts := make(map[int64]entities.Account, len(s.accounts))
	for k, v := range s.accounts {
		accounts[k] = v
	}
	voice := make(map[voiceKey]entities.VoiceRewardUsage, len(s.voice))
	for k, v := range s.voice {
		voice[k] = v
	}
	return &memorySnapshot{
		accounts:    accounts,
		history:     append([]*entities.BalanceHistory(nil), s.history...),
		settlements: append([]*entities.WheelSettlement(nil), s.settlements...),
		state:       s.state,
		tickets:     append([]*entities.LotteryTicket(nil), s.tickets...),
		drawings:    append([]*entities.LotteryDrawing(nil), s.drawings...),
		voice:       voice,
		nextID:      s.nextID,
	}
}

func (s *memoryStore) restore(snap *memorySnapshot) {
	s.accounts = snap.accounts
	s.history = snap.history
	s.settlements = snap.settlements
	s.state = snap.state
	s.tickets = snap.tickets
	s.drawings = snap.drawings
	s.voice = snap.voice
	s.nextID = snap.nextID
}

// seed sets balances outside any transaction
func (s *memoryStore) seed(balances map[int64]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, balance := range balances {
		s.accounts[id] = entities.Account{AccountID: id, Balance: balance}
	}
}

func (s *memoryStore) balance(accountID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountID].Balance
}

func (s *memoryStore) historyOf(accountID int64) []*entities.BalanceHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entities.BalanceHistory
	for _, h := range s.history {
		if h.AccountID == accountID {
			out = append(out, h)
		}
	}
	return out
}

func (s *memoryStore) settlementLog() []*entities.WheelSettlement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.WheelSettlement(nil), s.settlements...)
}

func (s *memoryStore) drawingLog() []*entities.LotteryDrawing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.LotteryDrawing(nil), s.drawings...)
}

func (s *memoryStore) lotteryState() entities.LotteryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *memoryStore) setLotteryState(state entities.LotteryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *memoryStore) setFailCommit(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = fail
}

func (s *memoryStore) setFailSettlements(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSettlements = fail
}

func (s *memoryStore) publishedEvents() []events.Event {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	return append([]events.Event(nil), s.published...)
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

// memoryUnitOfWorkFactory creates units of work over one memoryStore
type memoryUnitOfWorkFactory struct {
	store *memoryStore
}

func (f *memoryUnitOfWorkFactory) Create() UnitOfWork {
	return &memoryUnitOfWork{store: f.store}
}

type memoryUnitOfWork struct {
	store   *memoryStore
	snap    *memorySnapshot
	pending []events.Event
	open    bool
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if u.open {
		return errors.New("transaction already started")
	}
	u.store.mu.Lock()
	u.snap = u.store.snapshot()
	u.open = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.open {
		return errors.New("no transaction to commit")
	}
	u.open = false
	defer u.store.mu.Unlock()

	if u.store.failCommit {
		u.store.restore(u.snap)
		u.pending = nil
		return errors.New("failed to commit transaction: connection reset")
	}

	u.store.eventsMu.Lock()
	u.store.published = append(u.store.published, u.pending...)
	u.store.eventsMu.Unlock()
	u.pending = nil
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	if !u.open {
		return nil
	}
	u.open = false
	u.store.restore(u.snap)
	u.pending = nil
	u.store.mu.Unlock()
	return nil
}

func (u *memoryUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return &memoryAccounts{u.store}
}

func (u *memoryUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return &memoryHistory{u.store}
}

func (u *memoryUnitOfWork) WheelSettlementRepository() interfaces.WheelSettlementRepository {
	return &memorySettlements{u.store}
}

func (u *memoryUnitOfWork) LotteryStateRepository() interfaces.LotteryStateRepository {
	return &memoryLotteryState{u.store}
}

func (u *memoryUnitOfWork) LotteryTicketRepository() interfaces.LotteryTicketRepository {
	return &memoryTickets{u.store}
}

func (u *memoryUnitOfWork) LotteryDrawingRepository() interfaces.LotteryDrawingRepository {
	return &memoryDrawings{u.store}
}

func (u *memoryUnitOfWork) VoiceRewardRepository() interfaces.VoiceRewardRepository {
	return &memoryVoice{u.store}
}

func (u *memoryUnitOfWork) EventBus() interfaces.EventPublisher {
	return u
}

func (u *memoryUnitOfWork) Publish(event events.Event) error {
	u.pending = append(u.pending, event)
	return nil
}

type memoryAccounts struct{ s *memoryStore }

func (r *memoryAccounts) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	a, ok := r.s.accounts[accountID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memoryAccounts) GetOrCreateForUpdate(ctx context.Context, accountID int64) (*entities.Account, error) {
	a, ok := r.s.accounts[accountID]
	if !ok {
		a = entities.Account{AccountID: accountID}
		r.s.accounts[accountID] = a
	}
	return &a, nil
}

func (r *memoryAccounts) UpdateBalance(ctx context.Context, accountID int64, newBalance int64, rewardAt time.Time) error {
	a, ok := r.s.accounts[accountID]
	if !ok {
		return errors.New("account not found")
	}
	if newBalance < 0 {
		return errors.New("violates check constraint accounts_balance_check")
	}
	a.Balance = newBalance
	a.LastRewardAt = &rewardAt
	r.s.accounts[accountID] = a
	return nil
}

func (r *memoryAccounts) GetTop(ctx context.Context, limit int) ([]*entities.Account, error) {
	var out []*entities.Account
	for _, a := range r.s.accounts {
		if a.Balance > 0 {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].AccountID < out[j].AccountID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryHistory struct{ s *memoryStore }

func (r *memoryHistory) Record(ctx context.Context, history *entities.BalanceHistory) error {
	history.ID = r.s.id()
	r.s.history = append(r.s.history, history)
	return nil
}

func (r *memoryHistory) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	var out []*entities.BalanceHistory
	for i := len(r.s.history) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.history[i].AccountID == accountID {
			out = append(out, r.s.history[i])
		}
	}
	return out, nil
}

type memorySettlements struct{ s *memoryStore }

func (r *memorySettlements) Create(ctx context.Context, settlement *entities.WheelSettlement) error {
	if r.s.failSettlements {
		return errors.New("settlement insert failed")
	}
	r.s.settlements = append(r.s.settlements, settlement)
	return nil
}

func (r *memorySettlements) GetByDay(ctx context.Context, day time.Time) ([]*entities.WheelSettlement, error) {
	var out []*entities.WheelSettlement
	for _, s := range r.s.settlements {
		if s.LogDay.Equal(entities.LogDay(day)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySettlements) GetLatest(ctx context.Context) (*entities.WheelSettlement, error) {
	if len(r.s.settlements) == 0 {
		return nil, nil
	}
	return r.s.settlements[len(r.s.settlements)-1], nil
}

type memoryLotteryState struct{ s *memoryStore }

func (r *memoryLotteryState) Get(ctx context.Context) (*entities.LotteryState, error) {
	state := r.s.state
	return &state, nil
}

func (r *memoryLotteryState) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	return r.Get(ctx)
}

func (r *memoryLotteryState) Update(ctx context.Context, state *entities.LotteryState) error {
	r.s.state = *state
	return nil
}

func (r *memoryLotteryState) AddToPot(ctx context.Context, amount int64) (int64, error) {
	r.s.state.Pot += amount
	return r.s.state.Pot, nil
}

type memoryTickets struct{ s *memoryStore }

func (r *memoryTickets) Create(ctx context.Context, ticket *entities.LotteryTicket) error {
	ticket.ID = r.s.id()
	r.s.tickets = append(r.s.tickets, ticket)
	return nil
}

func (r *memoryTickets) GetByAccount(ctx context.Context, accountID int64) ([]*entities.LotteryTicket, error) {
	var out []*entities.LotteryTicket
	for _, t := range r.s.tickets {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryTickets) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	tickets, _ := r.GetByAccount(ctx, accountID)
	return len(tickets), nil
}

func (r *memoryTickets) GetAll(ctx context.Context) ([]*entities.LotteryTicket, error) {
	out := append([]*entities.LotteryTicket(nil), r.s.tickets...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryTickets) DeleteByIDs(ctx context.Context, accountID int64, ids []int64) (int64, error) {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.s.tickets[:0:0]
	var deleted int64
	for _, t := range r.s.tickets {
		if t.AccountID == accountID && drop[t.ID] {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.s.tickets = kept
	return deleted, nil
}

func (r *memoryTickets) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.s.tickets))
	r.s.tickets = nil
	return n, nil
}

func (r *memoryTickets) CountParticipants(ctx context.Context) (int, error) {
	seen := make(map[int64]struct{})
	for _, t := range r.s.tickets {
		seen[t.AccountID] = struct{}{}
	}
	return len(seen), nil
}

func (r *memoryTickets) CountTickets(ctx context.Context) (int, error) {
	return len(r.s.tickets), nil
}

type memoryDrawings struct{ s *memoryStore }

func (r *memoryDrawings) Create(ctx context.Context, drawing *entities.LotteryDrawing) error {
	drawing.ID = r.s.id()
	r.s.drawings = append(r.s.drawings, drawing)
	return nil
}

func (r *memoryDrawings) GetLatest(ctx context.Context) (*entities.LotteryDrawing, error) {
	if len(r.s.drawings) == 0 {
		return nil, nil
	}
	return r.s.drawings[len(r.s.drawings)-1], nil
}

func (r *memoryDrawings) GetByDay(ctx context.Context, day time.Time) ([]*entities.LotteryDrawing, error) {
	var out []*entities.LotteryDrawing
	for _, d := range r.s.drawings {
		if d.LogDay.Equal(entities.LogDay(day)) {
			out = append(out, d)
		}
	}
	return out, nil
}

type memoryVoice struct{ s *memoryStore }

func (r *memoryVoice) Get(ctx context.Context, accountID, channelID int64, day time.Time) (*entities.VoiceRewardUsage, error) {
	u, ok := r.s.voice[voiceKey{accountID, channelID, entities.LogDay(day)}]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memoryVoice) AddUsage(ctx context.Context, accountID, channelID int64, day time.Time, minutes int, coins int64) error {
	key := voiceKey{accountID, channelID, entities.LogDay(day)}
	u := r.s.voice[key]
	u.AccountID, u.ChannelID, u.Day = accountID, channelID, key.day
	u.Minutes += minutes
	u.Coins += coins
	r.s.voice[key] = u
	return nil
}

func (r *memoryVoice) GetByAccountDay(ctx context.Context, accountID int64, day time.Time) ([]*entities.VoiceRewardUsage, error) {
	var out []*entities.VoiceRewardUsage
	for k, u := range r.s.voice {
		if k.accountID == accountID && k.day.Equal(entities.LogDay(day)) {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out, nil
}
