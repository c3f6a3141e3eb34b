package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/events"
	"herocraft/domain/interfaces"
	"herocraft/domain/utils"
	"herocraft/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// RideTheBusRules are the configured stake bounds and idle timeout
type RideTheBusRules struct {
	MinStake int64
	MaxStake int64
	Timeout  time.Duration
}

// SessionView is the display state of a ride the bus session after an action
type SessionView struct {
	AccountID      int64
	Stake          int64
	Round          int
	Pot            int64
	NextPot        int64
	Cards          []entities.Card
	LastCard       *entities.Card
	LastChoice     entities.Choice
	Correct        bool
	Status         entities.SessionStatus
	WinProbability float64
	Payout         int64
	Balance        int64
	ExpiresAt      time.Time
}

// IsTerminal reports whether the session has ended
func (v *SessionView) IsTerminal() bool {
	return v.Status != entities.SessionActive
}

// TimeoutHandler is told about sessions forfeited for inactivity
type TimeoutHandler func(view *SessionView)

type busSession struct {
	mu    sync.Mutex
	state *entities.WagerSession
	timer *time.Timer
	gen   uint64
	// payoutPending marks a finished session whose credit did not commit.
	// It stays registered until a retry pays it.
	payoutPending bool
}

// RideTheBusEngine drives card game sessions. It has no background goroutine:
// rounds advance on player actions and each session carries its own idle timer.
type RideTheBusEngine struct {
	ledger    *Ledger
	registry  *SessionRegistry[*busSession]
	publisher interfaces.EventPublisher
	rng       entities.RandomSource
	clock     utils.Clock
	rules     RideTheBusRules

	mu         sync.Mutex
	lastStakes map[int64]int64
	onTimeout  TimeoutHandler
}

// NewRideTheBusEngine creates the card game engine
func NewRideTheBusEngine(
	ledger *Ledger,
	publisher interfaces.EventPublisher,
	rng entities.RandomSource,
	clock utils.Clock,
	rules RideTheBusRules,
) *RideTheBusEngine {
	return &RideTheBusEngine{
		ledger:     ledger,
		registry:   NewSessionRegistry[*busSession](),
		publisher:  publisher,
		rng:        rng,
		clock:      clock,
		rules:      rules,
		lastStakes: make(map[int64]int64),
	}
}

// OnTimeout sets the callback run after an idle session is forfeited
func (e *RideTheBusEngine) OnTimeout(handler TimeoutHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTimeout = handler
}

// Start escrows the stake and opens a session at round one
func (e *RideTheBusEngine) Start(ctx context.Context, accountID, stake int64) (*SessionView, error) {
	if stake < e.rules.MinStake || stake > e.rules.MaxStake {
		return nil, &entities.StakeRangeError{Stake: stake, Min: e.rules.MinStake, Max: e.rules.MaxStake}
	}

	sess := &busSession{state: entities.NewWagerSession(accountID, stake, e.clock.Now())}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := e.registry.Reserve(accountID, sess); err != nil {
		if !e.settlePending(ctx, accountID) {
			return nil, err
		}
		if err := e.registry.Reserve(accountID, sess); err != nil {
			return nil, err
		}
	}

	balance, err := e.ledger.Debit(ctx, accountID, stake, entities.TransactionTypeRideTheBusStake, map[string]any{"stake": stake})
	if err != nil {
		// A concurrent action holding this handle must see a dead session
		sess.state.Forfeit()
		e.registry.Release(accountID, sess)
		return nil, err
	}

	e.mu.Lock()
	e.lastStakes[accountID] = stake
	e.mu.Unlock()

	e.armTimer(sess)
	observability.GetMetrics().UpdateActiveSessions(1)

	log.WithFields(log.Fields{
		"accountID": accountID,
		"stake":     stake,
	}).Info("Ride the bus session started")

	view := e.view(sess)
	view.Balance = balance
	return view, nil
}

// PlayAgain starts a new session with the last stake the account used
func (e *RideTheBusEngine) PlayAgain(ctx context.Context, accountID int64) (*SessionView, error) {
	e.mu.Lock()
	stake, ok := e.lastStakes[accountID]
	e.mu.Unlock()
	if !ok {
		return nil, entities.ErrNoActiveSession
	}
	return e.Start(ctx, accountID, stake)
}

// LastStake returns the stake of the account's most recent session
func (e *RideTheBusEngine) LastStake(accountID int64) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	stake, ok := e.lastStakes[accountID]
	return stake, ok
}

// Choose plays the current round with the given call
func (e *RideTheBusEngine) Choose(ctx context.Context, accountID int64, choice entities.Choice) (*SessionView, error) {
	sess, ok := e.registry.Get(accountID)
	if !ok {
		return nil, entities.ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.payoutPending {
		view, err := e.finish(ctx, sess)
		if view != nil {
			view.Correct = view.Status == entities.SessionWon
		}
		return view, err
	}
	if sess.state.IsTerminal() {
		return nil, entities.ErrNoActiveSession
	}
	if !choice.ValidForRound(sess.state.Round) {
		return nil, fmt.Errorf("%w: %q in round %d", entities.ErrInvalidChoice, choice, sess.state.Round)
	}

	card := entities.DrawCard(e.rng)
	correct, err := sess.state.Play(choice, card, e.clock.Now())
	if err != nil {
		return nil, err
	}

	if !sess.state.IsTerminal() {
		e.armTimer(sess)
		view := e.view(sess)
		view.Correct = correct
		return view, nil
	}

	view, err := e.finish(ctx, sess)
	if view != nil {
		view.Correct = correct
	}
	return view, err
}

// CashOut ends the session and pays the pot reached so far
func (e *RideTheBusEngine) CashOut(ctx context.Context, accountID int64) (*SessionView, error) {
	sess, ok := e.registry.Get(accountID)
	if !ok {
		return nil, entities.ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.payoutPending {
		return e.finish(ctx, sess)
	}
	if _, err := sess.state.CashOut(e.clock.Now()); err != nil {
		return nil, err
	}
	return e.finish(ctx, sess)
}

// Get returns the live session of the account
func (e *RideTheBusEngine) Get(accountID int64) (*SessionView, error) {
	sess, ok := e.registry.Get(accountID)
	if !ok {
		return nil, entities.ErrNoActiveSession
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.IsTerminal() {
		return nil, entities.ErrNoActiveSession
	}
	return e.view(sess), nil
}

// ActiveSessions returns the number of live sessions
func (e *RideTheBusEngine) ActiveSessions() int {
	return e.registry.Len()
}

// Shutdown stops every idle timer and returns live stakes to their owners
func (e *RideTheBusEngine) Shutdown(ctx context.Context) {
	for _, sess := range e.registry.Snapshot() {
		sess.mu.Lock()
		if sess.timer != nil {
			sess.timer.Stop()
		}
		accountID, stake := sess.state.AccountID, sess.state.Stake
		if sess.payoutPending {
			if _, err := e.finish(ctx, sess); err != nil {
				log.WithError(err).WithField("accountID", accountID).Error("Failed to pay pending ride the bus session on shutdown")
			}
			if sess.timer != nil {
				sess.timer.Stop()
			}
		} else if !sess.state.IsTerminal() && e.registry.Release(accountID, sess) {
			sess.state.Forfeit()
			if _, err := e.ledger.Credit(ctx, accountID, stake, entities.TransactionTypeRideTheBusPayout, map[string]any{
				"reason": "shutdown_refund",
			}); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"accountID": accountID,
					"stake":     stake,
				}).Error("Failed to refund ride the bus stake on shutdown")
			}
			observability.GetMetrics().UpdateActiveSessions(-1)
		}
		sess.mu.Unlock()
	}
}

// finish pays a terminal session, then removes it. When the credit fails the
// session stays registered with payoutPending set and nothing is announced,
// so a later CashOut, Choose, Start or idle timer retries the payment.
// The caller holds sess.mu.
func (e *RideTheBusEngine) finish(ctx context.Context, sess *busSession) (*SessionView, error) {
	state := sess.state
	if sess.timer != nil {
		sess.timer.Stop()
	}
	if current, ok := e.registry.Get(state.AccountID); !ok || current != sess {
		return nil, entities.ErrNoActiveSession
	}

	view := e.view(sess)
	view.Payout = state.Payout()

	if view.Payout > 0 {
		balance, err := e.ledger.Credit(ctx, state.AccountID, view.Payout, entities.TransactionTypeRideTheBusPayout, map[string]any{
			"stake":  state.Stake,
			"round":  state.Round,
			"status": state.Status,
		})
		if err != nil {
			sess.payoutPending = true
			e.armTimer(sess)
			log.WithError(err).WithFields(log.Fields{
				"accountID": state.AccountID,
				"payout":    view.Payout,
			}).Error("Failed to pay ride the bus session, payout kept pending")
			return nil, err
		}
		view.Balance = balance
	}

	sess.payoutPending = false
	e.registry.Release(state.AccountID, sess)

	metrics := observability.GetMetrics()
	metrics.UpdateActiveSessions(-1)
	metrics.RecordSessionEnded(string(state.Status))

	if err := e.publisher.Publish(events.RideTheBusEndedEvent{
		AccountID: state.AccountID,
		Stake:     state.Stake,
		Payout:    view.Payout,
		Round:     state.Round,
		Status:    state.Status,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ride the bus ended event")
	}

	log.WithFields(log.Fields{
		"accountID": state.AccountID,
		"stake":     state.Stake,
		"status":    state.Status,
		"payout":    view.Payout,
	}).Info("Ride the bus session ended")

	return view, nil
}

// settlePending retries the payout of a finished session still holding the
// account's slot. It reports whether the slot is free afterwards.
func (e *RideTheBusEngine) settlePending(ctx context.Context, accountID int64) bool {
	sess, ok := e.registry.Get(accountID)
	if !ok {
		return true
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.payoutPending {
		return false
	}
	_, err := e.finish(ctx, sess)
	return err == nil
}

// armTimer (re)starts the idle timer. A bumped generation makes an already
// fired callback a no-op. The caller holds sess.mu.
func (e *RideTheBusEngine) armTimer(sess *busSession) {
	sess.gen++
	gen := sess.gen
	if sess.timer != nil {
		sess.timer.Stop()
	}
	sess.timer = time.AfterFunc(e.rules.Timeout, func() {
		e.expire(sess, gen)
	})
}

func (e *RideTheBusEngine) expire(sess *busSession, gen uint64) {
	sess.mu.Lock()
	if sess.gen != gen {
		sess.mu.Unlock()
		return
	}
	if sess.payoutPending {
		if _, err := e.finish(context.Background(), sess); err != nil {
			log.WithError(err).Warn("Retry of pending ride the bus payout failed")
		}
		sess.mu.Unlock()
		return
	}
	if sess.state.IsTerminal() {
		sess.mu.Unlock()
		return
	}
	sess.state.Forfeit()
	view, err := e.finish(context.Background(), sess)
	sess.mu.Unlock()

	if err != nil && !errors.Is(err, entities.ErrNoActiveSession) {
		log.WithError(err).Error("Failed to end timed out ride the bus session")
	}
	if view == nil {
		return
	}

	e.mu.Lock()
	handler := e.onTimeout
	e.mu.Unlock()
	if handler != nil {
		handler(view)
	}
}

func (e *RideTheBusEngine) view(sess *busSession) *SessionView {
	s := sess.state
	view := &SessionView{
		AccountID:      s.AccountID,
		Stake:          s.Stake,
		Round:          s.Round,
		Pot:            s.Pot,
		NextPot:        s.NextPot(),
		Cards:          append([]entities.Card(nil), s.Cards...),
		LastChoice:     s.LastChoice,
		Status:         s.Status,
		WinProbability: s.WinProbability(),
		ExpiresAt:      s.LastActionAt.Add(e.rules.Timeout),
	}
	if n := len(s.Cards); n > 0 {
		last := s.Cards[n-1]
		view.LastCard = &last
	}
	return view
}
