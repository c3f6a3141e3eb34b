package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/events"
	"herocraft/domain/utils"
	"herocraft/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// WheelRules are the configured outcome space and phase lengths
type WheelRules struct {
	Outcomes        entities.WheelOutcomes
	CountdownPeriod time.Duration
	SpinPeriod      time.Duration
}

// WheelBetAck confirms an accepted bet
type WheelBetAck struct {
	Bet        entities.WheelBet
	Replaced   *entities.WheelBet
	Balance    int64
	Cycle      int64
	ClosesAt   time.Time
	ClosesIn   time.Duration
	PendingPot int64
}

// WheelPhaseView is the display state of the wheel
type WheelPhaseView struct {
	Phase            entities.WheelPhase
	Cycle            int64
	NextResolutionAt time.Time
	Remaining        time.Duration
	PendingBets      int
	TotalStaked      int64
	SpinningOutcome  string
}

// WheelResult is a resolved cycle
type WheelResult struct {
	Settlement *entities.WheelSettlement
	Outcome    entities.WheelOutcome
}

// wheelSpin is a snapshot of one cycle's bets taken when betting closed
type wheelSpin struct {
	boundary time.Time
	settleAt time.Time
	cycle    int64
	bets     []entities.WheelBet
	outcome  entities.WheelOutcome
}

const (
	settleAttempts     = 3
	settleRetryBackoff = time.Second
)

// WheelEngine runs the continuous wheel. One owner goroutine drives the phases;
// bet intake and the close-of-betting snapshot share mu, so every bet lands in
// exactly one cycle.
type WheelEngine struct {
	ledger *Ledger
	rng    entities.RandomSource
	clock  utils.Clock
	rules  WheelRules

	settleBackoff time.Duration

	mu               sync.Mutex
	phase            entities.WheelPhase
	cycle            int64
	nextResolutionAt time.Time
	bets             map[int64]entities.WheelBet
	spin             *wheelSpin
	last             *WheelResult
	stopCh           chan struct{}
	done             chan struct{}

	// settleMu serializes settlements so a boundary is paid at most once
	settleMu sync.Mutex
	// lifecycle keeps Start from racing a Stop that is still draining
	lifecycle sync.Mutex
}

// NewWheelEngine creates a stopped wheel
func NewWheelEngine(ledger *Ledger, rng entities.RandomSource, clock utils.Clock, rules WheelRules) *WheelEngine {
	return &WheelEngine{
		ledger: ledger,
		rng:    rng,
		clock:  clock,
		rules:  rules,
		phase:  entities.WheelPhaseStopped,
		bets:   make(map[int64]entities.WheelBet),

		settleBackoff: settleRetryBackoff,
	}
}

// Start opens betting and launches the owner goroutine. It returns a func that
// stops the wheel; calling Start on a running wheel only returns that func.
func (e *WheelEngine) Start(ctx context.Context) func() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopCh != nil {
		return e.Stop
	}

	e.cycle++
	e.phase = entities.WheelPhaseCountdown
	e.nextResolutionAt = e.clock.Now().Add(e.rules.CountdownPeriod)
	e.stopCh = make(chan struct{})
	e.done = make(chan struct{})

	go e.run(ctx, e.stopCh, e.done)

	log.WithFields(log.Fields{
		"cycle":            e.cycle,
		"nextResolutionAt": e.nextResolutionAt,
	}).Info("Wheel started")

	return e.Stop
}

// Stop halts the wheel and waits for the owner goroutine. A spin in flight is
// settled; bets of an open countdown are refunded.
func (e *WheelEngine) Stop() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.mu.Lock()
	stopCh, done := e.stopCh, e.done
	e.stopCh = nil
	e.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
}

// IsRunning reports whether the owner goroutine is active
func (e *WheelEngine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopCh != nil
}

func (e *WheelEngine) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		e.mu.Lock()
		boundary := e.nextResolutionAt
		e.mu.Unlock()

		select {
		case <-ctx.Done():
			e.halt("context cancelled", stopCh)
			return
		case <-stopCh:
			e.halt("stop requested", stopCh)
			return
		case <-time.After(max(0, boundary.Sub(e.clock.Now()))):
		}

		spin := e.closeBetting(boundary)
		if spin == nil {
			// Boundary was already resolved by a direct ResolveDue call
			continue
		}

		select {
		case <-ctx.Done():
			e.halt("context cancelled", stopCh)
			return
		case <-stopCh:
			e.halt("stop requested", stopCh)
			return
		case <-time.After(max(0, spin.settleAt.Sub(e.clock.Now()))):
		}

		e.settleWithRetry(ctx, spin.boundary)
	}
}

// halt settles an in-flight spin or refunds open bets and leaves the wheel stopped
func (e *WheelEngine) halt(reason string, stopCh <-chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e.mu.Lock()
	spin := e.spin
	e.mu.Unlock()

	if spin != nil {
		e.settleWithRetry(ctx, spin.boundary)
	}

	e.mu.Lock()
	refunds := e.takeBetsLocked()
	e.phase = entities.WheelPhaseStopped
	if e.stopCh != nil && (<-chan struct{})(e.stopCh) == stopCh {
		e.stopCh = nil
	}
	e.mu.Unlock()

	e.refund(ctx, refunds, "wheel_stopped")
	log.WithField("reason", reason).Info("Wheel stopped")
}

// closeBetting swaps out the live bet map for boundary and samples the outcome.
// It returns nil when boundary is not the open cycle.
func (e *WheelEngine) closeBetting(boundary time.Time) *wheelSpin {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.spin != nil && e.spin.boundary.Equal(boundary) {
		return e.spin
	}
	if e.phase != entities.WheelPhaseCountdown || !e.nextResolutionAt.Equal(boundary) {
		return nil
	}

	e.spin = &wheelSpin{
		boundary: boundary,
		settleAt: boundary.Add(e.rules.SpinPeriod),
		cycle:    e.cycle,
		bets:     e.takeBetsLocked(),
		outcome:  e.rules.Outcomes.Sample(e.rng),
	}
	e.phase = entities.WheelPhaseSpinning
	e.nextResolutionAt = e.spin.settleAt

	log.WithFields(log.Fields{
		"cycle":   e.spin.cycle,
		"bets":    len(e.spin.bets),
		"outcome": e.spin.outcome.Name,
	}).Debug("Wheel betting closed")

	return e.spin
}

func (e *WheelEngine) takeBetsLocked() []entities.WheelBet {
	bets := make([]entities.WheelBet, 0, len(e.bets))
	for _, bet := range e.bets {
		bets = append(bets, bet)
	}
	sort.Slice(bets, func(i, j int) bool { return bets[i].AccountID < bets[j].AccountID })
	e.bets = make(map[int64]entities.WheelBet)
	return bets
}

// ResolveDue resolves the cycle whose betting closes at boundary: it snapshots
// the bets if that has not happened yet and settles them. Resolving the same
// boundary again finds no live snapshot and returns nil.
func (e *WheelEngine) ResolveDue(ctx context.Context, boundary time.Time) (*WheelResult, error) {
	if e.closeBetting(boundary) == nil {
		return nil, nil
	}
	return e.settle(ctx, boundary)
}

func (e *WheelEngine) settleWithRetry(ctx context.Context, boundary time.Time) {
	for attempt := 1; ; attempt++ {
		_, err := e.settle(ctx, boundary)
		if err == nil {
			return
		}
		log.WithError(err).WithFields(log.Fields{
			"attempt":  attempt,
			"boundary": boundary,
		}).Error("Wheel settlement failed")

		if attempt == settleAttempts {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(e.settleBackoff):
			continue
		}
		break
	}

	// Give up on the cycle, return the escrow and move on so the schedule does not stall
	e.settleMu.Lock()
	defer e.settleMu.Unlock()

	e.mu.Lock()
	spin := e.spin
	if spin == nil || !spin.boundary.Equal(boundary) {
		e.mu.Unlock()
		return
	}
	e.advanceLocked(spin)
	e.mu.Unlock()

	log.WithFields(log.Fields{
		"cycle": spin.cycle,
		"bets":  len(spin.bets),
	}).Error("Wheel cycle abandoned after failed settlement, refunding bets")

	refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	e.refund(refundCtx, spin.bets, "settlement_failed")
}

// settle pays the snapshot of boundary in one transaction
func (e *WheelEngine) settle(ctx context.Context, boundary time.Time) (*WheelResult, error) {
	e.settleMu.Lock()
	defer e.settleMu.Unlock()

	e.mu.Lock()
	spin := e.spin
	if spin == nil || !spin.boundary.Equal(boundary) {
		e.mu.Unlock()
		return nil, nil
	}
	e.phase = entities.WheelPhaseSettling
	e.mu.Unlock()

	settlement := entities.NewWheelSettlement(spin.cycle, spin.bets, spin.outcome, e.clock.Now())

	winnerIDs := make([]int64, 0, len(settlement.Winners))
	for _, w := range settlement.Winners {
		winnerIDs = append(winnerIDs, w.AccountID)
	}

	err := e.ledger.WithAccounts(ctx, winnerIDs, func(tx *LedgerTx) error {
		for _, w := range settlement.Winners {
			if _, err := tx.Ledger.Credit(ctx, w.AccountID, w.Payout, entities.TransactionTypeWheelPayout, map[string]any{
				"cycle":      spin.cycle,
				"outcome":    spin.outcome.Name,
				"multiplier": spin.outcome.Multiplier,
				"bet":        w.Bet,
			}); err != nil {
				return fmt.Errorf("failed to pay wheel winner %d: %w", w.AccountID, err)
			}
		}

		if err := tx.UnitOfWork.WheelSettlementRepository().Create(ctx, settlement); err != nil {
			return fmt.Errorf("%w: failed to log wheel settlement: %w", entities.ErrPersistenceFailure, err)
		}

		return tx.UnitOfWork.EventBus().Publish(events.WheelSettledEvent{
			SettlementID: settlement.ID.String(),
			Cycle:        settlement.Cycle,
			Outcome:      settlement.Outcome,
			Multiplier:   settlement.Multiplier,
			Winners:      len(settlement.Winners),
			Losers:       len(settlement.Losers),
			TotalStaked:  settlement.TotalStaked,
			TotalPaid:    settlement.TotalPaid,
			SettledAt:    settlement.SettledAt,
			Payouts:      settlement.Winners,
		})
	})
	if err != nil {
		e.mu.Lock()
		if e.spin == spin {
			e.phase = entities.WheelPhaseSpinning
		}
		e.mu.Unlock()
		return nil, err
	}

	result := &WheelResult{Settlement: settlement, Outcome: spin.outcome}

	e.mu.Lock()
	e.last = result
	e.advanceLocked(spin)
	e.mu.Unlock()

	observability.GetMetrics().RecordWheelSettlement(settlement.Outcome, settlement.TotalPaid)
	log.WithFields(log.Fields{
		"cycle":       settlement.Cycle,
		"outcome":     settlement.Outcome,
		"winners":     len(settlement.Winners),
		"losers":      len(settlement.Losers),
		"totalStaked": settlement.TotalStaked,
		"totalPaid":   settlement.TotalPaid,
	}).Info("Wheel cycle settled")

	return result, nil
}

// advanceLocked clears the spin and schedules the next boundary from the
// scheduled settle time, so processing latency never shifts the cadence
func (e *WheelEngine) advanceLocked(spin *wheelSpin) {
	if e.spin != spin {
		return
	}
	e.spin = nil
	e.cycle++
	e.nextResolutionAt = spin.settleAt.Add(e.rules.CountdownPeriod)
	if e.stopCh != nil {
		e.phase = entities.WheelPhaseCountdown
	} else {
		e.phase = entities.WheelPhaseStopped
	}
}

func (e *WheelEngine) refund(ctx context.Context, bets []entities.WheelBet, reason string) {
	if len(bets) == 0 {
		return
	}

	ids := make([]int64, 0, len(bets))
	for _, bet := range bets {
		ids = append(ids, bet.AccountID)
	}

	err := e.ledger.WithAccounts(ctx, ids, func(tx *LedgerTx) error {
		for _, bet := range bets {
			if _, err := tx.Ledger.Credit(ctx, bet.AccountID, bet.Amount, entities.TransactionTypeWheelRefund, map[string]any{
				"outcome": bet.Outcome,
				"reason":  reason,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("bets", bets).Error("Failed to refund wheel bets")
		return
	}
	log.WithFields(log.Fields{
		"bets":   len(bets),
		"reason": reason,
	}).Info("Refunded wheel bets")
}

// PlaceBet escrows a bet for the open cycle. A repeat bet replaces the previous
// one and only the difference moves on the ledger.
func (e *WheelEngine) PlaceBet(ctx context.Context, accountID, amount int64, outcome string) (*WheelBetAck, error) {
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	if _, ok := e.rules.Outcomes.Find(outcome); !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownOutcome, outcome)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if e.phase != entities.WheelPhaseCountdown || e.stopCh == nil {
		closed := &entities.BettingClosedError{Phase: e.phase}
		if e.phase == entities.WheelPhaseSpinning || e.phase == entities.WheelPhaseSettling {
			closed.OpensIn = max(0, e.nextResolutionAt.Sub(now))
		}
		return nil, closed
	}

	old, replacing := e.bets[accountID]
	delta := amount - old.Amount
	metadata := map[string]any{
		"cycle":   e.cycle,
		"outcome": outcome,
		"amount":  amount,
	}

	var balance int64
	var err error
	switch {
	case delta > 0:
		balance, err = e.ledger.Debit(ctx, accountID, delta, entities.TransactionTypeWheelBet, metadata)
		var insufficient *entities.InsufficientFundsError
		if errors.As(err, &insufficient) {
			return nil, &entities.InsufficientFundsError{Balance: insufficient.Balance + old.Amount, Required: amount}
		}
	case delta < 0:
		balance, err = e.ledger.Credit(ctx, accountID, -delta, entities.TransactionTypeWheelRefund, metadata)
	default:
		balance, err = e.ledger.GetBalance(ctx, accountID)
	}
	if err != nil {
		return nil, err
	}

	bet := entities.WheelBet{
		AccountID: accountID,
		Amount:    amount,
		Outcome:   outcome,
		PlacedAt:  now,
	}
	e.bets[accountID] = bet
	observability.GetMetrics().RecordWheelBet(outcome)

	ack := &WheelBetAck{
		Bet:      bet,
		Balance:  balance,
		Cycle:    e.cycle,
		ClosesAt: e.nextResolutionAt,
		ClosesIn: max(0, e.nextResolutionAt.Sub(now)),
	}
	if replacing {
		ack.Replaced = &old
	}
	for _, b := range e.bets {
		ack.PendingPot += b.Amount
	}
	return ack, nil
}

// PendingBet returns the account's bet in the open cycle
func (e *WheelEngine) PendingBet(accountID int64) (entities.WheelBet, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	bet, ok := e.bets[accountID]
	return bet, ok
}

// CurrentPhase returns the wheel phase and timing
func (e *WheelEngine) CurrentPhase() WheelPhaseView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := WheelPhaseView{
		Phase:            e.phase,
		Cycle:            e.cycle,
		NextResolutionAt: e.nextResolutionAt,
		PendingBets:      len(e.bets),
	}
	if e.phase != entities.WheelPhaseStopped {
		view.Remaining = max(0, e.nextResolutionAt.Sub(e.clock.Now()))
	}
	for _, b := range e.bets {
		view.TotalStaked += b.Amount
	}
	if e.spin != nil {
		view.SpinningOutcome = e.spin.outcome.Name
	}
	return view
}

// LastResult returns the most recent settlement or nil
func (e *WheelEngine) LastResult() *WheelResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Outcomes returns the configured outcome space
func (e *WheelEngine) Outcomes() entities.WheelOutcomes {
	return e.rules.Outcomes
}
