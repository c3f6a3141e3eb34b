package entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// WheelPhase is the state of the continuous wheel
type WheelPhase string

const (
	WheelPhaseStopped   WheelPhase = "stopped"
	WheelPhaseCountdown WheelPhase = "countdown"
	WheelPhaseSpinning  WheelPhase = "spinning"
	WheelPhaseSettling  WheelPhase = "settling"
)

// WheelOutcome is a colour on the wheel. Weight is the number of segments it covers.
type WheelOutcome struct {
	Name       string `json:"name"`
	Multiplier int64  `json:"multiplier"`
	Weight     int    `json:"weight"`
}

// WheelOutcomes is the full weighted outcome space
type WheelOutcomes []WheelOutcome

// TotalWeight returns the number of segments on the wheel
func (w WheelOutcomes) TotalWeight() int {
	total := 0
	for _, o := range w {
		total += o.Weight
	}
	return total
}

// Find looks up an outcome by name
func (w WheelOutcomes) Find(name string) (WheelOutcome, bool) {
	for _, o := range w {
		if o.Name == name {
			return o, true
		}
	}
	return WheelOutcome{}, false
}

// Sample picks a segment uniformly, so each outcome wins with Weight/TotalWeight
func (w WheelOutcomes) Sample(rng RandomSource) WheelOutcome {
	segment := rng.Intn(w.TotalWeight())
	for _, o := range w {
		if segment < o.Weight {
			return o
		}
		segment -= o.Weight
	}
	return w[len(w)-1]
}

// WheelBet is one account's escrowed bet for the current cycle
type WheelBet struct {
	AccountID int64     `json:"account_id"`
	Amount    int64     `json:"amount"`
	Outcome   string    `json:"outcome"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Payout returns amount + amount*multiplier for a matching bet, otherwise 0
func (b WheelBet) Payout(result WheelOutcome) int64 {
	if b.Outcome != result.Name {
		return 0
	}
	return b.Amount + b.Amount*result.Multiplier
}

// WheelSettlementEntry is one bet in a settlement log
type WheelSettlementEntry struct {
	AccountID  int64  `json:"user_id"`
	Bet        int64  `json:"bet"`
	BetOutcome string `json:"bet_color"`
	Payout     int64  `json:"payout"`
}

// WheelSettlement is the immutable log of one resolved cycle
type WheelSettlement struct {
	ID          uuid.UUID              `db:"id"`
	Cycle       int64                  `db:"cycle"`
	Outcome     string                 `db:"outcome"`
	Multiplier  int64                  `db:"multiplier"`
	Winners     []WheelSettlementEntry `db:"winners"`
	Losers      []WheelSettlementEntry `db:"losers"`
	TotalStaked int64                  `db:"total_staked"`
	TotalPaid   int64                  `db:"total_paid"`
	LogDay      time.Time              `db:"log_day"`
	SettledAt   time.Time              `db:"settled_at"`
}

// NewWheelSettlement splits a bet snapshot into winners and losers.
// Entries are ordered by account id so payouts lock rows in a stable order.
func NewWheelSettlement(cycle int64, bets []WheelBet, result WheelOutcome, now time.Time) *WheelSettlement {
	s := &WheelSettlement{
		ID:         uuid.New(),
		Cycle:      cycle,
		Outcome:    result.Name,
		Multiplier: result.Multiplier,
		Winners:    []WheelSettlementEntry{},
		Losers:     []WheelSettlementEntry{},
		LogDay:     LogDay(now),
		SettledAt:  now,
	}

	sorted := make([]WheelBet, len(bets))
	copy(sorted, bets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AccountID < sorted[j].AccountID })

	for _, bet := range sorted {
		s.TotalStaked += bet.Amount
		entry := WheelSettlementEntry{
			AccountID:  bet.AccountID,
			Bet:        bet.Amount,
			BetOutcome: bet.Outcome,
			Payout:     bet.Payout(result),
		}
		if entry.Payout > 0 {
			s.Winners = append(s.Winners, entry)
			s.TotalPaid += entry.Payout
		} else {
			s.Losers = append(s.Losers, entry)
		}
	}
	return s
}

// LogDay truncates t to its UTC calendar day
func LogDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
