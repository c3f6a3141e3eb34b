package entities

import (
	"fmt"
	"strings"
	"time"
)

// Choice is a player's call for the upcoming round
type Choice string

const (
	ChoiceRed      Choice = "red"
	ChoiceBlack    Choice = "black"
	ChoiceHigher   Choice = "higher"
	ChoiceLower    Choice = "lower"
	ChoiceInside   Choice = "inside"
	ChoiceOutside  Choice = "outside"
	ChoiceHearts   Choice = "hearts"
	ChoiceDiamonds Choice = "diamonds"
	ChoiceClubs    Choice = "clubs"
	ChoiceSpades   Choice = "spades"
)

// FinalRound is the suit round; winning it ends the session
const FinalRound = 4

// RoundMultipliers maps a cleared round to the pot multiple of the stake
var RoundMultipliers = map[int]int64{1: 2, 2: 3, 3: 5, 4: 10}

// ChoicesForRound lists the calls accepted in a round
func ChoicesForRound(round int) []Choice {
	switch round {
	case 1:
		return []Choice{ChoiceRed, ChoiceBlack}
	case 2:
		return []Choice{ChoiceHigher, ChoiceLower}
	case 3:
		return []Choice{ChoiceInside, ChoiceOutside}
	case 4:
		return []Choice{ChoiceHearts, ChoiceDiamonds, ChoiceClubs, ChoiceSpades}
	default:
		return nil
	}
}

// ValidForRound reports whether the call applies to the round
func (c Choice) ValidForRound(round int) bool {
	for _, allowed := range ChoicesForRound(round) {
		if c == allowed {
			return true
		}
	}
	return false
}

// SessionStatus is the lifecycle state of a wager session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionWon       SessionStatus = "won"
	SessionLost      SessionStatus = "lost"
	SessionCashedOut SessionStatus = "cashed_out"
	SessionTimedOut  SessionStatus = "timed_out"
)

// WagerSession is one account's ride the bus game.
// Round is the round about to be played.
type WagerSession struct {
	AccountID    int64
	Stake        int64
	Round        int
	Cards        []Card
	Pot          int64
	CashedOut    bool
	LastChoice   Choice
	Status       SessionStatus
	StartedAt    time.Time
	LastActionAt time.Time
}

// NewWagerSession starts a session whose pot equals the escrowed stake
func NewWagerSession(accountID, stake int64, now time.Time) *WagerSession {
	return &WagerSession{
		AccountID:    accountID,
		Stake:        stake,
		Round:        1,
		Pot:          stake,
		Status:       SessionActive,
		StartedAt:    now,
		LastActionAt: now,
	}
}

// IsTerminal returns true once the session can no longer change
func (s *WagerSession) IsTerminal() bool {
	return s.Status != SessionActive
}

// Play resolves the current round against the drawn card.
// A correct call sets Pot to Stake times the round multiplier and advances,
// or wins the session on the final round. A wrong call loses the stake.
func (s *WagerSession) Play(choice Choice, card Card, now time.Time) (bool, error) {
	if s.IsTerminal() {
		return false, ErrNoActiveSession
	}
	if !choice.ValidForRound(s.Round) {
		return false, fmt.Errorf("%w: %q in round %d", ErrInvalidChoice, choice, s.Round)
	}

	correct := s.evaluate(choice, card)
	s.Cards = append(s.Cards, card)
	s.LastChoice = choice
	s.LastActionAt = now

	if !correct {
		s.Status = SessionLost
		s.Pot = 0
		return false, nil
	}

	s.Pot = s.Stake * RoundMultipliers[s.Round]
	if s.Round == FinalRound {
		s.Status = SessionWon
		return true, nil
	}
	s.Round++
	return true, nil
}

// CashOut ends the session and returns the pot reached so far
func (s *WagerSession) CashOut(now time.Time) (int64, error) {
	if s.IsTerminal() {
		return 0, ErrNoActiveSession
	}
	s.Status = SessionCashedOut
	s.CashedOut = true
	s.LastActionAt = now
	return s.Pot, nil
}

// Forfeit ends an idle session. The stake is kept by the house.
func (s *WagerSession) Forfeit() {
	if s.IsTerminal() {
		return
	}
	s.Status = SessionTimedOut
	s.Pot = 0
}

// Payout is what the account receives when the session ends
func (s *WagerSession) Payout() int64 {
	switch s.Status {
	case SessionWon, SessionCashedOut:
		return s.Pot
	default:
		return 0
	}
}

func (s *WagerSession) evaluate(choice Choice, card Card) bool {
	switch s.Round {
	case 1:
		return card.IsRed() == (choice == ChoiceRed)
	case 2:
		prev := s.Cards[len(s.Cards)-1]
		switch {
		case card.Rank > prev.Rank:
			return choice == ChoiceHigher
		case card.Rank < prev.Rank:
			return choice == ChoiceLower
		case choice == ChoiceHigher:
			return card.Suit > prev.Suit
		default:
			return card.Suit < prev.Suit
		}
	case 3:
		low, high := s.bounds()
		// A card landing on either bound is neither inside nor outside
		switch choice {
		case ChoiceInside:
			return card.Rank > low && card.Rank < high
		default:
			return card.Rank < low || card.Rank > high
		}
	case 4:
		return string(choice) == card.Suit.String()
	}
	return false
}

func (s *WagerSession) bounds() (Rank, Rank) {
	a, b := s.Cards[0].Rank, s.Cards[1].Rank
	if a > b {
		return b, a
	}
	return a, b
}

// WinProbability is the chance of the best call in the upcoming round
func (s *WagerSession) WinProbability() float64 {
	if s.IsTerminal() {
		return 0
	}
	switch s.Round {
	case 1:
		return 0.5
	case 2:
		idx := int(s.Cards[len(s.Cards)-1].Rank - RankTwo)
		higher := rankCount - 1 - idx
		lower := idx
		return min(1.0, float64(max(higher, lower))/float64(rankCount-1))
	case 3:
		low, high := s.bounds()
		lo, hi := int(low-RankTwo), int(high-RankTwo)
		inside := max(hi-lo-1, 0)
		outside := lo + (rankCount - 1 - hi)
		return min(1.0, float64(max(inside, outside))/float64(rankCount-2))
	case 4:
		return 0.25
	}
	return 0
}

// ProbabilityMeter renders p as a ten segment bar with a percentage
func ProbabilityMeter(p float64) string {
	filled := int(p * 10)
	filled = max(0, min(10, filled))
	return fmt.Sprintf("%s%s %.0f%%", strings.Repeat("▰", filled), strings.Repeat("▱", 10-filled), p*100)
}

// NextPot is the pot a correct call in the current round would reach
func (s *WagerSession) NextPot() int64 {
	if s.IsTerminal() {
		return 0
	}
	return s.Stake * RoundMultipliers[s.Round]
}
