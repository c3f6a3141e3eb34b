package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var defaultWheel = WheelOutcomes{
	{Name: "yellow", Multiplier: 1, Weight: 12},
	{Name: "green", Multiplier: 3, Weight: 6},
	{Name: "blue", Multiplier: 5, Weight: 4},
	{Name: "pink", Multiplier: 10, Weight: 2},
	{Name: "red", Multiplier: 20, Weight: 1},
}

func TestWheelOutcomes_SampleCoversSegments(t *testing.T) {
	t.Parallel()

	counts := map[string]int{}
	for segment := 0; segment < defaultWheel.TotalWeight(); segment++ {
		rng := &scriptedRandom{values: []int{segment}}
		counts[defaultWheel.Sample(rng).Name]++
	}

	assert.Equal(t, 25, defaultWheel.TotalWeight())
	assert.Equal(t, map[string]int{"yellow": 12, "green": 6, "blue": 4, "pink": 2, "red": 1}, counts)
}

func TestWheelBet_BlueScenario(t *testing.T) {
	t.Parallel()

	blue, ok := defaultWheel.Find("blue")
	require.True(t, ok)

	bet := WheelBet{AccountID: 7, Amount: 50, Outcome: "blue"}
	assert.Equal(t, int64(300), bet.Payout(blue))

	other := WheelBet{AccountID: 8, Amount: 50, Outcome: "red"}
	assert.Equal(t, int64(0), other.Payout(blue))
}

func TestNewWheelSettlement_Conservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "bets")
		bets := make([]WheelBet, n)
		for i := range bets {
			bets[i] = WheelBet{
				AccountID: int64(i + 1),
				Amount:    rapid.Int64Range(1, 1000).Draw(rt, "amount"),
				Outcome:   defaultWheel[rapid.IntRange(0, len(defaultWheel)-1).Draw(rt, "choice")].Name,
			}
		}
		result := defaultWheel[rapid.IntRange(0, len(defaultWheel)-1).Draw(rt, "result")]

		s := NewWheelSettlement(1, bets, result, t0)

		var expected, staked int64
		for _, w := range s.Winners {
			expected += w.Bet + w.Bet*result.Multiplier
			if w.BetOutcome != result.Name {
				rt.Fatalf("winner %d bet on %s", w.AccountID, w.BetOutcome)
			}
		}
		for _, l := range s.Losers {
			if l.Payout != 0 {
				rt.Fatalf("loser %d refunded %d", l.AccountID, l.Payout)
			}
		}
		for _, b := range bets {
			staked += b.Amount
		}
		if s.TotalPaid != expected {
			rt.Fatalf("paid %d, expected %d", s.TotalPaid, expected)
		}
		if s.TotalStaked != staked {
			rt.Fatalf("staked %d, expected %d", s.TotalStaked, staked)
		}
		if len(s.Winners)+len(s.Losers) != n {
			rt.Fatalf("lost bets: %d + %d != %d", len(s.Winners), len(s.Losers), n)
		}
	})
}

func TestNewWheelSettlement_OrdersByAccount(t *testing.T) {
	t.Parallel()

	bets := []WheelBet{
		{AccountID: 30, Amount: 5, Outcome: "yellow"},
		{AccountID: 10, Amount: 5, Outcome: "yellow"},
		{AccountID: 20, Amount: 5, Outcome: "red"},
	}
	yellow, _ := defaultWheel.Find("yellow")
	s := NewWheelSettlement(3, bets, yellow, t0)

	require.Len(t, s.Winners, 2)
	assert.Equal(t, int64(10), s.Winners[0].AccountID)
	assert.Equal(t, int64(30), s.Winners[1].AccountID)
	assert.Equal(t, int64(10), s.Winners[0].Payout)
	assert.Equal(t, LogDay(t0), s.LogDay)
}
