package entities

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		matches int
		bonus   bool
		want    LotteryTier
	}{
		{5, true, TierJackpot},
		{5, false, Tier5},
		{4, true, Tier4PB},
		{4, false, Tier4},
		{3, true, Tier3PB},
		{3, false, Tier3},
		{2, true, Tier2PB},
		{2, false, TierNone},
		{1, true, Tier1PB},
		{1, false, TierNone},
		{0, true, TierNone},
		{0, false, TierNone},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_matches_bonus_%t", tt.matches, tt.bonus), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TierFor(tt.matches, tt.bonus))
		})
	}
}

func TestTierOrder_DescendingShares(t *testing.T) {
	t.Parallel()

	require.Len(t, TierOrder, len(TierShares))
	assert.True(t, TierShares[TierJackpot].Equal(TierShares[TierOrder[0]]))
	for i := 1; i < len(TierOrder); i++ {
		assert.True(t, TierShares[TierOrder[i-1]].GreaterThan(TierShares[TierOrder[i]]),
			"%s should pay more than %s", TierOrder[i-1], TierOrder[i])
	}
}

func TestValidateTicketNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		numbers []int
		bonus   int
		want    []int
		wantErr bool
	}{
		{"valid and sorted", []int{70, 1, 33, 2, 9}, 25, []int{1, 2, 9, 33, 70}, false},
		{"too few", []int{1, 2, 3, 4}, 5, nil, true},
		{"too many", []int{1, 2, 3, 4, 5, 6}, 5, nil, true},
		{"duplicate", []int{1, 2, 3, 4, 4}, 5, nil, true},
		{"zero", []int{0, 2, 3, 4, 5}, 5, nil, true},
		{"above range", []int{71, 2, 3, 4, 5}, 5, nil, true},
		{"bonus zero", []int{1, 2, 3, 4, 5}, 0, nil, true},
		{"bonus above range", []int{1, 2, 3, 4, 5}, 26, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateTicketNumbers(tt.numbers, tt.bonus)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTicketNumbers)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTicketNumbers(t *testing.T) {
	t.Parallel()

	got, err := ParseTicketNumbers("1, 2 3,4  5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)

	_, err = ParseTicketNumbers("1 two 3")
	assert.ErrorIs(t, err, ErrInvalidTicketNumbers)
}

func TestDrawLotteryNumbers_DistinctAndInRange(t *testing.T) {
	t.Parallel()

	rng := &scriptedRandom{values: []int{69, 69, 69, 69, 69, 24}}
	numbers, bonus := DrawLotteryNumbers(rng)

	_, err := ValidateTicketNumbers(numbers, bonus)
	require.NoError(t, err)
	assert.Equal(t, 25, bonus)
}

func TestResolveLotteryDrawing_FourPlusBonusScenario(t *testing.T) {
	t.Parallel()

	ticket := &LotteryTicket{ID: 1, AccountID: 42, Numbers: []int{1, 2, 3, 4, 5}, Bonus: 7, Price: 100}
	d := ResolveLotteryDrawing(200, []*LotteryTicket{ticket}, []int{1, 2, 3, 4, 6}, 7, t0)

	require.Len(t, d.Winners, 1)
	assert.Equal(t, Tier4PB, d.Winners[0].Tier)
	assert.Equal(t, int64(80), d.Winners[0].Payout)
	assert.Equal(t, int64(80), d.TotalPaid)
	assert.Equal(t, int64(120), d.PotAfter)
	assert.Empty(t, d.NonWinners)
}

func TestResolveLotteryDrawing_SplitsTierAndRollsRemainder(t *testing.T) {
	t.Parallel()

	tickets := []*LotteryTicket{
		{ID: 1, AccountID: 1, Numbers: []int{1, 2, 3, 10, 11}, Bonus: 9},
		{ID: 2, AccountID: 2, Numbers: []int{1, 2, 3, 20, 21}, Bonus: 9},
		{ID: 3, AccountID: 3, Numbers: []int{1, 2, 3, 30, 31}, Bonus: 9},
		{ID: 4, AccountID: 4, Numbers: []int{40, 41, 42, 43, 44}, Bonus: 1},
	}
	// 3_PB allocation floor(1001*0.25)=250, split three ways is 83 each
	d := ResolveLotteryDrawing(1001, tickets, []int{1, 2, 3, 4, 5}, 9, t0)

	require.Len(t, d.Winners, 3)
	for _, w := range d.Winners {
		assert.Equal(t, Tier3PB, w.Tier)
		assert.Equal(t, int64(83), w.Payout)
	}
	assert.Equal(t, int64(249), d.TotalPaid)
	assert.Equal(t, int64(752), d.PotAfter)
	require.Len(t, d.NonWinners, 1)
	assert.Equal(t, int64(4), d.NonWinners[0].AccountID)
}

func TestResolveLotteryDrawing_TotalNeverExceedsPot(t *testing.T) {
	t.Parallel()

	tickets := []*LotteryTicket{
		{ID: 1, AccountID: 1, Numbers: []int{1, 2, 3, 4, 5}, Bonus: 9},
		{ID: 2, AccountID: 2, Numbers: []int{1, 2, 3, 4, 5}, Bonus: 8},
	}
	d := ResolveLotteryDrawing(500, tickets, []int{1, 2, 3, 4, 5}, 9, t0)

	assert.Equal(t, int64(500), d.TotalPaid)
	assert.Equal(t, int64(0), d.PotAfter)
	require.Len(t, d.Winners, 2)
	assert.Equal(t, TierJackpot, d.Winners[0].Tier)
	assert.Equal(t, int64(500), d.Winners[0].Payout)
	assert.Equal(t, int64(0), d.Winners[1].Payout)
}

func TestResolveLotteryDrawing_NoTickets(t *testing.T) {
	t.Parallel()

	d := ResolveLotteryDrawing(700, nil, []int{1, 2, 3, 4, 5}, 9, t0)
	assert.False(t, d.HasWinners())
	assert.Equal(t, int64(700), d.PotAfter)
}

func TestNextDailyOccurrence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "earlier today",
			now:  time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			want: time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at drawing time rolls to tomorrow",
			now:  time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
			want: time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "later today",
			now:  time.Date(2024, 5, 1, 20, 0, 1, 0, time.UTC),
			want: time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "month boundary",
			now:  time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
			want: time.Date(2024, 2, 1, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "non-UTC input is normalised",
			now:  time.Date(2024, 5, 1, 23, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
			want: time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NextDailyOccurrence(tt.now, 20, 0)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.True(t, got.After(tt.now))
		})
	}
}
