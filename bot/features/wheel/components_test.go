package wheel

import (
	"testing"
	"time"

	"herocraft/application"
	"herocraft/domain/entities"
	"herocraft/domain/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOutcomes = entities.WheelOutcomes{
	{Name: "yellow", Multiplier: 1, Weight: 12},
	{Name: "green", Multiplier: 3, Weight: 6},
	{Name: "blue", Multiplier: 5, Weight: 4},
	{Name: "pink", Multiplier: 10, Weight: 2},
	{Name: "red", Multiplier: 20, Weight: 1},
}

func TestParseBetCustomID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		customID string
		outcome  string
		amount   int64
		ok       bool
	}{
		{"wheel_bet_blue_50", "blue", 50, true},
		{"wheel_bet_deep_purple_1000", "deep_purple", 1000, true},
		{"wheel_bet_blue_0", "", 0, false},
		{"wheel_bet_blue_lots", "", 0, false},
		{"wheel_bet__25", "", 0, false},
		{"wheel_pick", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.customID, func(t *testing.T) {
			t.Parallel()
			outcome, amount, ok := parseBetCustomID(tt.customID)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.amount, amount)
		})
	}
}

func TestCreatePresetComponents(t *testing.T) {
	t.Parallel()

	rows := CreatePresetComponents("blue", []int64{5, 25, 100, 500, 1000, 5000})
	require.Len(t, rows, 2)

	first := rows[0].(discordgo.ActionsRow)
	require.Len(t, first.Components, 5)
	button := first.Components[3].(discordgo.Button)
	assert.Equal(t, "wheel_bet_blue_500", button.CustomID)

	outcome, amount, ok := parseBetCustomID(rows[1].(discordgo.ActionsRow).Components[0].(discordgo.Button).CustomID)
	require.True(t, ok)
	assert.Equal(t, "blue", outcome)
	assert.Equal(t, int64(5000), amount)
}

func TestCreateWheelComponents(t *testing.T) {
	t.Parallel()

	open := CreateWheelComponents(testOutcomes, true)
	menu := open[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.False(t, menu.Disabled)
	require.Len(t, menu.Options, 5)
	assert.Equal(t, "Blue (pays 6x)", menu.Options[2].Label)
	assert.Equal(t, "4 of 25 segments", menu.Options[2].Description)

	closed := CreateWheelComponents(testOutcomes, false)
	assert.True(t, closed[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu).Disabled)
}

func TestCreateStatusEmbed(t *testing.T) {
	t.Parallel()

	phase := application.WheelPhaseView{
		Phase:            entities.WheelPhaseCountdown,
		Cycle:            3,
		NextResolutionAt: time.Date(2024, 5, 1, 19, 0, 30, 0, time.UTC),
		PendingBets:      2,
		TotalStaked:      70,
	}
	embed := CreateStatusEmbed(phase, nil, testOutcomes)
	assert.Contains(t, embed.Description, "cycle **#3**")
	assert.Equal(t, "2 bets, 70 coins", embed.Fields[0].Value)

	stopped := CreateStatusEmbed(application.WheelPhaseView{Phase: entities.WheelPhaseStopped}, nil, testOutcomes)
	assert.Contains(t, stopped.Description, "stopped")
	assert.Equal(t, "Payouts", stopped.Fields[0].Name)
}

func TestCreateSettlementEmbed(t *testing.T) {
	t.Parallel()

	embed := CreateSettlementEmbed(events.WheelSettledEvent{
		Cycle:       4,
		Outcome:     "blue",
		Multiplier:  5,
		Winners:     1,
		Losers:      1,
		TotalStaked: 70,
		TotalPaid:   300,
		SettledAt:   time.Date(2024, 5, 1, 19, 0, 40, 0, time.UTC),
		Payouts:     []entities.WheelSettlementEntry{{AccountID: 1, Bet: 50, BetOutcome: "blue", Payout: 300}},
	})

	assert.Equal(t, "🎡 🟦 Blue wins!", embed.Title)
	assert.Contains(t, embed.Description, "paid 300 coins on 70 coins staked")
	assert.Equal(t, "<@1> won **300 coins**\n", embed.Fields[0].Value)
	assert.Equal(t, "2024-05-01T19:00:40Z", embed.Timestamp)
}
