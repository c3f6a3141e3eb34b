package ridethebus

import (
	"testing"
	"time"

	"herocraft/application"
	"herocraft/bot/common"
	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonIDs(t *testing.T, components []discordgo.MessageComponent) []string {
	t.Helper()
	var ids []string
	for _, c := range components {
		row, ok := c.(discordgo.ActionsRow)
		require.True(t, ok)
		for _, inner := range row.Components {
			ids = append(ids, inner.(discordgo.Button).CustomID)
		}
	}
	return ids
}

func TestParseCustomID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		customID string
		ok       bool
		action   string
		owner    string
		choice   entities.Choice
	}{
		{"rtb_choice_42_red", true, "choice", "42", entities.ChoiceRed},
		{"rtb_cashout_42", true, "cashout", "42", ""},
		{"rtb_again_42", true, "again", "42", ""},
		{"rtb_choice_42", false, "", "", ""},
		{"rtb_cashout_42_extra", false, "", "", ""},
		{"rtb_fold_42", false, "", "", ""},
		{"rtb_cashout_", false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.customID, func(t *testing.T) {
			t.Parallel()
			a, ok := parseCustomID(tt.customID)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.action, a.action)
			assert.Equal(t, tt.owner, a.owner)
			assert.Equal(t, tt.choice, a.choice)
		})
	}
}

func TestCreateSessionComponents(t *testing.T) {
	t.Parallel()

	t.Run("active round offers its calls and cash out", func(t *testing.T) {
		t.Parallel()
		view := &application.SessionView{AccountID: 7, Stake: 20, Round: 2, Pot: 40, Status: entities.SessionActive}

		ids := buttonIDs(t, CreateSessionComponents(view))
		assert.Equal(t, []string{"rtb_choice_7_higher", "rtb_choice_7_lower", "rtb_cashout_7"}, ids)
		for _, id := range ids {
			_, ok := parseCustomID(id)
			assert.True(t, ok, id)
		}
	})

	t.Run("suit round has four calls", func(t *testing.T) {
		t.Parallel()
		view := &application.SessionView{AccountID: 7, Round: 4, Status: entities.SessionActive}
		assert.Len(t, buttonIDs(t, CreateSessionComponents(view)), 5)
	})

	t.Run("finished game offers play again", func(t *testing.T) {
		t.Parallel()
		view := &application.SessionView{AccountID: 7, Stake: 20, Round: 2, Status: entities.SessionLost}
		assert.Equal(t, []string{"rtb_again_7"}, buttonIDs(t, CreateSessionComponents(view)))
	})
}

func TestCreateSessionEmbed(t *testing.T) {
	t.Parallel()

	queen := entities.Card{Rank: 12, Suit: entities.SuitSpades}
	lost := &application.SessionView{
		AccountID:  7,
		Stake:      20,
		Round:      2,
		Cards:      []entities.Card{{Rank: 7, Suit: entities.SuitHearts}, queen},
		LastCard:   &queen,
		LastChoice: entities.ChoiceLower,
		Status:     entities.SessionLost,
		Balance:    980,
	}
	embed := CreateSessionEmbed(lost)
	assert.Equal(t, common.ColorDanger, embed.Color)
	assert.Contains(t, embed.Description, "Wrong")
	assert.Contains(t, embed.Fields[len(embed.Fields)-1].Value, "-20")

	active := &application.SessionView{
		AccountID:      7,
		Stake:          20,
		Round:          1,
		Pot:            20,
		NextPot:        40,
		Status:         entities.SessionActive,
		WinProbability: 0.5,
		ExpiresAt:      time.Date(2024, 5, 1, 19, 2, 0, 0, time.UTC),
	}
	embed = CreateSessionEmbed(active)
	last := embed.Fields[len(embed.Fields)-1]
	assert.Equal(t, roundPrompts[1], last.Name)
	assert.Contains(t, last.Value, "<t:")
}
