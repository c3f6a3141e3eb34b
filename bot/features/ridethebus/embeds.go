package ridethebus

import (
	"fmt"
	"strings"

	"herocraft/application"
	"herocraft/bot/common"
	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
)

var roundPrompts = map[int]string{
	1: "Round 1: red or black?",
	2: "Round 2: higher or lower than the last card?",
	3: "Round 3: inside or outside the first two cards?",
	4: "Round 4: call the suit.",
}

// CreateSessionEmbed renders the table after an action
func CreateSessionEmbed(view *application.SessionView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🚌 Ride the Bus",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stake", Value: common.FormatCoins(view.Stake), Inline: true},
			{Name: "Pot", Value: common.FormatCoins(view.Pot), Inline: true},
		},
	}

	if len(view.Cards) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Cards",
			Value: formatCards(view.Cards),
		})
	}

	if view.LastCard != nil {
		verdict := "✅ Correct"
		if !view.Correct {
			verdict = "❌ Wrong"
		}
		embed.Description = fmt.Sprintf("You called **%s** and drew **%s**. %s!", view.LastChoice, view.LastCard, verdict)
	}

	switch view.Status {
	case entities.SessionActive:
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Next pot", Value: common.FormatCoins(view.NextPot), Inline: true},
			&discordgo.MessageEmbedField{Name: "Best odds", Value: entities.ProbabilityMeter(view.WinProbability)},
			&discordgo.MessageEmbedField{Name: roundPrompts[view.Round], Value: fmt.Sprintf("Expires %s", common.FormatDiscordTimestamp(view.ExpiresAt, "R"))},
		)
	case entities.SessionWon:
		embed.Color = common.ColorGold
		embed.Title = "🚌 You rode the bus!"
		embed.Fields = append(embed.Fields, resultField(view))
	case entities.SessionCashedOut:
		embed.Color = common.ColorSuccess
		embed.Title = "🚌 Cashed out"
		embed.Fields = append(embed.Fields, resultField(view))
	case entities.SessionLost:
		embed.Color = common.ColorDanger
		embed.Title = "🚌 Off the bus"
		embed.Fields = append(embed.Fields, resultField(view))
	case entities.SessionTimedOut:
		embed.Color = common.ColorWarning
		embed.Title = "🚌 Timed out"
		embed.Description = "The game expired and the stake was forfeited."
	}

	return embed
}

func resultField(view *application.SessionView) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name: "Result",
		Value: fmt.Sprintf("Paid **%s** (%s). Balance: **%s**",
			common.FormatCoins(view.Payout), common.FormatSigned(view.Payout-view.Stake), common.FormatCoins(view.Balance)),
	}
}

func formatCards(cards []entities.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("`%s`", c)
	}
	return strings.Join(parts, " ")
}
