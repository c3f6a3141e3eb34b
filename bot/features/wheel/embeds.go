package wheel

import (
	"fmt"
	"strings"
	"time"

	"herocraft/application"
	"herocraft/bot/common"
	"herocraft/domain/entities"
	"herocraft/domain/events"

	"github.com/bwmarrin/discordgo"
)

// CreateStatusEmbed shows the phase, the open pot and the last result
func CreateStatusEmbed(phase application.WheelPhaseView, last *application.WheelResult, outcomes entities.WheelOutcomes) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎡 The Wheel",
		Color: common.ColorPrimary,
	}

	switch phase.Phase {
	case entities.WheelPhaseStopped:
		embed.Color = common.ColorWarning
		embed.Description = "The wheel is stopped. An admin can start it with `/wheel start`."
	case entities.WheelPhaseCountdown:
		embed.Description = fmt.Sprintf("Betting is open for cycle **#%d**. The wheel spins %s.",
			phase.Cycle, common.FormatDiscordTimestamp(phase.NextResolutionAt, "R"))
	case entities.WheelPhaseSpinning, entities.WheelPhaseSettling:
		embed.Color = common.ColorInfo
		embed.Description = fmt.Sprintf("Cycle **#%d** is spinning. Results %s.",
			phase.Cycle, common.FormatDiscordTimestamp(phase.NextResolutionAt, "R"))
	}

	if phase.Phase == entities.WheelPhaseCountdown {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Open bets",
			Value:  fmt.Sprintf("%d bets, %s", phase.PendingBets, common.FormatCoins(phase.TotalStaked)),
			Inline: true,
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Payouts",
		Value: formatOutcomes(outcomes),
	})

	if last != nil && last.Settlement != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Last result",
			Value: fmt.Sprintf("%s **%s** on cycle #%d: %d winners, %s paid",
				common.OutcomeEmoji(last.Settlement.Outcome), capitalize(last.Settlement.Outcome),
				last.Settlement.Cycle, len(last.Settlement.Winners), common.FormatCoins(last.Settlement.TotalPaid)),
		})
	}

	return embed
}

// CreateBetAckEmbed confirms a placed or replaced bet
func CreateBetAckEmbed(ack *application.WheelBetAck) *discordgo.MessageEmbed {
	description := fmt.Sprintf("%s **%s** on **%s** for cycle #%d.",
		common.OutcomeEmoji(ack.Bet.Outcome), common.FormatCoins(ack.Bet.Amount), capitalize(ack.Bet.Outcome), ack.Cycle)
	if ack.Replaced != nil {
		description = fmt.Sprintf("Replaced your %s bet on %s with %s",
			common.FormatCoins(ack.Replaced.Amount), capitalize(ack.Replaced.Outcome), description)
	}

	return &discordgo.MessageEmbed{
		Title:       "🎡 Bet placed",
		Description: description,
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Spins", Value: common.FormatDiscordTimestamp(ack.ClosesAt, "R"), Inline: true},
			{Name: "Pot", Value: common.FormatCoins(ack.PendingPot), Inline: true},
			{Name: "Balance", Value: common.FormatCoins(ack.Balance), Inline: true},
		},
	}
}

// CreateSettlementEmbed announces a resolved cycle
func CreateSettlementEmbed(e events.WheelSettledEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎡 %s %s wins!", common.OutcomeEmoji(e.Outcome), capitalize(e.Outcome)),
		Description: fmt.Sprintf("Cycle #%d paid %s on %s staked.",
			e.Cycle, common.FormatCoins(e.TotalPaid), common.FormatCoins(e.TotalStaked)),
		Color:     common.ColorGold,
		Timestamp: e.SettledAt.Format(time.RFC3339),
	}

	winners := "Nobody picked it."
	if len(e.Payouts) > 0 {
		var b strings.Builder
		for _, w := range e.Payouts {
			fmt.Fprintf(&b, "%s won **%s**\n", common.GetUserMention(w.AccountID), common.FormatCoins(w.Payout))
		}
		winners = b.String()
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Winners", Value: winners},
		&discordgo.MessageEmbedField{Name: "Losing bets", Value: fmt.Sprintf("%d", e.Losers), Inline: true},
	)

	return embed
}

func formatOutcomes(outcomes entities.WheelOutcomes) string {
	total := outcomes.TotalWeight()
	var b strings.Builder
	for _, o := range outcomes {
		fmt.Fprintf(&b, "%s %s pays **%dx** (%d/%d)\n", common.OutcomeEmoji(o.Name), capitalize(o.Name), o.Multiplier+1, o.Weight, total)
	}
	return b.String()
}
