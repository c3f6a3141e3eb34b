package lottery

import (
	"fmt"
	"strings"
	"time"

	"herocraft/bot/common"
	"herocraft/domain/entities"
	"herocraft/domain/events"
	"herocraft/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// CreateStatusEmbed creates the lottery overview
func CreateStatusEmbed(status *interfaces.LotteryStatus) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎰 Daily Lottery",
		Description: fmt.Sprintf("Pick %d numbers from 1-%d and a bonus from 1-%d.", entities.LotteryNumberCount, entities.LotteryMaxNumber, entities.LotteryMaxBonus),
		Color:       common.ColorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Pot", Value: common.FormatCoins(status.Pot), Inline: true},
			{Name: "Ticket price", Value: common.FormatCoins(status.TicketPrice), Inline: true},
			{Name: "Entries", Value: fmt.Sprintf("%d tickets from %d members", status.Tickets, status.Participants), Inline: true},
		},
	}

	next := "Not scheduled"
	if status.NextDrawingAt != nil {
		next = fmt.Sprintf("%s (%s)",
			common.FormatDiscordTimestamp(*status.NextDrawingAt, "F"),
			common.FormatDiscordTimestamp(*status.NextDrawingAt, "R"))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Next drawing", Value: next})

	if status.LastDrawing != nil {
		d := status.LastDrawing
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Last drawing",
			Value: fmt.Sprintf("`%s` on %s, %d winners shared %s",
				entities.FormatLotteryNumbers(d.WinningNumbers, d.WinningBonus),
				common.FormatDiscordTimestamp(d.DrawnAt, "d"),
				len(d.Winners), common.FormatCoins(d.TotalPaid)),
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Prize shares",
		Value: formatTierTable(),
	})

	return embed
}

// CreatePurchaseEmbed confirms a bought ticket
func CreatePurchaseEmbed(result *interfaces.LotteryPurchaseResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎟️ Ticket purchased",
		Description: fmt.Sprintf("`%s`", result.Ticket.Format()),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tickets held", Value: fmt.Sprintf("%d/%d", result.Held, result.Max), Inline: true},
			{Name: "Pot", Value: common.FormatCoins(result.Pot), Inline: true},
			{Name: "Balance", Value: common.FormatCoins(result.NewBalance), Inline: true},
		},
	}
}

// CreateTicketsEmbed lists a member's tickets with the positions used by discard
func CreateTicketsEmbed(tickets []*entities.LotteryTicket) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎟️ Your tickets",
		Color: common.ColorInfo,
	}
	if len(tickets) == 0 {
		embed.Description = "You hold no tickets for the next drawing."
		return embed
	}

	var b strings.Builder
	for idx, t := range tickets {
		fmt.Fprintf(&b, "`%d.` `%s`\n", idx+1, t.Format())
	}
	embed.Description = b.String()
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Discarded tickets are not refunded."}
	return embed
}

// CreateDrawingEmbed announces the drawn numbers and the winners
func CreateDrawingEmbed(e events.LotteryDrawnEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎰 Lottery drawing",
		Description: fmt.Sprintf("Winning numbers: **`%s`**", entities.FormatLotteryNumbers(e.WinningNumbers, e.WinningBonus)),
		Color:       common.ColorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Pot", Value: common.FormatCoins(e.PotBefore), Inline: true},
			{Name: "Paid", Value: common.FormatCoins(e.TotalPaid), Inline: true},
			{Name: "Rolls over", Value: common.FormatCoins(e.PotAfter), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d tickets entered. Next drawing %s UTC", e.Tickets, e.NextDrawingAt.UTC().Format(time.DateTime)),
		},
	}

	winners := "No winning tickets. The pot rolls over."
	if len(e.Payouts) > 0 {
		var b strings.Builder
		for _, w := range e.Payouts {
			fmt.Fprintf(&b, "%s `%s` %s won **%s**\n",
				common.GetUserMention(w.AccountID), entities.FormatLotteryNumbers(w.Numbers, w.Bonus), tierLabel(w.Tier), common.FormatCoins(w.Payout))
		}
		winners = b.String()
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Winners", Value: winners})

	return embed
}

func tierLabel(tier entities.LotteryTier) string {
	switch tier {
	case entities.TierJackpot:
		return "JACKPOT"
	case entities.TierNone:
		return "-"
	default:
		return strings.ReplaceAll(string(tier), "_PB", "+bonus")
	}
}

func formatTierTable() string {
	var b strings.Builder
	for _, tier := range entities.TierOrder {
		fmt.Fprintf(&b, "%s: %s%%  ", tierLabel(tier), entities.TierShares[tier].Shift(2).String())
	}
	return strings.TrimSpace(b.String())
}
