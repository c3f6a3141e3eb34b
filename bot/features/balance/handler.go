package balance

import (
	"context"
	"fmt"
	"strings"

	"herocraft/bot/common"
	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	targetID := common.InteractionUserID(i)
	self := true
	if opt, ok := common.OptionMap(i.ApplicationCommandData().Options)["user"]; ok {
		if user := opt.UserValue(s); user != nil {
			self = user.ID == targetID
			targetID = user.ID
		}
	}

	accountID, err := common.ParseUserID(targetID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	balance, err := f.ledger.GetBalance(ctx, accountID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to read balance"), false)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, targetID)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", common.CoinEmoji, displayName),
		Description: fmt.Sprintf("Balance: **%s**", common.FormatCoins(balance)),
		Color:       common.ColorPrimary,
	}

	// Only the owner sees their own transaction history
	if self {
		history, err := f.ledger.History(ctx, accountID, common.HistorySize)
		if err != nil {
			log.WithError(err).WithField("accountID", accountID).Warn("Failed to load balance history")
		} else if len(history) > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Recent activity",
				Value: formatHistory(history),
			})
		}
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	top, err := f.ledger.Leaderboard(ctx, common.LeaderboardSize)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to read leaderboard"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Richest members",
		Description: formatLeaderboard(top),
		Color:       common.ColorGold,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

func formatHistory(history []*entities.BalanceHistory) string {
	var b strings.Builder
	for _, h := range history {
		fmt.Fprintf(&b, "%s `%s` %s\n",
			common.FormatDiscordTimestamp(h.CreatedAt, "R"),
			common.FormatSigned(h.ChangeAmount),
			h.GetTransactionDescription())
	}
	return b.String()
}

func formatLeaderboard(accounts []*entities.Account) string {
	if len(accounts) == 0 {
		return "Nobody has any coins yet."
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var b strings.Builder
	for idx, a := range accounts {
		rank := fmt.Sprintf("`#%d`", idx+1)
		if idx < len(medals) {
			rank = medals[idx]
		}
		fmt.Fprintf(&b, "%s %s **%s**\n", rank, common.GetUserMention(a.AccountID), common.FormatCoins(a.Balance))
	}
	return b.String()
}
