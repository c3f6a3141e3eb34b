package rewards

import (
	"context"
	"fmt"
	"strings"

	"herocraft/bot/common"
	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCooldown(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	remaining, err := f.rewards.CooldownRemaining(context.Background(), accountID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to read reward cooldown"), false)
		return
	}

	message := "✅ Your next message earns coins."
	if remaining > 0 {
		message = fmt.Sprintf("⏳ Your next message reward is available in **%s**.", common.FormatCountdown(remaining))
	}
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Error responding to cooldown command: %v", err)
	}
}

func (f *Feature) handleVoiceTime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if len(f.channels) == 0 {
		common.RespondWithError(s, i, "No voice channels pay rewards on this server.")
		return
	}

	usage, err := f.rewards.VoiceUsage(context.Background(), accountID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to read voice usage"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎙️ Voice rewards today",
		Description: formatVoiceUsage(f.channels, usage),
		Color:       common.ColorInfo,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to voicetime command: %v", err)
	}
}

// formatVoiceUsage lists every rewarded channel with today's minutes against its cap
func formatVoiceUsage(channels []entities.VoiceChannelReward, usage []*entities.VoiceRewardUsage) string {
	byChannel := make(map[int64]*entities.VoiceRewardUsage, len(usage))
	for _, u := range usage {
		byChannel[u.ChannelID] = u
	}

	var b strings.Builder
	for _, rule := range channels {
		u, ok := byChannel[rule.ChannelID]
		if !ok {
			u = &entities.VoiceRewardUsage{ChannelID: rule.ChannelID}
		}
		fmt.Fprintf(&b, "<#%d> %d/%d min, earned %s (%d min left)\n",
			rule.ChannelID, u.Minutes, rule.MaxDailyMinutes, common.FormatCoins(u.Coins), u.RemainingMinutes(rule))
	}
	return b.String()
}
