package rewards

import (
	"context"

	"herocraft/application"
	"herocraft/bot/common"
	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature pays activity rewards and reports cooldowns and voice usage
type Feature struct {
	rewards  *application.Rewards
	channels []entities.VoiceChannelReward
}

func New(rewards *application.Rewards, channels []entities.VoiceChannelReward) *Feature {
	return &Feature{
		rewards:  rewards,
		channels: channels,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "cooldown":
		f.handleCooldown(s, i)
	case "voicetime":
		f.handleVoiceTime(s, i)
	}
}

// HandleMessage pays the message reward for a guild message from a member
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	accountID, err := common.ParseUserID(m.Author.ID)
	if err != nil {
		log.Errorf("Error parsing author ID %s: %v", m.Author.ID, err)
		return
	}

	paid, err := f.rewards.RewardMessage(context.Background(), accountID)
	if err != nil {
		log.WithError(err).WithField("accountID", accountID).Error("Failed to pay message reward")
		return
	}
	if paid > 0 {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"coins":     paid,
		}).Debug("Paid message reward")
	}
}
