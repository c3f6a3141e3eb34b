package lottery

import (
	"fmt"

	"herocraft/application"
	"herocraft/bot/common"
	"herocraft/domain/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature represents the lottery feature
type Feature struct {
	session *discordgo.Session
	lottery *application.Lottery
}

// NewFeature creates a new lottery feature instance
func NewFeature(session *discordgo.Session, lottery *application.Lottery) *Feature {
	return &Feature{
		session: session,
		lottery: lottery,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please choose a subcommand.")
		return
	}

	sub := options[0]
	switch sub.Name {
	case "buy":
		f.handleBuyCommand(s, i, common.OptionMap(sub.Options))
	case "quickpick":
		f.handleQuickPick(s, i)
	case "tickets":
		f.handleTickets(s, i)
	case "discard":
		f.handleDiscard(s, i, common.OptionMap(sub.Options))
	case "status":
		f.handleStatus(s, i)
	default:
		common.RespondWithError(s, i, "Unknown lottery subcommand")
	}
}

// HandleInteraction handles lottery button interactions and modals
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().CustomID {
		case customIDQuickPick:
			f.handleQuickPick(s, i)
		case customIDPick:
			f.handlePickButton(s, i)
		default:
			common.RespondWithError(s, i, "Unknown lottery interaction")
		}
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == customIDBuyModal {
			f.handleBuyModalSubmit(s, i)
			return
		}
		log.Warnf("Unknown lottery modal customID: %s", i.ModalSubmitData().CustomID)
		common.RespondWithError(s, i, "Unknown lottery modal")
	default:
		log.Warnf("Unknown interaction type in lottery: %v", i.Type)
	}
}

// PostDrawing announces a drawing in the lottery channel
func (f *Feature) PostDrawing(channelID string, e events.LotteryDrawnEvent) error {
	if channelID == "" {
		return nil
	}

	_, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{CreateDrawingEmbed(e)},
	})
	if err != nil {
		return fmt.Errorf("failed to post lottery drawing: %w", err)
	}

	log.WithFields(log.Fields{
		"drawing_id": e.DrawingID,
		"channel_id": channelID,
		"winners":    e.Winners,
	}).Info("Posted lottery drawing to Discord")

	return nil
}
