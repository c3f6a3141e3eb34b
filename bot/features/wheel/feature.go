package wheel

import (
	"context"
	"strings"

	"herocraft/application"
	"herocraft/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// AdminCheck decides who may start and stop the wheel
type AdminCheck func(s *discordgo.Session, i *discordgo.InteractionCreate) bool

// Feature exposes the continuous wheel through commands and components
type Feature struct {
	ctx     context.Context
	session *discordgo.Session
	engine  *application.WheelEngine
	presets []int64
	isAdmin AdminCheck
}

// NewFeature creates the wheel feature. ctx bounds wheels started from Discord.
func NewFeature(ctx context.Context, session *discordgo.Session, engine *application.WheelEngine, presets []int64, isAdmin AdminCheck) *Feature {
	return &Feature{
		ctx:     ctx,
		session: session,
		engine:  engine,
		presets: presets,
		isAdmin: isAdmin,
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
	case "bet":
		f.handleBetCommand(s, i, common.OptionMap(sub.Options))
	case "status":
		f.handleStatus(s, i)
	case "start":
		f.handleStart(s, i)
	case "stop":
		f.handleStop(s, i)
	default:
		common.RespondWithError(s, i, "Unknown wheel subcommand")
	}
}

// HandleInteraction handles the outcome picker and preset buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		log.Warnf("Unknown interaction type in wheel: %v", i.Type)
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case customID == customIDPick:
		f.handlePick(s, i)
	case strings.HasPrefix(customID, customIDBet):
		f.handlePresetBet(s, i)
	default:
		common.RespondWithError(s, i, "Unknown wheel interaction")
	}
}
