package bot

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"herocraft/application"
	"herocraft/bot/common"
	"herocraft/bot/features/balance"
	"herocraft/bot/features/lottery"
	"herocraft/bot/features/rewards"
	"herocraft/bot/features/ridethebus"
	"herocraft/bot/features/transfer"
	"herocraft/bot/features/wheel"
	"herocraft/domain/entities"
	"herocraft/domain/utils"
	"herocraft/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	AdminIDs         []int64
	WheelChannelID   string
	LotteryChannelID string
	WheelPresets     []int64
	VoiceChannels    []entities.VoiceChannelReward
}

// Services are the application components the features drive
type Services struct {
	Ledger     *application.Ledger
	RideTheBus *application.RideTheBusEngine
	Wheel      *application.WheelEngine
	Lottery    *application.Lottery
	Rewards    *application.Rewards
	Clock      utils.Clock
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session

	voice    *rewards.VoiceTracker
	outcomes entities.WheelOutcomes

	// Feature modules
	balance    *balance.Feature
	transfer   *transfer.Feature
	rewards    *rewards.Feature
	rideTheBus *ridethebus.Feature
	wheel      *wheel.Feature
	lottery    *lottery.Feature
}

// New creates a bot with all features registered. The session is not opened
// until Open is called. ctx bounds wheels started from Discord.
func New(ctx context.Context, config Config, services Services) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers

	bot := &Bot{
		config:   config,
		session:  dg,
		voice:    rewards.NewVoiceTracker(services.Clock),
		outcomes: services.Wheel.Outcomes(),
	}

	bot.balance = balance.New(services.Ledger)
	bot.transfer = transfer.New(services.Ledger)
	bot.rewards = rewards.New(services.Rewards, config.VoiceChannels)
	bot.rideTheBus = ridethebus.NewFeature(dg, services.RideTheBus)
	bot.wheel = wheel.NewFeature(ctx, dg, services.Wheel, config.WheelPresets, bot.isAdmin)
	bot.lottery = lottery.NewFeature(dg, services.Lottery)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.rewards.HandleMessage)
	dg.AddHandler(bot.voice.HandleVoiceStateUpdate)

	return bot, nil
}

// Open connects to Discord and registers the slash commands
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("user", b.session.State.User.Username).Info("Discord session opened")
	return nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// VoicePresence returns the tracker feeding the voice reward worker
func (b *Bot) VoicePresence() application.VoicePresence {
	return b.voice
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	observability.GetMetrics().RecordCommand(name)

	switch name {
	case "balance", "leaderboard":
		b.balance.HandleCommand(s, i)
	case "pay":
		b.transfer.HandleCommand(s, i)
	case "cooldown", "voicetime":
		b.rewards.HandleCommand(s, i)
	case "ridethebus":
		b.rideTheBus.HandleCommand(s, i)
	case "wheel":
		b.wheel.HandleCommand(s, i)
	case "lottery":
		b.lottery.HandleCommand(s, i)
	default:
		log.Warnf("Unhandled command: %s", name)
	}
}

// handleInteractions routes component interactions and modals by custom ID prefix
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var customID string
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		customID = i.ModalSubmitData().CustomID
	default:
		return
	}

	switch {
	case strings.HasPrefix(customID, "rtb_"):
		b.rideTheBus.HandleInteraction(s, i)
	case strings.HasPrefix(customID, "wheel_"):
		b.wheel.HandleInteraction(s, i)
	case strings.HasPrefix(customID, "lotto_"):
		b.lottery.HandleInteraction(s, i)
	default:
		log.Debugf("Ignoring interaction with unknown custom ID %q", customID)
	}
}

// handleGuildCreate seeds voice presence with members already connected
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.config.GuildID != "" && g.ID != b.config.GuildID {
		return
	}

	b.voice.Seed(g.VoiceStates)
	log.WithFields(log.Fields{
		"guild":        g.Name,
		"voice_states": len(g.VoiceStates),
	}).Info("Guild available")
}

// isAdmin allows configured admin IDs and guild administrators
func (b *Bot) isAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	userID := common.InteractionUserID(i)
	accountID, err := common.ParseUserID(userID)
	if err != nil {
		return false
	}
	if slices.Contains(b.config.AdminIDs, accountID) {
		return true
	}
	if i.GuildID == "" {
		return false
	}
	return common.IsUserAdmin(s, i.GuildID, userID)
}
