package ridethebus

import (
	"sync"

	"herocraft/application"
	"herocraft/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature runs ride the bus games through slash commands and buttons
type Feature struct {
	session *discordgo.Session
	engine  *application.RideTheBusEngine

	// tables remembers the interaction that owns each live game message so an
	// idle timeout can edit it
	mu     sync.Mutex
	tables map[int64]*discordgo.Interaction
}

func NewFeature(session *discordgo.Session, engine *application.RideTheBusEngine) *Feature {
	f := &Feature{
		session: session,
		engine:  engine,
		tables:  make(map[int64]*discordgo.Interaction),
	}
	engine.OnTimeout(f.handleTimeout)
	return f
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleStart(s, i)
}

// HandleInteraction handles ride the bus buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		log.Warnf("Unknown interaction type in ride the bus: %v", i.Type)
		return
	}

	action, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		common.RespondWithError(s, i, "Unknown ride the bus interaction")
		return
	}
	if action.owner != common.InteractionUserID(i) {
		common.RespondWithError(s, i, "This is not your game. Start your own with `/ridethebus`.")
		return
	}

	switch action.action {
	case "choice":
		f.handleChoice(s, i, action)
	case "cashout":
		f.handleCashOut(s, i)
	case "again":
		f.handlePlayAgain(s, i)
	}
}

func (f *Feature) remember(accountID int64, interaction *discordgo.Interaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[accountID] = interaction
}

func (f *Feature) forget(accountID int64) *discordgo.Interaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	interaction := f.tables[accountID]
	delete(f.tables, accountID)
	return interaction
}

// handleTimeout edits the game message of a forfeited session
func (f *Feature) handleTimeout(view *application.SessionView) {
	interaction := f.forget(view.AccountID)
	if interaction == nil {
		return
	}

	embed := CreateSessionEmbed(view)
	components := []discordgo.MessageComponent{}
	if _, err := f.session.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}); err != nil {
		log.WithError(err).WithField("accountID", view.AccountID).Warn("Failed to update timed out ride the bus message")
	}
}
