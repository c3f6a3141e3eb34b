package wheel

import (
	"context"
	"fmt"

	"herocraft/bot/common"
	"herocraft/domain/entities"
	"herocraft/domain/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBetCommand(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	outcomeOpt, hasOutcome := options["outcome"]
	amountOpt, hasAmount := options["amount"]
	if !hasOutcome || !hasAmount {
		common.RespondWithError(s, i, "Please provide both an outcome and an amount.")
		return
	}
	f.placeBet(s, i, outcomeOpt.StringValue(), amountOpt.IntValue(), false)
}

func (f *Feature) handlePresetBet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	outcome, amount, ok := parseBetCustomID(i.MessageComponentData().CustomID)
	if !ok {
		common.RespondWithError(s, i, "Invalid button")
		return
	}
	f.placeBet(s, i, outcome, amount, true)
}

func (f *Feature) placeBet(s *discordgo.Session, i *discordgo.InteractionCreate, outcome string, amount int64, fromComponent bool) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	ack, err := f.engine.PlaceBet(context.Background(), accountID, amount, outcome)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "wheel bet rejected"), false)
		return
	}

	embed := CreateBetAckEmbed(ack)
	if fromComponent {
		err = common.UpdateComponentMessage(s, i, embed, CreatePresetComponents(outcome, f.presets))
	} else {
		err = common.RespondWithEmbed(s, i, embed, nil, true)
	}
	if err != nil {
		log.Errorf("Error responding to wheel bet: %v", err)
	}
}

// handlePick answers the outcome picker with private preset buttons
func (f *Feature) handlePick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		common.RespondWithError(s, i, "Pick a colour first.")
		return
	}
	outcome, ok := f.engine.Outcomes().Find(values[0])
	if !ok {
		common.RespondWithError(s, i, "That colour is not on the wheel.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s Bet on %s", common.OutcomeEmoji(outcome.Name), capitalize(outcome.Name)),
		Description: fmt.Sprintf("A win pays **%dx** your bet. Pick an amount, or use `/wheel bet` for any other amount.",
			outcome.Multiplier+1),
		Color: common.ColorPrimary,
	}
	if err := common.RespondWithEmbed(s, i, embed, CreatePresetComponents(outcome.Name, f.presets), true); err != nil {
		log.Errorf("Error responding to wheel pick: %v", err)
	}
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	phase := f.engine.CurrentPhase()
	embed := CreateStatusEmbed(phase, f.engine.LastResult(), f.engine.Outcomes())
	components := CreateWheelComponents(f.engine.Outcomes(), phase.Phase == entities.WheelPhaseCountdown)
	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		log.Errorf("Error responding to wheel status: %v", err)
	}
}

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.isAdmin(s, i) {
		common.RespondWithError(s, i, "Only admins can start the wheel.")
		return
	}
	if f.engine.IsRunning() {
		common.RespondWithError(s, i, "The wheel is already running.")
		return
	}

	f.engine.Start(f.ctx)
	log.WithField("admin", common.InteractionUserID(i)).Info("Wheel started from Discord")
	f.handleStatus(s, i)
}

func (f *Feature) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.isAdmin(s, i) {
		common.RespondWithError(s, i, "Only admins can stop the wheel.")
		return
	}
	if !f.engine.IsRunning() {
		common.RespondWithError(s, i, "The wheel is not running.")
		return
	}

	// Stop can wait for an in-flight settlement
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	f.engine.Stop()
	log.WithField("admin", common.InteractionUserID(i)).Info("Wheel stopped from Discord")

	embed := CreateStatusEmbed(f.engine.CurrentPhase(), f.engine.LastResult(), f.engine.Outcomes())
	if err := common.UpdateMessage(s, i, embed, nil); err != nil {
		log.Errorf("Error responding to wheel stop: %v", err)
	}
}

// PostSettlement announces a resolved cycle in the wheel channel. Cycles
// nobody bet on are not announced.
func (f *Feature) PostSettlement(channelID string, e events.WheelSettledEvent) error {
	if channelID == "" || e.Winners+e.Losers == 0 {
		return nil
	}
	_, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{CreateSettlementEmbed(e)},
	})
	if err != nil {
		return fmt.Errorf("failed to post wheel settlement: %w", err)
	}
	return nil
}
