package ridethebus

import (
	"context"

	"herocraft/application"
	"herocraft/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	opt, ok := common.OptionMap(i.ApplicationCommandData().Options)["bet"]
	if !ok {
		common.RespondWithError(s, i, "Please provide a bet.")
		return
	}

	view, err := f.engine.Start(context.Background(), accountID, opt.IntValue())
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "failed to start ride the bus"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateSessionEmbed(view), CreateSessionComponents(view), false); err != nil {
		log.Errorf("Error responding to ridethebus command: %v", err)
		return
	}
	f.remember(accountID, i.Interaction)
}

func (f *Feature) handleChoice(s *discordgo.Session, i *discordgo.InteractionCreate, action componentAction) {
	accountID, err := common.ParseUserID(action.owner)
	if err != nil {
		common.RespondWithError(s, i, "Invalid button")
		return
	}

	view, err := f.engine.Choose(context.Background(), accountID, action.choice)
	f.respondWithView(s, i, accountID, view, err)
}

func (f *Feature) handleCashOut(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Invalid button")
		return
	}

	view, err := f.engine.CashOut(context.Background(), accountID)
	f.respondWithView(s, i, accountID, view, err)
}

func (f *Feature) handlePlayAgain(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Invalid button")
		return
	}

	view, err := f.engine.PlayAgain(context.Background(), accountID)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "failed to replay ride the bus"), false)
		return
	}

	if err := common.UpdateComponentMessage(s, i, CreateSessionEmbed(view), CreateSessionComponents(view)); err != nil {
		log.Errorf("Error updating ride the bus message: %v", err)
		return
	}
	f.remember(accountID, i.Interaction)
}

// respondWithView redraws the game message after a round or cash out
func (f *Feature) respondWithView(s *discordgo.Session, i *discordgo.InteractionCreate, accountID int64, view *application.SessionView, err error) {
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "ride the bus action failed"), false)
		return
	}

	if view.IsTerminal() {
		f.forget(accountID)
	}
	if err := common.UpdateComponentMessage(s, i, CreateSessionEmbed(view), CreateSessionComponents(view)); err != nil {
		log.Errorf("Error updating ride the bus message: %v", err)
	}
}
