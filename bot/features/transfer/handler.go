package transfer

import (
	"context"

	"herocraft/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := common.OptionMap(i.ApplicationCommandData().Options)
	amountOpt, hasAmount := options["amount"]
	userOpt, hasUser := options["user"]
	if !hasAmount || !hasUser {
		common.RespondWithError(s, i, "Invalid command options. Please provide both amount and user.")
		return
	}

	amount := amountOpt.IntValue()
	recipient := userOpt.UserValue(s)
	if recipient == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	if recipient.Bot {
		common.RespondWithError(s, i, "Bots do not hold coins.")
		return
	}

	fromID, err := common.InteractionAccountID(i)
	if err != nil {
		log.Errorf("Error parsing sender Discord ID: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	toID, err := common.ParseUserID(recipient.ID)
	if err != nil {
		log.Errorf("Error parsing recipient Discord ID %s: %v", recipient.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.ledger.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "transfer failed"), false)
		return
	}

	log.WithFields(log.Fields{
		"from":   fromID,
		"to":     toID,
		"amount": amount,
	}).Info("Transfer completed")

	message := common.FormatTransferResult(result.Amount, recipient.ID, result.FromBalance)
	if err := common.RespondWithMessage(s, i, message, false); err != nil {
		log.Errorf("Error responding to pay command: %v", err)
	}
}
