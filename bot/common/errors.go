package common

import (
	"errors"
	"fmt"

	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

const systemErrorMessage = "Something went wrong. Please try again later."

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: systemErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromDomainError turns a ledger or game error into a BotError whose user
// message tells the member how to fix the request
func FromDomainError(err error, logMessage string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	var insufficient *entities.InsufficientFundsError
	var limit *entities.TicketLimitError
	var closed *entities.BettingClosedError
	var stake *entities.StakeRangeError

	var msg string
	switch {
	case errors.As(err, &insufficient):
		msg = fmt.Sprintf("Insufficient funds. You have %s but need %s.",
			FormatCoins(insufficient.Balance), FormatCoins(insufficient.Required))
	case errors.As(err, &limit):
		msg = fmt.Sprintf("You already hold %d of %d tickets for this drawing.", limit.Held, limit.Max)
	case errors.As(err, &closed):
		msg = fmt.Sprintf("Betting is closed while the wheel is %s.", closed.Phase)
		if closed.OpensIn > 0 {
			msg += fmt.Sprintf(" It reopens in %s.", FormatCountdown(closed.OpensIn))
		}
	case errors.As(err, &stake):
		msg = fmt.Sprintf("Stake must be between %s and %s.", FormatCoins(stake.Min), FormatCoins(stake.Max))
	case errors.Is(err, entities.ErrSessionAlreadyActive):
		msg = "You already have a game in progress. Finish it first."
	case errors.Is(err, entities.ErrNoActiveSession):
		msg = "You have no game in progress."
	case errors.Is(err, entities.ErrInvalidTicketNumbers):
		msg = fmt.Sprintf("Invalid ticket: %s. Pick %d distinct numbers from 1-%d and a bonus from 1-%d.",
			err.Error(), entities.LotteryNumberCount, entities.LotteryMaxNumber, entities.LotteryMaxBonus)
	case errors.Is(err, entities.ErrInvalidTicketIndex):
		msg = "One of those ticket numbers does not exist. Check `/lottery tickets`."
	case errors.Is(err, entities.ErrInvalidChoice):
		msg = "That call is not available this round."
	case errors.Is(err, entities.ErrInvalidAmount), errors.Is(err, entities.ErrInvalidStake):
		msg = "Amount must be a positive number of coins."
	case errors.Is(err, entities.ErrSelfTransfer):
		msg = "You cannot pay yourself."
	case errors.Is(err, entities.ErrUnknownOutcome):
		msg = "That colour is not on the wheel."
	default:
		return NewSystemError(err, logMessage)
	}

	botErr = NewUserError(msg, logMessage)
	botErr.Err = err
	return botErr
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes an error and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	botErr := FromDomainError(err, "Unexpected error in bot interaction")

	fields := log.Fields{
		"user_id":      InteractionUserID(i),
		"interaction":  interactionName(i),
		"user_message": botErr.UserMessage,
		"context":      botErr.Context,
	}
	if botErr.UserMessage == systemErrorMessage {
		log.WithFields(fields).WithError(botErr.Err).Error(botErr.LogMessage)
	} else {
		log.WithFields(fields).Debug(botErr.Error())
	}

	if deferred {
		FollowUpWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}

func interactionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	default:
		return i.Type.String()
	}
}
