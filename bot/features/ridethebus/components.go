package ridethebus

import (
	"fmt"
	"strings"

	"herocraft/application"
	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const customIDPrefix = "rtb_"

var choiceButtons = map[entities.Choice]struct {
	label string
	emoji string
	style discordgo.ButtonStyle
}{
	entities.ChoiceRed:      {"Red", "🟥", discordgo.DangerButton},
	entities.ChoiceBlack:    {"Black", "⬛", discordgo.SecondaryButton},
	entities.ChoiceHigher:   {"Higher", "⬆️", discordgo.PrimaryButton},
	entities.ChoiceLower:    {"Lower", "⬇️", discordgo.PrimaryButton},
	entities.ChoiceInside:   {"Inside", "↔️", discordgo.PrimaryButton},
	entities.ChoiceOutside:  {"Outside", "↕️", discordgo.PrimaryButton},
	entities.ChoiceHearts:   {"Hearts", "♥️", discordgo.DangerButton},
	entities.ChoiceDiamonds: {"Diamonds", "♦️", discordgo.DangerButton},
	entities.ChoiceClubs:    {"Clubs", "♣️", discordgo.SecondaryButton},
	entities.ChoiceSpades:   {"Spades", "♠️", discordgo.SecondaryButton},
}

// CreateSessionComponents shows the calls for the current round and a cash out
// button, or a play again button once the session is over
func CreateSessionComponents(view *application.SessionView) []discordgo.MessageComponent {
	if view.IsTerminal() {
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("Play again (%d)", view.Stake),
						Style:    discordgo.SuccessButton,
						CustomID: fmt.Sprintf("%sagain_%d", customIDPrefix, view.AccountID),
						Emoji:    &discordgo.ComponentEmoji{Name: "🔁"},
					},
				},
			},
		}
	}

	buttons := make([]discordgo.MessageComponent, 0, 4)
	for _, choice := range entities.ChoicesForRound(view.Round) {
		b := choiceButtons[choice]
		buttons = append(buttons, discordgo.Button{
			Label:    b.label,
			Style:    b.style,
			CustomID: fmt.Sprintf("%schoice_%d_%s", customIDPrefix, view.AccountID, choice),
			Emoji:    &discordgo.ComponentEmoji{Name: b.emoji},
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    fmt.Sprintf("Cash out %d", view.Pot),
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("%scashout_%d", customIDPrefix, view.AccountID),
					Emoji:    &discordgo.ComponentEmoji{Name: "💰"},
				},
			},
		},
	}
}

// componentAction is a parsed ride the bus button
type componentAction struct {
	action string
	owner  string
	choice entities.Choice
}

// parseCustomID reads rtb_choice_<owner>_<choice>, rtb_cashout_<owner> and rtb_again_<owner>
func parseCustomID(customID string) (componentAction, bool) {
	parts := strings.Split(strings.TrimPrefix(customID, customIDPrefix), "_")
	if len(parts) < 2 || parts[1] == "" {
		return componentAction{}, false
	}

	a := componentAction{action: parts[0], owner: parts[1]}
	switch a.action {
	case "choice":
		if len(parts) != 3 {
			return componentAction{}, false
		}
		a.choice = entities.Choice(parts[2])
	case "cashout", "again":
		if len(parts) != 2 {
			return componentAction{}, false
		}
	default:
		return componentAction{}, false
	}
	return a, true
}
