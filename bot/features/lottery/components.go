package lottery

import (
	"fmt"
	"strconv"
	"strings"

	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	customIDQuickPick = "lotto_quickpick"
	customIDPick      = "lotto_pick"
	customIDBuyModal  = "lotto_buy_modal"
)

// CreateLotteryComponents creates the purchase buttons shown under the lottery status
func CreateLotteryComponents(ticketPrice int64) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    fmt.Sprintf("Quick pick (%d)", ticketPrice),
					Style:    discordgo.PrimaryButton,
					CustomID: customIDQuickPick,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎲"},
				},
				discordgo.Button{
					Label:    "Pick numbers",
					Style:    discordgo.SecondaryButton,
					CustomID: customIDPick,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎟️"},
				},
			},
		},
	}
}

// CreateBuyTicketModal creates the modal for choosing ticket numbers
func CreateBuyTicketModal(ticketPrice int64) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: customIDBuyModal,
		Title:    "Buy a Lottery Ticket",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "numbers",
						Label:       fmt.Sprintf("%d numbers from 1-%d (%d coins)", entities.LotteryNumberCount, entities.LotteryMaxNumber, ticketPrice),
						Style:       discordgo.TextInputShort,
						Placeholder: "7 14 21 35 62",
						Required:    true,
						MinLength:   9,
						MaxLength:   24,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "bonus",
						Label:       fmt.Sprintf("Bonus number from 1-%d", entities.LotteryMaxBonus),
						Style:       discordgo.TextInputShort,
						Placeholder: "9",
						Required:    true,
						MinLength:   1,
						MaxLength:   2,
					},
				},
			},
		},
	}
}

// parseModalTicket reads the numbers and bonus fields of the buy modal
func parseModalTicket(data discordgo.ModalSubmitInteractionData) ([]int, int, error) {
	var numbersStr, bonusStr string
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			input, ok := inner.(*discordgo.TextInput)
			if !ok {
				continue
			}
			switch input.CustomID {
			case "numbers":
				numbersStr = input.Value
			case "bonus":
				bonusStr = strings.TrimSpace(input.Value)
			}
		}
	}

	numbers, err := entities.ParseTicketNumbers(numbersStr)
	if err != nil {
		return nil, 0, err
	}
	bonus, err := strconv.Atoi(bonusStr)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: bonus %q is not a number", entities.ErrInvalidTicketNumbers, bonusStr)
	}
	return numbers, bonus, nil
}

// parseIndices reads "1, 3 4" into ticket positions
func parseIndices(input string) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, entities.ErrInvalidTicketIndex
	}
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", entities.ErrInvalidTicketIndex, f)
		}
		indices = append(indices, n)
	}
	return indices, nil
}
