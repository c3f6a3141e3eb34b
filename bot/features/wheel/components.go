package wheel

import (
	"fmt"
	"strconv"
	"strings"

	"herocraft/bot/common"
	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	customIDPick = "wheel_pick"
	customIDBet  = "wheel_bet_"
)

// CreateWheelComponents builds the outcome picker shown under the wheel status
func CreateWheelComponents(outcomes entities.WheelOutcomes, open bool) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(outcomes))
	for _, o := range outcomes {
		options = append(options, discordgo.SelectMenuOption{
			Label:       fmt.Sprintf("%s (pays %dx)", capitalize(o.Name), o.Multiplier+1),
			Value:       o.Name,
			Description: fmt.Sprintf("%d of %d segments", o.Weight, outcomes.TotalWeight()),
			Emoji:       &discordgo.ComponentEmoji{Name: common.OutcomeEmoji(o.Name)},
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    customIDPick,
					Placeholder: "Pick a colour to bet on",
					Options:     options,
					Disabled:    !open,
				},
			},
		},
	}
}

// CreatePresetComponents offers the preset amounts for one outcome
func CreatePresetComponents(outcome string, presets []int64) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var buttons []discordgo.MessageComponent
	for _, amount := range presets {
		buttons = append(buttons, discordgo.Button{
			Label:    common.FormatBalanceCompact(amount),
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("%s%s_%d", customIDBet, outcome, amount),
			Emoji:    &discordgo.ComponentEmoji{Name: common.OutcomeEmoji(outcome)},
		})
		if len(buttons) == common.MaxButtonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: buttons})
			buttons = nil
		}
	}
	if len(buttons) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

// parseBetCustomID reads wheel_bet_<outcome>_<amount>
func parseBetCustomID(customID string) (string, int64, bool) {
	rest, ok := strings.CutPrefix(customID, customIDBet)
	if !ok {
		return "", 0, false
	}
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 {
		return "", 0, false
	}
	amount, err := strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil || amount <= 0 {
		return "", 0, false
	}
	return rest[:idx], amount, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
