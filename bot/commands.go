package bot

import (
	"fmt"

	"herocraft/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// registerCommands publishes the slash commands, scoped to the configured guild when set
func (b *Bot) registerCommands() error {
	commands := b.commands()

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}

	log.WithFields(log.Fields{
		"count":   len(registered),
		"guildID": b.config.GuildID,
	}).Info("Registered slash commands")
	return nil
}

func (b *Bot) commands() []*discordgo.ApplicationCommand {
	minAmount := float64(1)
	minNumber := float64(1)
	maxNumber := float64(entities.LotteryMaxNumber)
	maxBonus := float64(entities.LotteryMaxBonus)

	numberOptions := make([]*discordgo.ApplicationCommandOption, 0, entities.LotteryNumberCount+1)
	for n := 1; n <= entities.LotteryNumberCount; n++ {
		numberOptions = append(numberOptions, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        fmt.Sprintf("n%d", n),
			Description: fmt.Sprintf("Number %d (1-%d)", n, entities.LotteryMaxNumber),
			Required:    true,
			MinValue:    &minNumber,
			MaxValue:    maxNumber,
		})
	}
	numberOptions = append(numberOptions, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "bonus",
		Description: fmt.Sprintf("Bonus number (1-%d)", entities.LotteryMaxBonus),
		Required:    true,
		MinValue:    &minNumber,
		MaxValue:    maxBonus,
	})

	outcomeChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(b.outcomes))
	for _, o := range b.outcomes {
		outcomeChoices = append(outcomeChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (pays %dx)", o.Name, o.Multiplier+1),
			Value: o.Name,
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check a coin balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to check (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "pay",
			Description: "Send coins to another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Recipient",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Coins to send",
					Required:    true,
					MinValue:    &minAmount,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest members",
		},
		{
			Name:        "cooldown",
			Description: "Time until your next message reward",
		},
		{
			Name:        "voicetime",
			Description: "Rewarded voice minutes used today",
		},
		{
			Name:        "ridethebus",
			Description: "Play ride the bus",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Stake in coins",
					Required:    true,
					MinValue:    &minAmount,
				},
			},
		},
		{
			Name:        "wheel",
			Description: "Bet on the wheel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "bet",
					Description: "Bet on a colour for the next spin",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "outcome",
							Description: "Colour to bet on",
							Required:    true,
							Choices:     outcomeChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Coins to bet",
							Required:    true,
							MinValue:    &minAmount,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the wheel phase and the last result",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start the wheel (admins only)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stop",
					Description: "Stop the wheel (admins only)",
				},
			},
		},
		{
			Name:        "lottery",
			Description: "Daily lottery",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Buy a ticket with your own numbers",
					Options:     numberOptions,
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "quickpick",
					Description: "Buy a ticket with random numbers",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "tickets",
					Description: "List your tickets for the next drawing",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "discard",
					Description: "Discard tickets without refund",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "indices",
							Description: "Ticket positions from /lottery tickets, e.g. 1 3",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the pot and the next drawing",
				},
			},
		},
	}
}
