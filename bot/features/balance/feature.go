package balance

import (
	"herocraft/application"

	"github.com/bwmarrin/discordgo"
)

// Feature answers balance and leaderboard lookups
type Feature struct {
	ledger *application.Ledger
}

func New(ledger *application.Ledger) *Feature {
	return &Feature{
		ledger: ledger,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "leaderboard":
		f.handleLeaderboard(s, i)
	default:
		f.handleBalance(s, i)
	}
}
