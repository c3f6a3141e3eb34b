package transfer

import (
	"herocraft/application"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	ledger *application.Ledger
}

func New(ledger *application.Ledger) *Feature {
	return &Feature{
		ledger: ledger,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePay(s, i)
}
