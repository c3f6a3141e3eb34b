package lottery

import (
	"context"
	"fmt"

	"herocraft/bot/common"
	"herocraft/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var numberOptions = []string{"n1", "n2", "n3", "n4", "n5"}

func (f *Feature) handleBuyCommand(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	numbers := make([]int, 0, len(numberOptions))
	for _, name := range numberOptions {
		opt, ok := options[name]
		if !ok {
			common.RespondWithError(s, i, "Please provide all five numbers.")
			return
		}
		numbers = append(numbers, int(opt.IntValue()))
	}
	bonusOpt, ok := options["bonus"]
	if !ok {
		common.RespondWithError(s, i, "Please provide a bonus number.")
		return
	}

	f.buy(s, i, func(ctx context.Context, accountID int64) (*interfaces.LotteryPurchaseResult, error) {
		return f.lottery.BuyTicket(ctx, accountID, numbers, int(bonusOpt.IntValue()))
	})
}

func (f *Feature) handleQuickPick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.buy(s, i, f.lottery.QuickPick)
}

// handlePickButton opens the number picker modal
func (f *Feature) handlePickButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	status, err := f.lottery.Status(context.Background())
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to read lottery status"), false)
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: CreateBuyTicketModal(status.TicketPrice),
	}); err != nil {
		log.Errorf("Failed to open lottery modal: %v", err)
	}
}

func (f *Feature) handleBuyModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	numbers, bonus, err := parseModalTicket(i.ModalSubmitData())
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "invalid lottery modal input"), false)
		return
	}

	f.buy(s, i, func(ctx context.Context, accountID int64) (*interfaces.LotteryPurchaseResult, error) {
		return f.lottery.BuyTicket(ctx, accountID, numbers, bonus)
	})
}

// buy runs a purchase for the invoking member and confirms it privately
func (f *Feature) buy(s *discordgo.Session, i *discordgo.InteractionCreate, purchase func(ctx context.Context, accountID int64) (*interfaces.LotteryPurchaseResult, error)) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Invalid user ID")
		return
	}

	result, err := purchase(context.Background(), accountID)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "lottery purchase failed"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreatePurchaseEmbed(result), nil, true); err != nil {
		log.Errorf("Failed to send purchase confirmation: %v", err)
	}
}

func (f *Feature) handleTickets(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Invalid user ID")
		return
	}

	tickets, err := f.lottery.Tickets(context.Background(), accountID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list lottery tickets"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateTicketsEmbed(tickets), nil, true); err != nil {
		log.Errorf("Failed to list tickets: %v", err)
	}
}

func (f *Feature) handleDiscard(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	accountID, err := common.InteractionAccountID(i)
	if err != nil {
		common.RespondWithError(s, i, "Invalid user ID")
		return
	}

	opt, ok := options["indices"]
	if !ok {
		common.RespondWithError(s, i, "Please list the ticket numbers to discard, e.g. `1 3`.")
		return
	}
	indices, err := parseIndices(opt.StringValue())
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "invalid discard indices"), false)
		return
	}

	discarded, err := f.lottery.DiscardTickets(context.Background(), accountID, indices)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "failed to discard tickets"), false)
		return
	}

	message := fmt.Sprintf("🗑️ Discarded %d ticket(s). Discarded tickets are not refunded.", discarded)
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Failed to confirm discard: %v", err)
	}
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	status, err := f.lottery.Status(context.Background())
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to read lottery status"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateStatusEmbed(status), CreateLotteryComponents(status.TicketPrice), false); err != nil {
		log.Errorf("Failed to send lottery status: %v", err)
	}
}
