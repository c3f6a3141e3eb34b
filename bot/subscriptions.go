package bot

import (
	"context"
	"fmt"

	"herocraft/application"
	"herocraft/domain/events"

	log "github.com/sirupsen/logrus"
)

// RegisterBotSubscriptions registers the handlers that announce game results in Discord
func RegisterBotSubscriptions(subscriber application.EventSubscriber, bot *Bot) {
	subscriber.RegisterLocalHandler(events.EventTypeWheelSettled, func(ctx context.Context, event events.Event) error {
		return handleWheelSettled(event, bot)
	})
	subscriber.RegisterLocalHandler(events.EventTypeLotteryDrawn, func(ctx context.Context, event events.Event) error {
		return handleLotteryDrawn(event, bot)
	})

	log.Info("Bot event subscriptions registered successfully")
}

// handleWheelSettled posts the settlement without holding up the committing transaction
func handleWheelSettled(event events.Event, bot *Bot) error {
	settled, ok := event.(events.WheelSettledEvent)
	if !ok {
		return fmt.Errorf("received %T in wheel settled handler", event)
	}

	go func() {
		if err := bot.wheel.PostSettlement(bot.config.WheelChannelID, settled); err != nil {
			log.WithFields(log.Fields{
				"cycle": settled.Cycle,
				"error": err,
			}).Error("Failed to announce wheel settlement")
		}
	}()
	return nil
}

func handleLotteryDrawn(event events.Event, bot *Bot) error {
	drawn, ok := event.(events.LotteryDrawnEvent)
	if !ok {
		return fmt.Errorf("received %T in lottery drawn handler", event)
	}

	go func() {
		if err := bot.lottery.PostDrawing(bot.config.LotteryChannelID, drawn); err != nil {
			log.WithFields(log.Fields{
				"drawingID": drawn.DrawingID,
				"error":     err,
			}).Error("Failed to announce lottery drawing")
		}
	}()
	return nil
}
