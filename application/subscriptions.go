package application

import (
	"context"

	"herocraft/domain/events"
	"herocraft/infrastructure/observability"
)

// EventSubscriber registers in-process handlers for committed events
type EventSubscriber interface {
	RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error)
}

// RegisterApplicationSubscriptions registers the application-level event handlers
func RegisterApplicationSubscriptions(subscriber EventSubscriber) {
	subscriber.RegisterLocalHandler(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			observability.GetMetrics().RecordBalanceTransaction(e.TransactionType.String())
		}
		return nil
	})
}
