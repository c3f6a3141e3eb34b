package infrastructure

import (
	"fmt"

	"herocraft/domain/events"
)

// EventSubjectMapper maps domain events to NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var eventSubjects = map[events.EventType]string{
	events.EventTypeBalanceChange:   "economy.balance_changed",
	events.EventTypeLotteryTicket:   "lottery.ticket_purchased",
	events.EventTypeLotteryDrawn:    "lottery.drawn",
	events.EventTypeWheelSettled:    "wheel.settled",
	events.EventTypeRideTheBusEnded: "ridethebus.ended",
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range eventSubjects {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"economy.balance_changed",
		"lottery.ticket_purchased",
		"lottery.drawn",
		"wheel.settled",
		"ridethebus.ended",
	}
}
