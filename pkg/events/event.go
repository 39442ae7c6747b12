package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FAQ_ESCALATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewEscalationEvent is emitted when a query falls through to human support.
func NewEscalationEvent(query, sessionId string) Event {
	return BaseEvent{
		Type: "FAQ_ESCALATED",
		Data: map[string]interface{}{
			"query":      query,
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}
}
