package nats

import (
	"context"

	"faq-agentic-be/pkg/events"
)

// EscalationNotifier adapts the publisher to the escalation agent's hook so
// support tooling can subscribe to events.FAQ_ESCALATED.
type EscalationNotifier struct {
	publisher *Publisher
}

func NewEscalationNotifier(publisher *Publisher) *EscalationNotifier {
	return &EscalationNotifier{publisher: publisher}
}

func (n *EscalationNotifier) NotifyEscalation(ctx context.Context, query, sessionId string) error {
	return n.publisher.Publish(ctx, events.NewEscalationEvent(query, sessionId))
}
