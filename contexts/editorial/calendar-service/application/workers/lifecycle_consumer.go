package workers

import (
	"context"
	"log/slog"
	"time"

	"vellum/contexts/editorial/calendar-service/application"
	"vellum/contexts/editorial/calendar-service/ports"
	"vellum/internal/shared/events"
)

// EventSubscriber is the broker surface the consumer needs.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, events.Envelope) error) error
}

// ContentLifecycleConsumer feeds workflow lifecycle events into the calendar
// activity feed.
type ContentLifecycleConsumer struct {
	Subscriber    EventSubscriber
	Service       application.Service
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c ContentLifecycleConsumer) Start(ctx context.Context) error {
	topic := c.Topic
	if topic == "" {
		topic = "editorial.content.lifecycle"
	}
	group := c.ConsumerGroup
	if group == "" {
		group = "editorial-calendar-cg"
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.handle)
}

func (c ContentLifecycleConsumer) handle(ctx context.Context, event events.Envelope) error {
	occurredAt := event.OccurredAtUTC
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return c.Service.ApplyContentLifecycleEvent(ctx, ports.ContentLifecycleEvent{
		EventID:    event.EventID,
		EventType:  event.EventType,
		ContentID:  event.EntityID,
		State:      payloadState(event.Payload),
		OccurredAt: occurredAt,
	})
}

// payloadState reads the lifecycle state from either an in-process payload
// map or one rebuilt from JSON.
func payloadState(payload any) string {
	values, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	state, _ := values["state"].(string)
	return state
}
