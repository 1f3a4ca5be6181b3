package commands

import (
	"time"

	"vellum/contexts/editorial/workflow-service/domain/entities"
	domainerrors "vellum/contexts/editorial/workflow-service/domain/errors"
	"vellum/internal/shared/events"
)

const sourceService = "editorial/workflow-service"

func newContentEnvelope(
	eventID string,
	eventType string,
	contentID string,
	occurredAt time.Time,
	payload map[string]any,
) events.Envelope {
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  occurredAt,
		EntityType:     "content_item",
		EntityID:       contentID,
		PayloadVersion: 1,
		Payload:        payload,
	}
}

// applyTransition advances the item along the lifecycle graph or reports a
// typed transition failure carrying the offending identifiers.
func applyTransition(item *entities.ContentItem, trigger entities.Trigger) error {
	next, ok := entities.NextState(item.State, trigger)
	if !ok {
		return domainerrors.NewTransitionError(item.ContentID, string(item.State), string(trigger))
	}
	item.State = next
	return nil
}
