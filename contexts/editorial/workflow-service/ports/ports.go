package ports

import (
	"context"
	"time"

	"vellum/contexts/editorial/workflow-service/domain/entities"
	"vellum/internal/shared/events"
)

type ContentFilter struct {
	State         entities.ContentState
	ContentType   string
	Priority      string
	SubmittedFrom time.Time
	SubmittedTo   time.Time
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type Repository interface {
	CreateContent(ctx context.Context, item entities.ContentItem) error
	UpdateContent(ctx context.Context, item entities.ContentItem) error
	GetContent(ctx context.Context, contentID string) (entities.ContentItem, error)
	ListContent(ctx context.Context, filter ContentFilter) ([]entities.ContentItem, error)
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// AssignmentInfo is this service's view of the active assignment, fetched
// through the gateway so contexts stay decoupled.
type AssignmentInfo struct {
	AssignmentID string
	ContentID    string
	ReviewerIDs  []string
	Deadline     time.Time
}

type AssignmentGateway interface {
	ActiveAssignment(ctx context.Context, contentID string) (AssignmentInfo, bool, error)
	// ReleaseForContent frees reviewer workload reserved for the content's
	// active assignment. Reason is "completed" or "withdrawn".
	ReleaseForContent(ctx context.Context, contentID string, reason string) error
}

// RecommendationSummary mirrors the aggregator's consolidated output.
type RecommendationSummary struct {
	Overall     string
	Pending     bool
	ReviewCount int
	MeanScores  map[string]float64
}

type ReviewGateway interface {
	Consolidated(ctx context.Context, assignmentID string) (RecommendationSummary, error)
}
