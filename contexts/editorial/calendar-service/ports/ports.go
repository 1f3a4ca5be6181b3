package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

// DeadlineEntry is the assignment engine's view of one scheduled review.
type DeadlineEntry struct {
	AssignmentID string
	ContentID    string
	ReviewerIDs  []string
	Deadline     time.Time
	Overdue      bool
}

// DeadlineSource reads active assignment deadlines from the assignment engine.
type DeadlineSource interface {
	DueBetween(ctx context.Context, from, to time.Time) ([]DeadlineEntry, error)
}

// ActivityEntry is one row of the editorial activity feed.
type ActivityEntry struct {
	EventID    string
	EventType  string
	ContentID  string
	State      string
	OccurredAt time.Time
}

type ActivityStore interface {
	AppendActivity(ctx context.Context, entry ActivityEntry) error
	ListRecentActivity(ctx context.Context, limit int) ([]ActivityEntry, error)
}

type EventDedupStore interface {
	HasProcessedEvent(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessedEvent(ctx context.Context, eventID string, expiresAt time.Time) error
}

// ContentLifecycleEvent is the consumed shape of workflow lifecycle events.
type ContentLifecycleEvent struct {
	EventID    string
	EventType  string
	ContentID  string
	State      string
	OccurredAt time.Time
}
