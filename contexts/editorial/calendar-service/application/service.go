package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "vellum/contexts/editorial/calendar-service/domain/errors"
	"vellum/contexts/editorial/calendar-service/ports"
)

const dayBucketLayout = "2006-01-02"

// DayBucket groups the deadlines that fall on one calendar day.
type DayBucket struct {
	Day       string
	Deadlines []ports.DeadlineEntry
}

// Service is a read model over assignment deadlines plus a lifecycle activity
// feed fed by workflow events. It keeps no state of its own beyond the feed.
type Service struct {
	Deadlines     ports.DeadlineSource
	Activity      ports.ActivityStore
	EventDedup    ports.EventDedupStore
	Clock         ports.Clock
	EventDedupTTL time.Duration
	Logger        *slog.Logger
}

// CalendarEvents buckets active review deadlines by day across the window.
func (s Service) CalendarEvents(ctx context.Context, from, to time.Time) ([]DayBucket, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, domainerrors.ErrInvalidRequest
	}
	entries, err := s.Deadlines.DueBetween(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]ports.DeadlineEntry)
	for _, entry := range entries {
		day := entry.Deadline.UTC().Format(dayBucketLayout)
		byDay[day] = append(byDay[day], entry)
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	buckets := make([]DayBucket, 0, len(days))
	for _, day := range days {
		buckets = append(buckets, DayBucket{Day: day, Deadlines: byDay[day]})
	}
	return buckets, nil
}

// UpcomingDeadlines lists deadlines due within the next n days, soonest first.
func (s Service) UpcomingDeadlines(ctx context.Context, withinDays int) ([]ports.DeadlineEntry, error) {
	if withinDays <= 0 {
		withinDays = 7
	}
	now := s.now()
	return s.Deadlines.DueBetween(ctx, now, now.AddDate(0, 0, withinDays))
}

func (s Service) RecentActivity(ctx context.Context, limit int) ([]ports.ActivityEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.Activity.ListRecentActivity(ctx, limit)
}

// ApplyContentLifecycleEvent folds one workflow event into the activity feed.
// Redelivered events are dropped by event ID.
func (s Service) ApplyContentLifecycleEvent(ctx context.Context, event ports.ContentLifecycleEvent) error {
	event.EventID = strings.TrimSpace(event.EventID)
	event.ContentID = strings.TrimSpace(event.ContentID)
	if event.EventID == "" || event.ContentID == "" {
		return domainerrors.ErrInvalidRequest
	}
	processed, err := s.EventDedup.HasProcessedEvent(ctx, event.EventID, s.now())
	if err != nil {
		return err
	}
	if processed {
		return nil
	}
	if err := s.Activity.AppendActivity(ctx, ports.ActivityEntry{
		EventID:    event.EventID,
		EventType:  event.EventType,
		ContentID:  event.ContentID,
		State:      event.State,
		OccurredAt: event.OccurredAt.UTC(),
	}); err != nil {
		return err
	}
	if err := s.EventDedup.MarkProcessedEvent(ctx, event.EventID, s.now().Add(s.eventDedupTTL())); err != nil {
		return err
	}

	resolveLogger(s.Logger).Debug("calendar activity recorded",
		"event", "calendar_activity_recorded",
		"module", "editorial/calendar-service",
		"layer", "application",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"content_id", event.ContentID,
	)
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) eventDedupTTL() time.Duration {
	if s.EventDedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.EventDedupTTL
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
