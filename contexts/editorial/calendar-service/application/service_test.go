package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vellum/contexts/editorial/calendar-service/adapters/memory"
	"vellum/contexts/editorial/calendar-service/application"
	domainerrors "vellum/contexts/editorial/calendar-service/domain/errors"
	"vellum/contexts/editorial/calendar-service/ports"
)

type fakeDeadlineSource struct {
	entries []ports.DeadlineEntry
}

func (f fakeDeadlineSource) DueBetween(_ context.Context, from, to time.Time) ([]ports.DeadlineEntry, error) {
	result := make([]ports.DeadlineEntry, 0, len(f.entries))
	for _, entry := range f.entries {
		if entry.Deadline.Before(from) || entry.Deadline.After(to) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func newService(deadlines fakeDeadlineSource) (application.Service, *memory.Store) {
	store := memory.NewStore(0)
	return application.Service{
		Deadlines:  deadlines,
		Activity:   store,
		EventDedup: store,
		Clock:      store,
	}, store
}

func TestCalendarEventsBucketsByDay(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)
	service, _ := newService(fakeDeadlineSource{entries: []ports.DeadlineEntry{
		{AssignmentID: "assign-1", ContentID: "content-1", Deadline: day1},
		{AssignmentID: "assign-2", ContentID: "content-2", Deadline: day1.Add(4 * time.Hour)},
		{AssignmentID: "assign-3", ContentID: "content-3", Deadline: day2},
	}})

	buckets, err := service.CalendarEvents(context.Background(), day1.AddDate(0, 0, -1), day2.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("calendar events: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected two day buckets, got %d", len(buckets))
	}
	if buckets[0].Day != "2026-03-10" || len(buckets[0].Deadlines) != 2 {
		t.Fatalf("expected two deadlines on 2026-03-10, got %+v", buckets[0])
	}
	if buckets[1].Day != "2026-03-12" || len(buckets[1].Deadlines) != 1 {
		t.Fatalf("expected one deadline on 2026-03-12, got %+v", buckets[1])
	}
}

func TestCalendarEventsRejectsInvertedWindow(t *testing.T) {
	service, _ := newService(fakeDeadlineSource{})
	from := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	_, err := service.CalendarEvents(context.Background(), from, from.AddDate(0, 0, -1))
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestApplyContentLifecycleEventDeduplicates(t *testing.T) {
	service, _ := newService(fakeDeadlineSource{})
	event := ports.ContentLifecycleEvent{
		EventID:    "event-1",
		EventType:  "content.approved",
		ContentID:  "content-1",
		State:      "approved",
		OccurredAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	if err := service.ApplyContentLifecycleEvent(context.Background(), event); err != nil {
		t.Fatalf("apply event: %v", err)
	}
	if err := service.ApplyContentLifecycleEvent(context.Background(), event); err != nil {
		t.Fatalf("redelivered event: %v", err)
	}

	activity, err := service.RecentActivity(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(activity) != 1 {
		t.Fatalf("expected redelivery dropped, got %d entries", len(activity))
	}
	if activity[0].EventType != "content.approved" {
		t.Fatalf("unexpected activity entry: %+v", activity[0])
	}
}

func TestRecentActivityReturnsNewestFirst(t *testing.T) {
	service, _ := newService(fakeDeadlineSource{})
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, eventType := range []string{"content.submitted", "content.assigned", "content.review_started"} {
		err := service.ApplyContentLifecycleEvent(context.Background(), ports.ContentLifecycleEvent{
			EventID:    "event-" + eventType,
			EventType:  eventType,
			ContentID:  "content-1",
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("apply %s: %v", eventType, err)
		}
	}

	activity, err := service.RecentActivity(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(activity) != 2 {
		t.Fatalf("expected limit honored, got %d", len(activity))
	}
	if activity[0].EventType != "content.review_started" || activity[1].EventType != "content.assigned" {
		t.Fatalf("expected newest first, got %+v", activity)
	}
}
