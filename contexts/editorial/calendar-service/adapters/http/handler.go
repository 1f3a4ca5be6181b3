package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"vellum/contexts/editorial/calendar-service/application"
	"vellum/contexts/editorial/calendar-service/ports"
	httptransport "vellum/contexts/editorial/calendar-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CalendarHandler(ctx context.Context, from, to time.Time) (httptransport.CalendarResponse, error) {
	buckets, err := h.Service.CalendarEvents(ctx, from, to)
	if err != nil {
		return httptransport.CalendarResponse{}, err
	}
	days := make([]httptransport.DayBucketDTO, 0, len(buckets))
	for _, bucket := range buckets {
		days = append(days, httptransport.DayBucketDTO{
			Day:       bucket.Day,
			Deadlines: mapDeadlines(bucket.Deadlines),
		})
	}
	return httptransport.CalendarResponse{Days: days}, nil
}

func (h Handler) UpcomingDeadlinesHandler(ctx context.Context, withinDays int) (httptransport.UpcomingDeadlinesResponse, error) {
	items, err := h.Service.UpcomingDeadlines(ctx, withinDays)
	if err != nil {
		return httptransport.UpcomingDeadlinesResponse{}, err
	}
	return httptransport.UpcomingDeadlinesResponse{Items: mapDeadlines(items)}, nil
}

func (h Handler) RecentActivityHandler(ctx context.Context, limit int) (httptransport.RecentActivityResponse, error) {
	entries, err := h.Service.RecentActivity(ctx, limit)
	if err != nil {
		return httptransport.RecentActivityResponse{}, err
	}
	items := make([]httptransport.ActivityDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.ActivityDTO{
			EventID:    entry.EventID,
			EventType:  entry.EventType,
			ContentID:  entry.ContentID,
			State:      entry.State,
			OccurredAt: entry.OccurredAt.Format(time.RFC3339),
		})
	}
	return httptransport.RecentActivityResponse{Items: items}, nil
}

func mapDeadlines(entries []ports.DeadlineEntry) []httptransport.DeadlineDTO {
	items := make([]httptransport.DeadlineDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.DeadlineDTO{
			AssignmentID: entry.AssignmentID,
			ContentID:    entry.ContentID,
			ReviewerIDs:  append([]string(nil), entry.ReviewerIDs...),
			Deadline:     entry.Deadline.Format(time.RFC3339),
			Overdue:      entry.Overdue,
		})
	}
	return items
}
