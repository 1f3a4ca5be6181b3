package bootstrap

import (
	"context"
	"errors"
	"time"

	assignmentservice "vellum/contexts/editorial/assignment-service"
	assignmenterrors "vellum/contexts/editorial/assignment-service/domain/errors"
	assignmentports "vellum/contexts/editorial/assignment-service/ports"
	calendarports "vellum/contexts/editorial/calendar-service/ports"
	reviewservice "vellum/contexts/editorial/review-service"
	reviewports "vellum/contexts/editorial/review-service/ports"
	registryapp "vellum/contexts/editorial/reviewer-registry/application"
	workflowservice "vellum/contexts/editorial/workflow-service"
	workflowports "vellum/contexts/editorial/workflow-service/ports"
)

// The gateway adapters below bridge context boundaries in-process. Each
// service declares the interface it consumes in its own ports package; the
// composition root is the only place that knows both sides. Adapters hold
// module pointers so mutually dependent modules can be built in sequence.

type contentGatewayAdapter struct {
	workflow *workflowservice.Module
}

func (g *contentGatewayAdapter) GetContentInfo(ctx context.Context, contentID string) (assignmentports.ContentInfo, error) {
	item, err := g.workflow.Queries.GetContent(ctx, contentID)
	if err != nil {
		return assignmentports.ContentInfo{}, err
	}
	return assignmentports.ContentInfo{
		ContentID: item.ContentID,
		State:     string(item.State),
		Category:  item.Category,
		Priority:  string(item.Priority),
	}, nil
}

func (g *contentGatewayAdapter) MarkAssigned(ctx context.Context, contentID string) error {
	return g.workflow.Lifecycle.MarkAssigned(ctx, contentID)
}

func (g *contentGatewayAdapter) MarkQueued(ctx context.Context, contentID string) error {
	return g.workflow.Lifecycle.MarkQueued(ctx, contentID)
}

type reviewerGatewayAdapter struct {
	registry registryapp.Service
}

func (g *reviewerGatewayAdapter) AvailableReviewers(ctx context.Context, expertise string, minCapacity int) ([]assignmentports.ReviewerInfo, error) {
	reviewers, err := g.registry.ListAvailable(ctx, expertise, minCapacity)
	if err != nil {
		return nil, err
	}
	result := make([]assignmentports.ReviewerInfo, 0, len(reviewers))
	for _, reviewer := range reviewers {
		result = append(result, assignmentports.ReviewerInfo{
			ReviewerID:   reviewer.ReviewerID,
			Expertise:    append([]string(nil), reviewer.Expertise...),
			Available:    reviewer.Available,
			Workload:     reviewer.Workload,
			Rating:       reviewer.Rating,
			LastActiveAt: reviewer.LastActiveAt,
		})
	}
	return result, nil
}

func (g *reviewerGatewayAdapter) Reserve(ctx context.Context, reviewerID string, cost int) error {
	_, err := g.registry.Reserve(ctx, reviewerID, cost)
	return err
}

func (g *reviewerGatewayAdapter) Release(ctx context.Context, reviewerID string, cost int) error {
	_, err := g.registry.Release(ctx, reviewerID, cost)
	return err
}

type assignmentGatewayAdapter struct {
	assignments *assignmentservice.Module
}

func (g *assignmentGatewayAdapter) ActiveAssignment(ctx context.Context, contentID string) (workflowports.AssignmentInfo, bool, error) {
	assignment, err := g.assignments.Queries.ActiveByContent(ctx, contentID)
	if err != nil {
		if errors.Is(err, assignmenterrors.ErrNoActiveAssignment) {
			return workflowports.AssignmentInfo{}, false, nil
		}
		return workflowports.AssignmentInfo{}, false, err
	}
	return workflowports.AssignmentInfo{
		AssignmentID: assignment.AssignmentID,
		ContentID:    assignment.ContentID,
		ReviewerIDs:  append([]string(nil), assignment.ReviewerIDs...),
		Deadline:     assignment.Deadline,
	}, true, nil
}

func (g *assignmentGatewayAdapter) ReleaseForContent(ctx context.Context, contentID string, reason string) error {
	return g.assignments.Assign.ReleaseForContent(ctx, contentID, reason)
}

type reviewGatewayAdapter struct {
	reviews *reviewservice.Module
}

func (g *reviewGatewayAdapter) Consolidated(ctx context.Context, assignmentID string) (workflowports.RecommendationSummary, error) {
	consolidated, err := g.reviews.Queries.Consolidated(ctx, assignmentID)
	if err != nil {
		return workflowports.RecommendationSummary{}, err
	}
	return workflowports.RecommendationSummary{
		Overall:     string(consolidated.Overall),
		Pending:     consolidated.Pending,
		ReviewCount: consolidated.ReviewCount,
		MeanScores:  consolidated.MeanScores,
	}, nil
}

type reviewAssignmentGatewayAdapter struct {
	assignments *assignmentservice.Module
}

func (g *reviewAssignmentGatewayAdapter) GetAssignment(ctx context.Context, assignmentID string) (reviewports.AssignmentInfo, error) {
	assignment, err := g.assignments.Queries.Get(ctx, assignmentID)
	if err != nil {
		return reviewports.AssignmentInfo{}, err
	}
	return reviewports.AssignmentInfo{
		AssignmentID: assignment.AssignmentID,
		ContentID:    assignment.ContentID,
		ReviewerIDs:  append([]string(nil), assignment.ReviewerIDs...),
		Active:       assignment.Active(),
	}, nil
}

type workflowGatewayAdapter struct {
	workflow *workflowservice.Module
}

func (g *workflowGatewayAdapter) StartReview(ctx context.Context, contentID string) error {
	return g.workflow.Lifecycle.StartReview(ctx, contentID)
}

type reviewerTrackRecordAdapter struct {
	registry registryapp.Service
}

func (g *reviewerTrackRecordAdapter) RecordCompletedReview(ctx context.Context, reviewerID string, rejected bool) error {
	return g.registry.RecordCompletedReview(ctx, reviewerID, rejected)
}

type deadlineSourceAdapter struct {
	assignments *assignmentservice.Module
}

func (g *deadlineSourceAdapter) DueBetween(ctx context.Context, from, to time.Time) ([]calendarports.DeadlineEntry, error) {
	assignments, err := g.assignments.Queries.DueBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	entries := make([]calendarports.DeadlineEntry, 0, len(assignments))
	for _, assignment := range assignments {
		entries = append(entries, calendarports.DeadlineEntry{
			AssignmentID: assignment.AssignmentID,
			ContentID:    assignment.ContentID,
			ReviewerIDs:  append([]string(nil), assignment.ReviewerIDs...),
			Deadline:     assignment.Deadline,
			Overdue:      assignment.Overdue,
		})
	}
	return entries, nil
}
