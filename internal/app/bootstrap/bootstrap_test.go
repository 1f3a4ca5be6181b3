package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	assignmentcommands "vellum/contexts/editorial/assignment-service/application/commands"
	assignmententities "vellum/contexts/editorial/assignment-service/domain/entities"
	assignmenterrors "vellum/contexts/editorial/assignment-service/domain/errors"
	reviewcommands "vellum/contexts/editorial/review-service/application/commands"
	registryapp "vellum/contexts/editorial/reviewer-registry/application"
	workflowcommands "vellum/contexts/editorial/workflow-service/application/commands"
	workflowentities "vellum/contexts/editorial/workflow-service/domain/entities"
	workflowerrors "vellum/contexts/editorial/workflow-service/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func registerReviewer(t *testing.T, m Modules, name string, rating float64) string {
	t.Helper()
	reviewer, err := m.Reviewers.Service.Register(context.Background(), registryapp.RegisterReviewerInput{
		DisplayName: name,
		Expertise:   []string{"mathematics"},
		Available:   true,
		Rating:      rating,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return reviewer.ReviewerID
}

func TestEditorialFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	modules := BuildInMemory(testLogger())

	alice := registerReviewer(t, modules, "Alice", 4.8)
	bruna := registerReviewer(t, modules, "Bruna", 4.2)

	item, err := modules.Workflow.Submit.Execute(ctx, workflowcommands.SubmitContentCommand{
		Title:       "Intro to Algebra",
		ContentType: "article",
		Category:    "Mathematics",
		AuthorID:    "author-1",
		Priority:    "high",
	})
	if err != nil {
		t.Fatalf("submit content: %v", err)
	}
	if item.State != workflowentities.StateQueued {
		t.Fatalf("state after submit = %s, want queued", item.State)
	}

	suggested, err := modules.Assignments.Suggest.Execute(ctx, item.ContentID, 5)
	if err != nil {
		t.Fatalf("suggest reviewers: %v", err)
	}
	if len(suggested) != 2 {
		t.Fatalf("suggested %d reviewers, want 2", len(suggested))
	}

	assignment, err := modules.Assignments.Assign.Execute(ctx, assignmentcommands.AssignContentCommand{
		ContentID:   item.ContentID,
		ReviewerIDs: []string{alice, bruna},
	})
	if err != nil {
		t.Fatalf("assign content: %v", err)
	}

	assigned, err := modules.Workflow.Queries.GetContent(ctx, item.ContentID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if assigned.State != workflowentities.StateAssigned {
		t.Fatalf("state after assign = %s, want assigned", assigned.State)
	}
	for _, id := range []string{alice, bruna} {
		reviewer, err := modules.Reviewers.Service.Get(ctx, id)
		if err != nil {
			t.Fatalf("get reviewer: %v", err)
		}
		if reviewer.Workload != 10 {
			t.Fatalf("reviewer %s workload = %d, want 10", id, reviewer.Workload)
		}
	}

	upcoming, err := modules.Calendar.Service.UpcomingDeadlines(ctx, 10)
	if err != nil {
		t.Fatalf("upcoming deadlines: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].AssignmentID != assignment.AssignmentID {
		t.Fatalf("upcoming deadlines = %+v, want the active assignment", upcoming)
	}

	if _, err := modules.Reviews.Submit.Execute(ctx, reviewcommands.SubmitReviewCommand{
		AssignmentID:   assignment.AssignmentID,
		ReviewerID:     alice,
		Recommendation: "accept",
		Scores:         map[string]float64{"clarity": 8},
	}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	inReview, err := modules.Workflow.Queries.GetContent(ctx, item.ContentID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if inReview.State != workflowentities.StateInReview {
		t.Fatalf("state after first review = %s, want in_review", inReview.State)
	}

	// One of two verdicts is in, so approval must still be blocked.
	_, err = modules.Workflow.Decisions.Approve(ctx, workflowcommands.ApproveContentCommand{
		ContentID: item.ContentID,
		EditorID:  "editor-1",
		Notes:     "looks good",
	})
	if !errors.Is(err, workflowerrors.ErrInsufficientReviews) {
		t.Fatalf("approve with pending reviews: %v, want ErrInsufficientReviews", err)
	}

	if _, err := modules.Reviews.Submit.Execute(ctx, reviewcommands.SubmitReviewCommand{
		AssignmentID:   assignment.AssignmentID,
		ReviewerID:     bruna,
		Recommendation: "accept",
		Scores:         map[string]float64{"clarity": 6},
	}); err != nil {
		t.Fatalf("second review: %v", err)
	}

	consolidated, err := modules.Reviews.Queries.Consolidated(ctx, assignment.AssignmentID)
	if err != nil {
		t.Fatalf("consolidated: %v", err)
	}
	if consolidated.Pending || consolidated.Overall != "accept" {
		t.Fatalf("consolidated = %+v, want complete accept", consolidated)
	}
	if consolidated.MeanScores["clarity"] != 7 {
		t.Fatalf("mean clarity = %v, want 7", consolidated.MeanScores["clarity"])
	}

	approved, err := modules.Workflow.Decisions.Approve(ctx, workflowcommands.ApproveContentCommand{
		ContentID: item.ContentID,
		EditorID:  "editor-1",
		Notes:     "ship it",
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.State != workflowentities.StateApproved {
		t.Fatalf("state after approve = %s, want approved", approved.State)
	}

	finished, err := modules.Assignments.Queries.Get(ctx, assignment.AssignmentID)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if finished.Status != assignmententities.StatusCompleted {
		t.Fatalf("assignment status = %s, want completed", finished.Status)
	}
	for _, id := range []string{alice, bruna} {
		reviewer, err := modules.Reviewers.Service.Get(ctx, id)
		if err != nil {
			t.Fatalf("get reviewer: %v", err)
		}
		if reviewer.Workload != 0 {
			t.Fatalf("reviewer %s workload = %d, want released to 0", id, reviewer.Workload)
		}
		if reviewer.CompletedReviews != 1 {
			t.Fatalf("reviewer %s completed reviews = %d, want 1", id, reviewer.CompletedReviews)
		}
	}
}

func TestAssignRejectsUnavailableReviewer(t *testing.T) {
	ctx := context.Background()
	modules := BuildInMemory(testLogger())

	dmitri := registerReviewer(t, modules, "Dmitri", 4.5)
	if _, err := modules.Reviewers.Service.SetAvailability(ctx, dmitri, false); err != nil {
		t.Fatalf("set availability: %v", err)
	}

	item, err := modules.Workflow.Submit.Execute(ctx, workflowcommands.SubmitContentCommand{
		Title:       "Group Theory Primer",
		ContentType: "article",
		Category:    "mathematics",
		AuthorID:    "author-3",
		Priority:    "medium",
	})
	if err != nil {
		t.Fatalf("submit content: %v", err)
	}

	_, err = modules.Assignments.Assign.Execute(ctx, assignmentcommands.AssignContentCommand{
		ContentID:   item.ContentID,
		ReviewerIDs: []string{dmitri},
	})
	if !errors.Is(err, assignmenterrors.ErrReviewerUnavailable) {
		t.Fatalf("assign to unavailable reviewer: %v, want ErrReviewerUnavailable", err)
	}

	reviewer, err := modules.Reviewers.Service.Get(ctx, dmitri)
	if err != nil {
		t.Fatalf("get reviewer: %v", err)
	}
	if reviewer.Workload != 0 {
		t.Fatalf("reviewer workload after failed assign = %d, want 0", reviewer.Workload)
	}
	content, err := modules.Workflow.Queries.GetContent(ctx, item.ContentID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if content.State != workflowentities.StateQueued {
		t.Fatalf("state after failed assign = %s, want queued", content.State)
	}
}

func TestUnassignReturnsContentToQueue(t *testing.T) {
	ctx := context.Background()
	modules := BuildInMemory(testLogger())

	carol := registerReviewer(t, modules, "Carol", 4.0)

	item, err := modules.Workflow.Submit.Execute(ctx, workflowcommands.SubmitContentCommand{
		Title:       "Limits and Continuity",
		ContentType: "article",
		Category:    "mathematics",
		AuthorID:    "author-2",
		Priority:    "medium",
	})
	if err != nil {
		t.Fatalf("submit content: %v", err)
	}
	if _, err := modules.Assignments.Assign.Execute(ctx, assignmentcommands.AssignContentCommand{
		ContentID:   item.ContentID,
		ReviewerIDs: []string{carol},
	}); err != nil {
		t.Fatalf("assign content: %v", err)
	}

	if _, err := modules.Assignments.Assign.Unassign(ctx, item.ContentID); err != nil {
		t.Fatalf("unassign: %v", err)
	}

	requeued, err := modules.Workflow.Queries.GetContent(ctx, item.ContentID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if requeued.State != workflowentities.StateQueued {
		t.Fatalf("state after unassign = %s, want queued", requeued.State)
	}
	reviewer, err := modules.Reviewers.Service.Get(ctx, carol)
	if err != nil {
		t.Fatalf("get reviewer: %v", err)
	}
	if reviewer.Workload != 0 {
		t.Fatalf("reviewer workload after unassign = %d, want 0", reviewer.Workload)
	}

	// The slot is free again, so a second assignment must succeed.
	if _, err := modules.Assignments.Assign.Execute(ctx, assignmentcommands.AssignContentCommand{
		ContentID:   item.ContentID,
		ReviewerIDs: []string{carol},
	}); err != nil {
		t.Fatalf("reassign: %v", err)
	}
}
