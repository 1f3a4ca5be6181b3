package commands_test

import (
	"context"
	"errors"
	"testing"

	"vellum/contexts/editorial/workflow-service/adapters/memory"
	"vellum/contexts/editorial/workflow-service/application/commands"
	"vellum/contexts/editorial/workflow-service/domain/entities"
	domainerrors "vellum/contexts/editorial/workflow-service/domain/errors"
	"vellum/contexts/editorial/workflow-service/ports"
	"vellum/internal/shared/locking"
)

type fakeAssignmentGateway struct {
	assignment ports.AssignmentInfo
	found      bool
	released   []string
}

func (g *fakeAssignmentGateway) ActiveAssignment(_ context.Context, _ string) (ports.AssignmentInfo, bool, error) {
	return g.assignment, g.found, nil
}

func (g *fakeAssignmentGateway) ReleaseForContent(_ context.Context, contentID string, reason string) error {
	g.released = append(g.released, contentID+":"+reason)
	return nil
}

type fakeReviewGateway struct {
	summary ports.RecommendationSummary
}

func (g *fakeReviewGateway) Consolidated(_ context.Context, _ string) (ports.RecommendationSummary, error) {
	return g.summary, nil
}

func newDecisionUseCase(
	store *memory.Store,
	assignments *fakeAssignmentGateway,
	reviews *fakeReviewGateway,
) commands.EditorialDecisionUseCase {
	return commands.EditorialDecisionUseCase{
		Repository:  store,
		Assignments: assignments,
		Reviews:     reviews,
		Clock:       store,
		IDGen:       store,
		Locks:       locking.NewKeyedMutex(),
	}
}

func seedInReview(t *testing.T, store *memory.Store, contentID string) {
	t.Helper()
	item := entities.ContentItem{
		ContentID:   contentID,
		Title:       "Intro to Algebra",
		ContentType: entities.ContentTypeCourse,
		Category:    "mathematics",
		AuthorID:    "author-1",
		Priority:    entities.PriorityHigh,
		State:       entities.StateInReview,
	}
	if err := store.CreateContent(context.Background(), item); err != nil {
		t.Fatalf("seed content: %v", err)
	}
}

func TestSubmitContentEnqueuesAutomatically(t *testing.T) {
	store := memory.NewStore(nil)
	uc := commands.SubmitContentUseCase{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Locks:      locking.NewKeyedMutex(),
	}

	item, err := uc.Execute(context.Background(), commands.SubmitContentCommand{
		Title:       "Intro to Algebra",
		ContentType: "course",
		Category:    "Mathematics",
		AuthorID:    "author-1",
		Priority:    "high",
	})
	if err != nil {
		t.Fatalf("submit content: %v", err)
	}
	if item.State != entities.StateQueued {
		t.Fatalf("expected submitted content to land in queued, got %s", item.State)
	}
	if item.Category != "mathematics" {
		t.Fatalf("expected category normalized to lowercase, got %q", item.Category)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "content.submitted" {
		t.Fatalf("expected one content.submitted outbox message, got %+v", pending)
	}
}

func TestSubmitContentRejectsInvalidInput(t *testing.T) {
	store := memory.NewStore(nil)
	uc := commands.SubmitContentUseCase{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Locks:      locking.NewKeyedMutex(),
	}

	_, err := uc.Execute(context.Background(), commands.SubmitContentCommand{
		Title:       "",
		ContentType: "course",
		Category:    "mathematics",
		AuthorID:    "author-1",
		Priority:    "high",
	})
	if !errors.Is(err, domainerrors.ErrInvalidContentInput) {
		t.Fatalf("expected ErrInvalidContentInput, got %v", err)
	}
}

func TestApproveRequiresQuorum(t *testing.T) {
	store := memory.NewStore(nil)
	seedInReview(t, store, "content-1")
	assignments := &fakeAssignmentGateway{
		assignment: ports.AssignmentInfo{
			AssignmentID: "assign-1",
			ContentID:    "content-1",
			ReviewerIDs:  []string{"rev-a", "rev-b"},
		},
		found: true,
	}
	reviews := &fakeReviewGateway{summary: ports.RecommendationSummary{
		Overall:     "accept",
		ReviewCount: 1,
	}}
	uc := newDecisionUseCase(store, assignments, reviews)

	_, err := uc.Approve(context.Background(), commands.ApproveContentCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "looks good",
	})
	if !errors.Is(err, domainerrors.ErrInsufficientReviews) {
		t.Fatalf("expected ErrInsufficientReviews, got %v", err)
	}
	if len(assignments.released) != 0 {
		t.Fatalf("expected no workload release on failed approval, got %v", assignments.released)
	}

	item, err := store.GetContent(context.Background(), "content-1")
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if item.State != entities.StateInReview {
		t.Fatalf("expected state unchanged on failed approval, got %s", item.State)
	}
}

func TestApproveHonorsConfiguredQuorum(t *testing.T) {
	store := memory.NewStore(nil)
	seedInReview(t, store, "content-1")
	assignments := &fakeAssignmentGateway{
		assignment: ports.AssignmentInfo{
			AssignmentID: "assign-1",
			ContentID:    "content-1",
			ReviewerIDs:  []string{"rev-a", "rev-b"},
		},
		found: true,
	}
	reviews := &fakeReviewGateway{summary: ports.RecommendationSummary{
		Overall:     "accept",
		ReviewCount: 1,
	}}
	uc := newDecisionUseCase(store, assignments, reviews)
	uc.Quorum = 1

	item, err := uc.Approve(context.Background(), commands.ApproveContentCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "fast-tracked",
	})
	if err != nil {
		t.Fatalf("approve with quorum of one: %v", err)
	}
	if item.State != entities.StateApproved {
		t.Fatalf("expected approved, got %s", item.State)
	}
	if len(assignments.released) != 1 || assignments.released[0] != "content-1:completed" {
		t.Fatalf("expected completed release for content-1, got %v", assignments.released)
	}
}

func TestApproveGatesOnConsolidatedRecommendation(t *testing.T) {
	store := memory.NewStore(nil)
	seedInReview(t, store, "content-1")
	assignments := &fakeAssignmentGateway{
		assignment: ports.AssignmentInfo{
			AssignmentID: "assign-1",
			ContentID:    "content-1",
			ReviewerIDs:  []string{"rev-a", "rev-b"},
		},
		found: true,
	}
	reviews := &fakeReviewGateway{summary: ports.RecommendationSummary{
		Overall:     "major_revision",
		ReviewCount: 2,
	}}
	uc := newDecisionUseCase(store, assignments, reviews)

	_, err := uc.Approve(context.Background(), commands.ApproveContentCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "ship it",
	})
	if !errors.Is(err, domainerrors.ErrRecommendationTooLow) {
		t.Fatalf("expected ErrRecommendationTooLow, got %v", err)
	}
}

func TestApproveReleasesReviewerWorkload(t *testing.T) {
	store := memory.NewStore(nil)
	seedInReview(t, store, "content-1")
	assignments := &fakeAssignmentGateway{
		assignment: ports.AssignmentInfo{
			AssignmentID: "assign-1",
			ContentID:    "content-1",
			ReviewerIDs:  []string{"rev-a", "rev-b"},
		},
		found: true,
	}
	reviews := &fakeReviewGateway{summary: ports.RecommendationSummary{
		Overall:     "minor_revision",
		ReviewCount: 2,
	}}
	uc := newDecisionUseCase(store, assignments, reviews)

	item, err := uc.Approve(context.Background(), commands.ApproveContentCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "approved with small edits",
	})
	if err != nil {
		t.Fatalf("approve content: %v", err)
	}
	if item.State != entities.StateApproved {
		t.Fatalf("expected approved, got %s", item.State)
	}
	if item.ApprovedAt == nil || item.ApprovedByUserID != "editor-1" {
		t.Fatalf("expected approval metadata recorded, got %+v", item)
	}
	if len(assignments.released) != 1 || assignments.released[0] != "content-1:completed" {
		t.Fatalf("expected completed release for content-1, got %v", assignments.released)
	}
}

func TestApproveRequiresNotes(t *testing.T) {
	store := memory.NewStore(nil)
	seedInReview(t, store, "content-1")
	uc := newDecisionUseCase(store, &fakeAssignmentGateway{}, &fakeReviewGateway{})

	_, err := uc.Approve(context.Background(), commands.ApproveContentCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "   ",
	})
	if !errors.Is(err, domainerrors.ErrNotesRequired) {
		t.Fatalf("expected ErrNotesRequired, got %v", err)
	}
}

func TestRejectIsEditorOverride(t *testing.T) {
	store := memory.NewStore(nil)
	seedInReview(t, store, "content-1")
	assignments := &fakeAssignmentGateway{}
	reviews := &fakeReviewGateway{summary: ports.RecommendationSummary{
		Overall:     "accept",
		Pending:     true,
		ReviewCount: 0,
	}}
	uc := newDecisionUseCase(store, assignments, reviews)

	item, err := uc.Reject(context.Background(), commands.RejectContentCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "out of editorial scope",
	})
	if err != nil {
		t.Fatalf("reject content: %v", err)
	}
	if item.State != entities.StateRejected {
		t.Fatalf("expected rejected, got %s", item.State)
	}
	if len(assignments.released) != 1 || assignments.released[0] != "content-1:completed" {
		t.Fatalf("expected completed release for content-1, got %v", assignments.released)
	}
}

func TestRequestRevisionWithdrawsAssignment(t *testing.T) {
	store := memory.NewStore(nil)
	seedInReview(t, store, "content-1")
	assignments := &fakeAssignmentGateway{}
	uc := newDecisionUseCase(store, assignments, &fakeReviewGateway{})

	item, err := uc.RequestRevision(context.Background(), commands.RequestRevisionCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "rework section 3",
	})
	if err != nil {
		t.Fatalf("request revision: %v", err)
	}
	if item.State != entities.StateRevisionRequested {
		t.Fatalf("expected revision_requested, got %s", item.State)
	}
	if len(assignments.released) != 1 || assignments.released[0] != "content-1:withdrawn" {
		t.Fatalf("expected withdrawn release for content-1, got %v", assignments.released)
	}
}

func TestApproveOutsideInReviewReportsTransitionDetail(t *testing.T) {
	store := memory.NewStore(nil)
	item := entities.ContentItem{
		ContentID:   "content-1",
		Title:       "Intro to Algebra",
		ContentType: entities.ContentTypeCourse,
		Category:    "mathematics",
		AuthorID:    "author-1",
		Priority:    entities.PriorityHigh,
		State:       entities.StateQueued,
	}
	if err := store.CreateContent(context.Background(), item); err != nil {
		t.Fatalf("seed content: %v", err)
	}
	uc := newDecisionUseCase(store, &fakeAssignmentGateway{}, &fakeReviewGateway{})

	_, err := uc.Approve(context.Background(), commands.ApproveContentCommand{
		ContentID: "content-1",
		EditorID:  "editor-1",
		Notes:     "premature",
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var transitionErr *domainerrors.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected TransitionError, got %T", err)
	}
	if transitionErr.ContentID != "content-1" || transitionErr.From != "queued" || transitionErr.Trigger != "approve" {
		t.Fatalf("unexpected transition detail: %+v", transitionErr)
	}
}

func TestResubmitRequeuesRevisedContent(t *testing.T) {
	store := memory.NewStore(nil)
	item := entities.ContentItem{
		ContentID:     "content-1",
		Title:         "Intro to Algebra",
		ContentType:   entities.ContentTypeCourse,
		Category:      "mathematics",
		AuthorID:      "author-1",
		Priority:      entities.PriorityHigh,
		State:         entities.StateRevisionRequested,
		RevisionCount: 1,
	}
	if err := store.CreateContent(context.Background(), item); err != nil {
		t.Fatalf("seed content: %v", err)
	}
	uc := commands.SubmitContentUseCase{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Locks:      locking.NewKeyedMutex(),
	}

	revised, err := uc.Resubmit(context.Background(), "content-1")
	if err != nil {
		t.Fatalf("resubmit content: %v", err)
	}
	if revised.State != entities.StateQueued {
		t.Fatalf("expected resubmitted content in queued, got %s", revised.State)
	}
	if revised.RevisionCount != 2 {
		t.Fatalf("expected revision count incremented to 2, got %d", revised.RevisionCount)
	}
	if revised.RevisionRequestedAt != nil {
		t.Fatalf("expected revision marker cleared on resubmit")
	}
}
