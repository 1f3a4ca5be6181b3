package commands_test

import (
	"context"
	"errors"
	"testing"

	"vellum/contexts/editorial/review-service/adapters/memory"
	"vellum/contexts/editorial/review-service/application/commands"
	"vellum/contexts/editorial/review-service/application/queries"
	"vellum/contexts/editorial/review-service/domain/entities"
	domainerrors "vellum/contexts/editorial/review-service/domain/errors"
	"vellum/contexts/editorial/review-service/ports"
	"vellum/internal/shared/locking"
)

type fakeAssignmentGateway struct {
	assignment ports.AssignmentInfo
	err        error
}

func (g *fakeAssignmentGateway) GetAssignment(_ context.Context, _ string) (ports.AssignmentInfo, error) {
	if g.err != nil {
		return ports.AssignmentInfo{}, g.err
	}
	return g.assignment, nil
}

type fakeWorkflowGateway struct {
	startCalls int
}

func (g *fakeWorkflowGateway) StartReview(_ context.Context, _ string) error {
	g.startCalls++
	return nil
}

type fakeReviewerGateway struct {
	recorded []string
}

func (g *fakeReviewerGateway) RecordCompletedReview(_ context.Context, reviewerID string, rejected bool) error {
	suffix := ":accepted"
	if rejected {
		suffix = ":rejected"
	}
	g.recorded = append(g.recorded, reviewerID+suffix)
	return nil
}

func activeAssignment() ports.AssignmentInfo {
	return ports.AssignmentInfo{
		AssignmentID: "assign-1",
		ContentID:    "content-1",
		ReviewerIDs:  []string{"rev-a", "rev-b"},
		Active:       true,
	}
}

func newSubmitUseCase(
	store *memory.Store,
	assignments *fakeAssignmentGateway,
	workflow *fakeWorkflowGateway,
	reviewers *fakeReviewerGateway,
) commands.SubmitReviewUseCase {
	return commands.SubmitReviewUseCase{
		Repository:  store,
		Assignments: assignments,
		Workflow:    workflow,
		Reviewers:   reviewers,
		Clock:       store,
		IDGen:       store,
		Locks:       locking.NewKeyedMutex(),
	}
}

func TestSubmitReviewStartsReviewOnFirstVerdict(t *testing.T) {
	store := memory.NewStore(nil)
	workflow := &fakeWorkflowGateway{}
	reviewers := &fakeReviewerGateway{}
	uc := newSubmitUseCase(store, &fakeAssignmentGateway{assignment: activeAssignment()}, workflow, reviewers)

	result, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "accept",
		Scores:         map[string]float64{"clarity": 8},
		Comments:       "solid work",
	})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if result.WasUpdate {
		t.Fatalf("expected first submission, got update")
	}
	if workflow.startCalls != 1 {
		t.Fatalf("expected one start-review call, got %d", workflow.startCalls)
	}
	if len(reviewers.recorded) != 1 || reviewers.recorded[0] != "rev-a:accepted" {
		t.Fatalf("expected accepted track record for rev-a, got %v", reviewers.recorded)
	}
}

func TestSubmitReviewOverwritesWithoutDoubleCounting(t *testing.T) {
	store := memory.NewStore(nil)
	workflow := &fakeWorkflowGateway{}
	reviewers := &fakeReviewerGateway{}
	uc := newSubmitUseCase(store, &fakeAssignmentGateway{assignment: activeAssignment()}, workflow, reviewers)

	first, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "accept",
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "major_revision",
		Comments:       "changed my mind after section 4",
	})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !second.WasUpdate {
		t.Fatalf("expected overwrite flagged as update")
	}
	if second.Review.ReviewID != first.Review.ReviewID {
		t.Fatalf("expected overwrite to keep review identity")
	}
	if workflow.startCalls != 1 {
		t.Fatalf("expected start-review fired once, got %d", workflow.startCalls)
	}
	if len(reviewers.recorded) != 1 {
		t.Fatalf("expected track record counted once, got %v", reviewers.recorded)
	}

	reviews, err := store.ListByAssignment(context.Background(), "assign-1")
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Recommendation != entities.RecommendationMajorRevision {
		t.Fatalf("expected one overwritten review, got %+v", reviews)
	}
}

func TestSubmitReviewRejectsUnassignedReviewer(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newSubmitUseCase(store, &fakeAssignmentGateway{assignment: activeAssignment()}, &fakeWorkflowGateway{}, &fakeReviewerGateway{})

	_, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-z",
		Recommendation: "accept",
	})
	if !errors.Is(err, domainerrors.ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}
}

func TestSubmitReviewRejectsInactiveAssignment(t *testing.T) {
	store := memory.NewStore(nil)
	inactive := activeAssignment()
	inactive.Active = false
	uc := newSubmitUseCase(store, &fakeAssignmentGateway{assignment: inactive}, &fakeWorkflowGateway{}, &fakeReviewerGateway{})

	_, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "accept",
	})
	if !errors.Is(err, domainerrors.ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}
}

func TestSubmitReviewValidatesScoresAndRecommendation(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newSubmitUseCase(store, &fakeAssignmentGateway{assignment: activeAssignment()}, &fakeWorkflowGateway{}, &fakeReviewerGateway{})

	_, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "approve",
	})
	if !errors.Is(err, domainerrors.ErrInvalidReviewInput) {
		t.Fatalf("expected ErrInvalidReviewInput, got %v", err)
	}

	_, err = uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "accept",
		Scores:         map[string]float64{"clarity": 11},
	})
	if !errors.Is(err, domainerrors.ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange, got %v", err)
	}
}

// faultyRepository fails review lookups with an infrastructure error while
// counting upserts, so tests can assert nothing was written.
type faultyRepository struct {
	lookupErr error
	upserts   int
}

func (r *faultyRepository) UpsertReview(_ context.Context, _ entities.Review) (bool, error) {
	r.upserts++
	return false, nil
}

func (r *faultyRepository) GetReviewByIdentity(_ context.Context, _, _ string) (entities.Review, error) {
	return entities.Review{}, r.lookupErr
}

func (r *faultyRepository) ListByAssignment(_ context.Context, _ string) ([]entities.Review, error) {
	return nil, nil
}

func TestSubmitReviewPropagatesLookupFailure(t *testing.T) {
	store := memory.NewStore(nil)
	lookupErr := errors.New("connection reset")
	repo := &faultyRepository{lookupErr: lookupErr}
	uc := newSubmitUseCase(store, &fakeAssignmentGateway{assignment: activeAssignment()}, &fakeWorkflowGateway{}, &fakeReviewerGateway{})
	uc.Repository = repo

	_, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "accept",
	})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup failure to surface, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no write after failed lookup, got %d upserts", repo.upserts)
	}
}

func TestConsolidatedTracksSubmittedReviews(t *testing.T) {
	store := memory.NewStore(nil)
	assignments := &fakeAssignmentGateway{assignment: activeAssignment()}
	uc := newSubmitUseCase(store, assignments, &fakeWorkflowGateway{}, &fakeReviewerGateway{})
	queryUC := queries.QueryUseCase{Repository: store, Assignments: assignments}

	consolidated, err := queryUC.Consolidated(context.Background(), "assign-1")
	if err != nil {
		t.Fatalf("consolidated: %v", err)
	}
	if !consolidated.Pending || consolidated.ReviewCount != 0 {
		t.Fatalf("expected pending before any review, got %+v", consolidated)
	}

	if _, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-a",
		Recommendation: "accept",
	}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	consolidated, err = queryUC.Consolidated(context.Background(), "assign-1")
	if err != nil {
		t.Fatalf("consolidated: %v", err)
	}
	if consolidated.Pending || consolidated.ReviewCount != 1 {
		t.Fatalf("expected advice from the first review, got %+v", consolidated)
	}

	if _, err := uc.Execute(context.Background(), commands.SubmitReviewCommand{
		AssignmentID:   "assign-1",
		ReviewerID:     "rev-b",
		Recommendation: "reject",
	}); err != nil {
		t.Fatalf("second review: %v", err)
	}
	consolidated, err = queryUC.Consolidated(context.Background(), "assign-1")
	if err != nil {
		t.Fatalf("consolidated: %v", err)
	}
	if consolidated.Pending {
		t.Fatalf("expected consolidation complete")
	}
	if consolidated.Overall != entities.RecommendationReject {
		t.Fatalf("expected accept/reject tie to resolve to reject, got %s", consolidated.Overall)
	}
}
