package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vellum/contexts/editorial/assignment-service/adapters/memory"
	"vellum/contexts/editorial/assignment-service/application/commands"
	"vellum/contexts/editorial/assignment-service/application/workers"
	"vellum/contexts/editorial/assignment-service/domain/entities"
	domainerrors "vellum/contexts/editorial/assignment-service/domain/errors"
	"vellum/contexts/editorial/assignment-service/ports"
	"vellum/internal/shared/locking"
)

type fakeContentGateway struct {
	state           string
	category        string
	failMarkAssign  bool
	assignedCalls   int
	queuedCalls     int
	failMarkAssignE error
}

func (g *fakeContentGateway) GetContentInfo(_ context.Context, contentID string) (ports.ContentInfo, error) {
	return ports.ContentInfo{
		ContentID: contentID,
		State:     g.state,
		Category:  g.category,
		Priority:  "high",
	}, nil
}

func (g *fakeContentGateway) MarkAssigned(_ context.Context, _ string) error {
	if g.failMarkAssign {
		if g.failMarkAssignE != nil {
			return g.failMarkAssignE
		}
		return errors.New("mark assigned failed")
	}
	g.assignedCalls++
	return nil
}

func (g *fakeContentGateway) MarkQueued(_ context.Context, _ string) error {
	g.queuedCalls++
	return nil
}

type fakeReviewerGateway struct {
	workloads   map[string]int
	unavailable map[string]bool
	candidates  []ports.ReviewerInfo
}

func newFakeReviewerGateway() *fakeReviewerGateway {
	return &fakeReviewerGateway{
		workloads:   make(map[string]int),
		unavailable: make(map[string]bool),
	}
}

func (g *fakeReviewerGateway) AvailableReviewers(_ context.Context, _ string, _ int) ([]ports.ReviewerInfo, error) {
	return g.candidates, nil
}

func (g *fakeReviewerGateway) Reserve(_ context.Context, reviewerID string, cost int) error {
	if g.unavailable[reviewerID] {
		return domainerrors.ErrReviewerUnavailable
	}
	g.workloads[reviewerID] += cost
	return nil
}

func (g *fakeReviewerGateway) Release(_ context.Context, reviewerID string, cost int) error {
	g.workloads[reviewerID] -= cost
	return nil
}

func newAssignUseCase(store *memory.Store, content *fakeContentGateway, reviewers *fakeReviewerGateway) commands.AssignUseCase {
	return commands.AssignUseCase{
		Repository: store,
		Content:    content,
		Reviewers:  reviewers,
		Clock:      store,
		IDGen:      store,
		Locks:      locking.NewKeyedMutex(),
	}
}

func TestAssignReservesAllReviewers(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "queued", category: "mathematics"}
	reviewers := newFakeReviewerGateway()
	uc := newAssignUseCase(store, content, reviewers)

	assignment, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a", "rev-b"},
	})
	if err != nil {
		t.Fatalf("assign content: %v", err)
	}
	if assignment.Status != entities.StatusActive {
		t.Fatalf("expected active assignment, got %s", assignment.Status)
	}
	if reviewers.workloads["rev-a"] != 10 || reviewers.workloads["rev-b"] != 10 {
		t.Fatalf("expected default workload cost reserved per reviewer, got %v", reviewers.workloads)
	}
	if content.assignedCalls != 1 {
		t.Fatalf("expected one mark-assigned call, got %d", content.assignedCalls)
	}
	if assignment.Deadline.Sub(assignment.CreatedAt) != 7*24*time.Hour {
		t.Fatalf("expected seven day review window, got %s", assignment.Deadline.Sub(assignment.CreatedAt))
	}
}

func TestAssignRejectsDuplicateReviewerBeforeReserving(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "queued"}
	reviewers := newFakeReviewerGateway()
	uc := newAssignUseCase(store, content, reviewers)

	_, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a", "rev-a"},
	})
	if !errors.Is(err, domainerrors.ErrDuplicateReviewer) {
		t.Fatalf("expected ErrDuplicateReviewer, got %v", err)
	}
	if len(reviewers.workloads) != 0 {
		t.Fatalf("expected no reservations, got %v", reviewers.workloads)
	}
}

func TestAssignRollsBackWhenOneReviewerUnavailable(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "queued"}
	reviewers := newFakeReviewerGateway()
	reviewers.unavailable["rev-b"] = true
	uc := newAssignUseCase(store, content, reviewers)

	_, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a", "rev-b"},
	})
	if !errors.Is(err, domainerrors.ErrReviewerUnavailable) {
		t.Fatalf("expected ErrReviewerUnavailable, got %v", err)
	}
	if reviewers.workloads["rev-a"] != 0 {
		t.Fatalf("expected rev-a reservation rolled back, got %d", reviewers.workloads["rev-a"])
	}
	if _, exists, _ := store.GetActiveByContent(context.Background(), "content-1"); exists {
		t.Fatalf("expected no assignment persisted after rollback")
	}
}

func TestAssignRollsBackWhenContentTransitionFails(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "queued", failMarkAssign: true}
	reviewers := newFakeReviewerGateway()
	uc := newAssignUseCase(store, content, reviewers)

	_, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a"},
	})
	if err == nil {
		t.Fatalf("expected error when content transition fails")
	}
	if reviewers.workloads["rev-a"] != 0 {
		t.Fatalf("expected reservation rolled back, got %d", reviewers.workloads["rev-a"])
	}
	if _, exists, _ := store.GetActiveByContent(context.Background(), "content-1"); exists {
		t.Fatalf("expected no active assignment after rollback")
	}
}

func TestAssignRequiresQueuedContent(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "in_review"}
	uc := newAssignUseCase(store, content, newFakeReviewerGateway())

	_, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidContentState) {
		t.Fatalf("expected ErrInvalidContentState, got %v", err)
	}
}

func TestAssignRejectsSecondActiveAssignment(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "queued"}
	reviewers := newFakeReviewerGateway()
	uc := newAssignUseCase(store, content, reviewers)

	if _, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a"},
	}); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	_, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-b"},
	})
	if !errors.Is(err, domainerrors.ErrActiveAssignmentExists) {
		t.Fatalf("expected ErrActiveAssignmentExists, got %v", err)
	}
}

func TestUnassignReleasesWorkloadAndAllowsReassign(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "queued"}
	reviewers := newFakeReviewerGateway()
	uc := newAssignUseCase(store, content, reviewers)

	if _, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a", "rev-b"},
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	withdrawn, err := uc.Unassign(context.Background(), "content-1")
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if withdrawn.Status != entities.StatusWithdrawn {
		t.Fatalf("expected withdrawn, got %s", withdrawn.Status)
	}
	if reviewers.workloads["rev-a"] != 0 || reviewers.workloads["rev-b"] != 0 {
		t.Fatalf("expected workload released, got %v", reviewers.workloads)
	}
	if content.queuedCalls != 1 {
		t.Fatalf("expected content requeued once, got %d", content.queuedCalls)
	}

	if _, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-c"},
	}); err != nil {
		t.Fatalf("reassign after unassign: %v", err)
	}
}

func TestReleaseForContentCompletesAssignment(t *testing.T) {
	store := memory.NewStore(nil)
	content := &fakeContentGateway{state: "queued"}
	reviewers := newFakeReviewerGateway()
	uc := newAssignUseCase(store, content, reviewers)

	created, err := uc.Execute(context.Background(), commands.AssignContentCommand{
		ContentID:   "content-1",
		ReviewerIDs: []string{"rev-a"},
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := uc.ReleaseForContent(context.Background(), "content-1", "completed"); err != nil {
		t.Fatalf("release for content: %v", err)
	}
	assignment, err := store.GetAssignment(context.Background(), created.AssignmentID)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if assignment.Status != entities.StatusCompleted {
		t.Fatalf("expected completed, got %s", assignment.Status)
	}
	if assignment.ReleasedAt == nil {
		t.Fatalf("expected released timestamp recorded")
	}
	if reviewers.workloads["rev-a"] != 0 {
		t.Fatalf("expected workload released, got %d", reviewers.workloads["rev-a"])
	}
}

func TestSuggestReviewersRanksByWorkloadThenRating(t *testing.T) {
	content := &fakeContentGateway{state: "queued", category: "mathematics"}
	reviewers := newFakeReviewerGateway()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	reviewers.candidates = []ports.ReviewerInfo{
		{ReviewerID: "rev-c", Workload: 30, Rating: 5.0, LastActiveAt: base},
		{ReviewerID: "rev-a", Workload: 10, Rating: 4.0, LastActiveAt: base},
		{ReviewerID: "rev-b", Workload: 10, Rating: 4.8, LastActiveAt: base},
		{ReviewerID: "rev-d", Workload: 10, Rating: 4.8, LastActiveAt: base.Add(-time.Hour)},
	}
	uc := commands.SuggestReviewersUseCase{Content: content, Reviewers: reviewers}

	ranked, err := uc.Execute(context.Background(), "content-1", 0)
	if err != nil {
		t.Fatalf("suggest reviewers: %v", err)
	}
	got := make([]string, 0, len(ranked))
	for _, info := range ranked {
		got = append(got, info.ReviewerID)
	}
	want := []string{"rev-d", "rev-b", "rev-a", "rev-c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestExtendDeadlineRejectsEarlierDate(t *testing.T) {
	store := memory.NewStore(nil)
	deadline := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seed := entities.Assignment{
		AssignmentID: "assign-1",
		ContentID:    "content-1",
		ReviewerIDs:  []string{"rev-a"},
		Deadline:     deadline,
		Status:       entities.StatusActive,
	}
	if err := store.CreateAssignment(context.Background(), seed); err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	uc := commands.ExtendDeadlineUseCase{
		Repository: store,
		Clock:      store,
		Locks:      locking.NewKeyedMutex(),
	}

	_, err := uc.Execute(context.Background(), commands.ExtendDeadlineCommand{
		AssignmentID: "assign-1",
		NewDeadline:  deadline.Add(-24 * time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrDeadlineNotExtended) {
		t.Fatalf("expected ErrDeadlineNotExtended, got %v", err)
	}

	extended, err := uc.Execute(context.Background(), commands.ExtendDeadlineCommand{
		AssignmentID: "assign-1",
		NewDeadline:  deadline.Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("extend deadline: %v", err)
	}
	if !extended.Deadline.Equal(deadline.Add(72 * time.Hour)) {
		t.Fatalf("expected deadline pushed out, got %s", extended.Deadline)
	}
}

func TestDeadlineSweepFlagsOverdueOnce(t *testing.T) {
	store := memory.NewStore(nil)
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)
	for _, seed := range []entities.Assignment{
		{AssignmentID: "assign-late", ContentID: "content-1", ReviewerIDs: []string{"rev-a"}, Deadline: past, Status: entities.StatusActive},
		{AssignmentID: "assign-ontime", ContentID: "content-2", ReviewerIDs: []string{"rev-b"}, Deadline: future, Status: entities.StatusActive},
	} {
		if err := store.CreateAssignment(context.Background(), seed); err != nil {
			t.Fatalf("seed assignment: %v", err)
		}
	}
	sweep := workers.DeadlineSweep{Repository: store, Clock: store}

	flagged, err := sweep.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("deadline sweep: %v", err)
	}
	if flagged != 1 {
		t.Fatalf("expected one assignment flagged, got %d", flagged)
	}

	flagged, err = sweep.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if flagged != 0 {
		t.Fatalf("expected sweep to be idempotent, got %d", flagged)
	}

	late, err := store.GetAssignment(context.Background(), "assign-late")
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if !late.Overdue || late.Status != entities.StatusActive {
		t.Fatalf("expected overdue flag with active status, got %+v", late)
	}
}
