package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"vellum/contexts/editorial/reviewer-registry/domain/entities"
	domainerrors "vellum/contexts/editorial/reviewer-registry/domain/errors"
	"vellum/contexts/editorial/reviewer-registry/ports"
)

const defaultWorkloadCeiling = 100

// Service owns reviewer capability data. Workload is mutated only through
// Reserve/Release so the assignment engine stays the single writer.
type Service struct {
	Repo            ports.Repository
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	Logger          *slog.Logger
	WorkloadCeiling int
}

type RegisterReviewerInput struct {
	DisplayName string
	Expertise   []string
	Available   bool
	Rating      float64
}

func (s Service) Register(ctx context.Context, input RegisterReviewerInput) (entities.Reviewer, error) {
	logger := ResolveLogger(s.Logger)
	now := s.Clock.Now().UTC()

	reviewerID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Reviewer{}, err
	}
	reviewer := entities.Reviewer{
		ReviewerID:   reviewerID,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Expertise:    normalizeTags(input.Expertise),
		Available:    input.Available,
		Rating:       input.Rating,
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !reviewer.ValidateRegister() {
		return entities.Reviewer{}, domainerrors.ErrInvalidReviewerInput
	}
	if err := s.Repo.CreateReviewer(ctx, reviewer); err != nil {
		return entities.Reviewer{}, err
	}

	logger.Info("reviewer registered",
		"event", "reviewer_registered",
		"module", "editorial/reviewer-registry",
		"layer", "application",
		"reviewer_id", reviewer.ReviewerID,
	)
	return reviewer, nil
}

func (s Service) Get(ctx context.Context, reviewerID string) (entities.Reviewer, error) {
	return s.Repo.GetReviewer(ctx, strings.TrimSpace(reviewerID))
}

// ListAvailable returns available reviewers with at least minCapacity free
// units, ordered by ascending workload, then descending rating, then
// reviewer ID for determinism. A reviewer sitting at the ceiling has no free
// capacity, so minCapacity is clamped to at least one unit.
func (s Service) ListAvailable(ctx context.Context, expertise string, minCapacity int) ([]entities.Reviewer, error) {
	ceiling := s.ceiling()
	if minCapacity < 1 {
		minCapacity = 1
	}
	items, err := s.Repo.ListReviewers(ctx, ports.ReviewerFilter{
		Expertise:     strings.TrimSpace(expertise),
		AvailableOnly: true,
		MaxWorkload:   ceiling - minCapacity,
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Workload != items[j].Workload {
			return items[i].Workload < items[j].Workload
		}
		if items[i].Rating != items[j].Rating {
			return items[i].Rating > items[j].Rating
		}
		return items[i].ReviewerID < items[j].ReviewerID
	})
	return items, nil
}

// Reserve adds delta workload units, failing without side effects when the
// ceiling would be exceeded.
func (s Service) Reserve(ctx context.Context, reviewerID string, delta int) (entities.Reviewer, error) {
	if delta <= 0 {
		return entities.Reviewer{}, domainerrors.ErrInvalidReviewerInput
	}
	reviewer, err := s.Repo.AdjustWorkload(ctx, strings.TrimSpace(reviewerID), delta, s.ceiling())
	if err != nil {
		return entities.Reviewer{}, err
	}
	ResolveLogger(s.Logger).Info("reviewer workload reserved",
		"event", "reviewer_workload_reserved",
		"module", "editorial/reviewer-registry",
		"layer", "application",
		"reviewer_id", reviewer.ReviewerID,
		"workload", reviewer.Workload,
	)
	return reviewer, nil
}

// Release subtracts delta workload units, clamped at zero so double-release
// never drives the counter negative.
func (s Service) Release(ctx context.Context, reviewerID string, delta int) (entities.Reviewer, error) {
	if delta <= 0 {
		return entities.Reviewer{}, domainerrors.ErrInvalidReviewerInput
	}
	reviewer, err := s.Repo.AdjustWorkload(ctx, strings.TrimSpace(reviewerID), -delta, s.ceiling())
	if err != nil {
		return entities.Reviewer{}, err
	}
	ResolveLogger(s.Logger).Info("reviewer workload released",
		"event", "reviewer_workload_released",
		"module", "editorial/reviewer-registry",
		"layer", "application",
		"reviewer_id", reviewer.ReviewerID,
		"workload", reviewer.Workload,
	)
	return reviewer, nil
}

func (s Service) SetAvailability(ctx context.Context, reviewerID string, available bool) (entities.Reviewer, error) {
	reviewer, err := s.Repo.GetReviewer(ctx, strings.TrimSpace(reviewerID))
	if err != nil {
		return entities.Reviewer{}, err
	}
	reviewer.Available = available
	reviewer.UpdatedAt = s.Clock.Now().UTC()
	if err := s.Repo.UpdateReviewer(ctx, reviewer); err != nil {
		return entities.Reviewer{}, err
	}
	return reviewer, nil
}

// RecordCompletedReview updates lifetime counters and last-active time after
// a reviewer submits a review.
func (s Service) RecordCompletedReview(ctx context.Context, reviewerID string, rejected bool) error {
	reviewer, err := s.Repo.GetReviewer(ctx, strings.TrimSpace(reviewerID))
	if err != nil {
		return err
	}
	now := s.Clock.Now().UTC()
	reviewer.CompletedReviews++
	if rejected {
		reviewer.RejectedReviews++
	}
	reviewer.LastActiveAt = now
	reviewer.UpdatedAt = now
	return s.Repo.UpdateReviewer(ctx, reviewer)
}

func (s Service) ceiling() int {
	if s.WorkloadCeiling <= 0 {
		return defaultWorkloadCeiling
	}
	return s.WorkloadCeiling
}

func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}
