package queries

import (
	"context"
	"log/slog"
	"strings"

	"vellum/contexts/editorial/review-service/domain/entities"
	"vellum/contexts/editorial/review-service/ports"
)

type QueryUseCase struct {
	Repository  ports.Repository
	Assignments ports.AssignmentGateway
	Logger      *slog.Logger
}

func (uc QueryUseCase) ListByAssignment(ctx context.Context, assignmentID string) ([]entities.Review, error) {
	return uc.Repository.ListByAssignment(ctx, strings.TrimSpace(assignmentID))
}

// Consolidated folds every submitted review for the assignment into one
// verdict; the result is pending only while no reviews exist.
func (uc QueryUseCase) Consolidated(ctx context.Context, assignmentID string) (entities.ConsolidatedRecommendation, error) {
	assignmentID = strings.TrimSpace(assignmentID)
	if _, err := uc.Assignments.GetAssignment(ctx, assignmentID); err != nil {
		return entities.ConsolidatedRecommendation{}, err
	}
	reviews, err := uc.Repository.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return entities.ConsolidatedRecommendation{}, err
	}
	return entities.Consolidate(assignmentID, reviews), nil
}
