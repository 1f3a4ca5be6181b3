package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"vellum/contexts/editorial/review-service/application/commands"
	"vellum/contexts/editorial/review-service/application/queries"
	"vellum/contexts/editorial/review-service/domain/entities"
	httptransport "vellum/contexts/editorial/review-service/transport/http"
)

type Handler struct {
	Submit  commands.SubmitReviewUseCase
	Queries queries.QueryUseCase
	Logger  *slog.Logger
}

func (h Handler) SubmitReviewHandler(
	ctx context.Context,
	assignmentID string,
	req httptransport.SubmitReviewRequest,
) (httptransport.SubmitReviewResponse, error) {
	result, err := h.Submit.Execute(ctx, commands.SubmitReviewCommand{
		AssignmentID:   assignmentID,
		ReviewerID:     req.ReviewerID,
		Recommendation: req.Recommendation,
		Scores:         req.Scores,
		Comments:       req.Comments,
	})
	if err != nil {
		return httptransport.SubmitReviewResponse{}, err
	}
	return httptransport.SubmitReviewResponse{
		Review:    mapReview(result.Review),
		WasUpdate: result.WasUpdate,
	}, nil
}

func (h Handler) ListReviewsHandler(ctx context.Context, assignmentID string) (httptransport.ListReviewsResponse, error) {
	reviews, err := h.Queries.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return httptransport.ListReviewsResponse{}, err
	}
	items := make([]httptransport.ReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, mapReview(review))
	}
	return httptransport.ListReviewsResponse{Items: items}, nil
}

func (h Handler) ConsolidatedHandler(ctx context.Context, assignmentID string) (httptransport.ConsolidatedResponse, error) {
	consolidated, err := h.Queries.Consolidated(ctx, assignmentID)
	if err != nil {
		return httptransport.ConsolidatedResponse{}, err
	}
	return httptransport.ConsolidatedResponse{
		AssignmentID: consolidated.AssignmentID,
		Overall:      string(consolidated.Overall),
		Pending:      consolidated.Pending,
		ReviewCount:  consolidated.ReviewCount,
		MeanScores:   consolidated.MeanScores,
	}, nil
}

func mapReview(review entities.Review) httptransport.ReviewDTO {
	return httptransport.ReviewDTO{
		ReviewID:       review.ReviewID,
		AssignmentID:   review.AssignmentID,
		ReviewerID:     review.ReviewerID,
		Recommendation: string(review.Recommendation),
		Scores:         review.Scores,
		Comments:       review.Comments,
		SubmittedAt:    review.SubmittedAt.Format(time.RFC3339),
		UpdatedAt:      review.UpdatedAt.Format(time.RFC3339),
	}
}
