package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"vellum/contexts/editorial/reviewer-registry/application"
	"vellum/contexts/editorial/reviewer-registry/domain/entities"
	httptransport "vellum/contexts/editorial/reviewer-registry/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterReviewerHandler(
	ctx context.Context,
	req httptransport.RegisterReviewerRequest,
) (httptransport.ReviewerResponse, error) {
	item, err := h.Service.Register(ctx, application.RegisterReviewerInput{
		DisplayName: req.DisplayName,
		Expertise:   req.Expertise,
		Available:   req.Available,
		Rating:      req.Rating,
	})
	if err != nil {
		return httptransport.ReviewerResponse{}, err
	}
	return httptransport.ReviewerResponse{Reviewer: mapReviewer(item)}, nil
}

func (h Handler) GetReviewerHandler(ctx context.Context, reviewerID string) (httptransport.ReviewerResponse, error) {
	item, err := h.Service.Get(ctx, reviewerID)
	if err != nil {
		return httptransport.ReviewerResponse{}, err
	}
	return httptransport.ReviewerResponse{Reviewer: mapReviewer(item)}, nil
}

func (h Handler) ListAvailableHandler(
	ctx context.Context,
	expertise string,
	minCapacity int,
) (httptransport.ListReviewersResponse, error) {
	items, err := h.Service.ListAvailable(ctx, expertise, minCapacity)
	if err != nil {
		return httptransport.ListReviewersResponse{}, err
	}
	result := make([]httptransport.ReviewerDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapReviewer(item))
	}
	return httptransport.ListReviewersResponse{Items: result}, nil
}

func (h Handler) SetAvailabilityHandler(
	ctx context.Context,
	reviewerID string,
	req httptransport.SetAvailabilityRequest,
) (httptransport.ReviewerResponse, error) {
	item, err := h.Service.SetAvailability(ctx, reviewerID, req.Available)
	if err != nil {
		return httptransport.ReviewerResponse{}, err
	}
	return httptransport.ReviewerResponse{Reviewer: mapReviewer(item)}, nil
}

func mapReviewer(item entities.Reviewer) httptransport.ReviewerDTO {
	return httptransport.ReviewerDTO{
		ReviewerID:       item.ReviewerID,
		DisplayName:      item.DisplayName,
		Expertise:        append([]string(nil), item.Expertise...),
		Available:        item.Available,
		Workload:         item.Workload,
		Rating:           item.Rating,
		CompletedReviews: item.CompletedReviews,
		RejectionRate:    item.RejectionRate(),
		LastActiveAt:     item.LastActiveAt.Format(time.RFC3339),
	}
}
