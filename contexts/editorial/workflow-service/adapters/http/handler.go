package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"vellum/contexts/editorial/workflow-service/application/commands"
	"vellum/contexts/editorial/workflow-service/application/queries"
	"vellum/contexts/editorial/workflow-service/domain/entities"
	httptransport "vellum/contexts/editorial/workflow-service/transport/http"
)

type Handler struct {
	Submit    commands.SubmitContentUseCase
	Decisions commands.EditorialDecisionUseCase
	Queries   queries.QueryUseCase
	Logger    *slog.Logger
}

func (h Handler) SubmitContentHandler(
	ctx context.Context,
	req httptransport.SubmitContentRequest,
) (httptransport.ContentResponse, error) {
	item, err := h.Submit.Execute(ctx, commands.SubmitContentCommand{
		Title:       req.Title,
		ContentType: req.ContentType,
		Category:    req.Category,
		AuthorID:    req.AuthorID,
		Priority:    req.Priority,
		Notes:       req.Notes,
	})
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{Content: mapContent(item)}, nil
}

func (h Handler) ResubmitContentHandler(ctx context.Context, contentID string) (httptransport.ContentResponse, error) {
	item, err := h.Submit.Resubmit(ctx, contentID)
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{Content: mapContent(item)}, nil
}

func (h Handler) GetContentHandler(ctx context.Context, contentID string) (httptransport.ContentResponse, error) {
	item, err := h.Queries.GetContent(ctx, contentID)
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{Content: mapContent(item)}, nil
}

func (h Handler) ListQueueHandler(
	ctx context.Context,
	query queries.ListQueueQuery,
) (httptransport.ListContentResponse, error) {
	items, err := h.Queries.ListQueue(ctx, query)
	if err != nil {
		return httptransport.ListContentResponse{}, err
	}
	result := make([]httptransport.ContentDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapContent(item))
	}
	return httptransport.ListContentResponse{Items: result}, nil
}

func (h Handler) StatsHandler(ctx context.Context) (httptransport.EditorialStatsResponse, error) {
	stats, err := h.Queries.Stats(ctx)
	if err != nil {
		return httptransport.EditorialStatsResponse{}, err
	}
	return httptransport.EditorialStatsResponse{
		Pending:  stats.Pending,
		Assigned: stats.Assigned,
		InReview: stats.InReview,
		Approved: stats.Approved,
		Rejected: stats.Rejected,
	}, nil
}

func (h Handler) ApproveContentHandler(
	ctx context.Context,
	contentID string,
	req httptransport.EditorialDecisionRequest,
) (httptransport.ContentResponse, error) {
	item, err := h.Decisions.Approve(ctx, commands.ApproveContentCommand{
		ContentID: contentID,
		EditorID:  req.EditorID,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{Content: mapContent(item)}, nil
}

func (h Handler) RejectContentHandler(
	ctx context.Context,
	contentID string,
	req httptransport.EditorialDecisionRequest,
) (httptransport.ContentResponse, error) {
	item, err := h.Decisions.Reject(ctx, commands.RejectContentCommand{
		ContentID: contentID,
		EditorID:  req.EditorID,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{Content: mapContent(item)}, nil
}

func (h Handler) RequestRevisionHandler(
	ctx context.Context,
	contentID string,
	req httptransport.EditorialDecisionRequest,
) (httptransport.ContentResponse, error) {
	item, err := h.Decisions.RequestRevision(ctx, commands.RequestRevisionCommand{
		ContentID: contentID,
		EditorID:  req.EditorID,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.ContentResponse{}, err
	}
	return httptransport.ContentResponse{Content: mapContent(item)}, nil
}

func mapContent(item entities.ContentItem) httptransport.ContentDTO {
	dto := httptransport.ContentDTO{
		ContentID:        item.ContentID,
		Title:            item.Title,
		ContentType:      string(item.ContentType),
		Category:         item.Category,
		AuthorID:         item.AuthorID,
		Priority:         string(item.Priority),
		State:            string(item.State),
		EditorialNotes:   item.EditorialNotes,
		SubmittedAt:      item.SubmittedAt.Format(time.RFC3339),
		ApprovedByUserID: item.ApprovedByUserID,
		ApprovalNotes:    item.ApprovalNotes,
		RejectedByUserID: item.RejectedByUserID,
		RejectionNotes:   item.RejectionNotes,
		RevisionCount:    item.RevisionCount,
		UpdatedAt:        item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ApprovedAt != nil {
		dto.ApprovedAt = item.ApprovedAt.Format(time.RFC3339)
	}
	if item.RejectedAt != nil {
		dto.RejectedAt = item.RejectedAt.Format(time.RFC3339)
	}
	if item.RevisionRequestedAt != nil {
		dto.RevisionRequestedAt = item.RevisionRequestedAt.Format(time.RFC3339)
	}
	return dto
}
