package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vellum/contexts/editorial/assignment-service/application/commands"
	"vellum/contexts/editorial/assignment-service/application/queries"
	"vellum/contexts/editorial/assignment-service/domain/entities"
	domainerrors "vellum/contexts/editorial/assignment-service/domain/errors"
	"vellum/contexts/editorial/assignment-service/ports"
	httptransport "vellum/contexts/editorial/assignment-service/transport/http"
)

type Handler struct {
	Assign  commands.AssignUseCase
	Suggest commands.SuggestReviewersUseCase
	Extend  commands.ExtendDeadlineUseCase
	Queries queries.QueryUseCase
	Logger  *slog.Logger
}

func (h Handler) AssignContentHandler(
	ctx context.Context,
	req httptransport.AssignContentRequest,
) (httptransport.AssignmentResponse, error) {
	var deadline time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			return httptransport.AssignmentResponse{}, fmt.Errorf("%w: deadline must be RFC3339", domainerrors.ErrInvalidAssignmentInput)
		}
		deadline = parsed
	}
	assignment, err := h.Assign.Execute(ctx, commands.AssignContentCommand{
		ContentID:   req.ContentID,
		ReviewerIDs: req.ReviewerIDs,
		Notes:       req.Notes,
		Deadline:    deadline,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(assignment)}, nil
}

func (h Handler) UnassignContentHandler(ctx context.Context, contentID string) (httptransport.AssignmentResponse, error) {
	assignment, err := h.Assign.Unassign(ctx, contentID)
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(assignment)}, nil
}

func (h Handler) GetAssignmentHandler(ctx context.Context, assignmentID string) (httptransport.AssignmentResponse, error) {
	assignment, err := h.Queries.Get(ctx, assignmentID)
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(assignment)}, nil
}

func (h Handler) ActiveByContentHandler(ctx context.Context, contentID string) (httptransport.AssignmentResponse, error) {
	assignment, err := h.Queries.ActiveByContent(ctx, contentID)
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(assignment)}, nil
}

func (h Handler) ListOverdueHandler(ctx context.Context) (httptransport.ListAssignmentsResponse, error) {
	items, err := h.Queries.ListOverdue(ctx)
	if err != nil {
		return httptransport.ListAssignmentsResponse{}, err
	}
	return httptransport.ListAssignmentsResponse{Items: mapAssignments(items)}, nil
}

func (h Handler) ExtendDeadlineHandler(
	ctx context.Context,
	assignmentID string,
	req httptransport.ExtendDeadlineRequest,
) (httptransport.AssignmentResponse, error) {
	newDeadline, err := time.Parse(time.RFC3339, req.NewDeadline)
	if err != nil {
		return httptransport.AssignmentResponse{}, fmt.Errorf("%w: new_deadline must be RFC3339", domainerrors.ErrInvalidAssignmentInput)
	}
	assignment, err := h.Extend.Execute(ctx, commands.ExtendDeadlineCommand{
		AssignmentID: assignmentID,
		NewDeadline:  newDeadline,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{Assignment: mapAssignment(assignment)}, nil
}

func (h Handler) SuggestReviewersHandler(
	ctx context.Context,
	contentID string,
	limit int,
) (httptransport.SuggestReviewersResponse, error) {
	candidates, err := h.Suggest.Execute(ctx, contentID, limit)
	if err != nil {
		return httptransport.SuggestReviewersResponse{}, err
	}
	items := make([]httptransport.SuggestedReviewerDTO, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, mapSuggestedReviewer(candidate))
	}
	return httptransport.SuggestReviewersResponse{Items: items}, nil
}

func mapAssignments(assignments []entities.Assignment) []httptransport.AssignmentDTO {
	items := make([]httptransport.AssignmentDTO, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, mapAssignment(assignment))
	}
	return items
}

func mapAssignment(assignment entities.Assignment) httptransport.AssignmentDTO {
	dto := httptransport.AssignmentDTO{
		AssignmentID: assignment.AssignmentID,
		ContentID:    assignment.ContentID,
		ReviewerIDs:  append([]string(nil), assignment.ReviewerIDs...),
		Notes:        assignment.Notes,
		Deadline:     assignment.Deadline.Format(time.RFC3339),
		Status:       string(assignment.Status),
		Overdue:      assignment.Overdue,
		CreatedAt:    assignment.CreatedAt.Format(time.RFC3339),
	}
	if assignment.ReleasedAt != nil {
		dto.ReleasedAt = assignment.ReleasedAt.Format(time.RFC3339)
	}
	return dto
}

func mapSuggestedReviewer(info ports.ReviewerInfo) httptransport.SuggestedReviewerDTO {
	return httptransport.SuggestedReviewerDTO{
		ReviewerID:   info.ReviewerID,
		Expertise:    append([]string(nil), info.Expertise...),
		Workload:     info.Workload,
		Rating:       info.Rating,
		LastActiveAt: info.LastActiveAt.Format(time.RFC3339),
	}
}
