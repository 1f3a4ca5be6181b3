package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	assignmenterrors "vellum/contexts/editorial/assignment-service/domain/errors"
	reviewerrors "vellum/contexts/editorial/review-service/domain/errors"
	reviewhttp "vellum/contexts/editorial/review-service/transport/http"
)

func (s *Server) registerReviewRoutes() {
	s.mux.HandleFunc("POST /api/editorial/v1/assignments/{assignment_id}/reviews", s.handleSubmitReview)
	s.mux.HandleFunc("GET /api/editorial/v1/assignments/{assignment_id}/reviews", s.handleListReviews)
	s.mux.HandleFunc("GET /api/editorial/v1/assignments/{assignment_id}/consolidated", s.handleConsolidated)
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewhttp.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReviewError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reviews.Handler.SubmitReviewHandler(r.Context(), r.PathValue("assignment_id"), req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.WasUpdate {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reviews.Handler.ListReviewsHandler(r.Context(), r.PathValue("assignment_id"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConsolidated(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reviews.Handler.ConsolidatedHandler(r.Context(), r.PathValue("assignment_id"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeReviewDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewerrors.ErrReviewNotFound):
		writeReviewError(w, http.StatusNotFound, "review_not_found", err.Error())
	case errors.Is(err, assignmenterrors.ErrAssignmentNotFound):
		writeReviewError(w, http.StatusNotFound, "assignment_not_found", err.Error())
	case errors.Is(err, reviewerrors.ErrNotAssigned):
		writeReviewError(w, http.StatusForbidden, "not_assigned", err.Error())
	case errors.Is(err, reviewerrors.ErrScoreOutOfRange):
		writeReviewError(w, http.StatusBadRequest, "score_out_of_range", err.Error())
	case errors.Is(err, reviewerrors.ErrInvalidReviewInput):
		writeReviewError(w, http.StatusBadRequest, "invalid_review_input", err.Error())
	default:
		writeReviewError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeReviewError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reviewhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
