package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	reviewererrors "vellum/contexts/editorial/reviewer-registry/domain/errors"
	reviewerhttp "vellum/contexts/editorial/reviewer-registry/transport/http"
)

func (s *Server) registerReviewerRoutes() {
	s.mux.HandleFunc("POST /api/editorial/v1/reviewers", s.handleRegisterReviewer)
	s.mux.HandleFunc("GET /api/editorial/v1/reviewers", s.handleListAvailableReviewers)
	s.mux.HandleFunc("GET /api/editorial/v1/reviewers/{reviewer_id}", s.handleGetReviewer)
	s.mux.HandleFunc("PUT /api/editorial/v1/reviewers/{reviewer_id}/availability", s.handleSetReviewerAvailability)
}

func (s *Server) handleRegisterReviewer(w http.ResponseWriter, r *http.Request) {
	var req reviewerhttp.RegisterReviewerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReviewerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reviewers.Handler.RegisterReviewerHandler(r.Context(), req)
	if err != nil {
		writeReviewerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetReviewer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reviewers.Handler.GetReviewerHandler(r.Context(), r.PathValue("reviewer_id"))
	if err != nil {
		writeReviewerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAvailableReviewers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	minCapacity := 0
	if raw := query.Get("min_capacity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeReviewerError(w, http.StatusBadRequest, "invalid_min_capacity", "min_capacity must be an integer")
			return
		}
		minCapacity = parsed
	}
	resp, err := s.reviewers.Handler.ListAvailableHandler(r.Context(), query.Get("expertise"), minCapacity)
	if err != nil {
		writeReviewerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetReviewerAvailability(w http.ResponseWriter, r *http.Request) {
	var req reviewerhttp.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReviewerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reviewers.Handler.SetAvailabilityHandler(r.Context(), r.PathValue("reviewer_id"), req)
	if err != nil {
		writeReviewerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeReviewerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewererrors.ErrReviewerNotFound):
		writeReviewerError(w, http.StatusNotFound, "reviewer_not_found", err.Error())
	case errors.Is(err, reviewererrors.ErrInvalidReviewerInput):
		writeReviewerError(w, http.StatusBadRequest, "invalid_reviewer_input", err.Error())
	case errors.Is(err, reviewererrors.ErrCapacityExceeded):
		writeReviewerError(w, http.StatusConflict, "capacity_exceeded", err.Error())
	default:
		writeReviewerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeReviewerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reviewerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
