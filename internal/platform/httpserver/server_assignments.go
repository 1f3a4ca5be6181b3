package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	assignmenterrors "vellum/contexts/editorial/assignment-service/domain/errors"
	assignmenthttp "vellum/contexts/editorial/assignment-service/transport/http"
	workflowerrors "vellum/contexts/editorial/workflow-service/domain/errors"
)

func (s *Server) registerAssignmentRoutes() {
	s.mux.HandleFunc("POST /api/editorial/v1/assignments", s.handleAssignContent)
	s.mux.HandleFunc("GET /api/editorial/v1/assignments/overdue", s.handleListOverdueAssignments)
	s.mux.HandleFunc("GET /api/editorial/v1/assignments/{assignment_id}", s.handleGetAssignment)
	s.mux.HandleFunc("POST /api/editorial/v1/assignments/{assignment_id}/extend", s.handleExtendDeadline)
	s.mux.HandleFunc("GET /api/editorial/v1/content/{content_id}/assignment", s.handleActiveAssignment)
	s.mux.HandleFunc("POST /api/editorial/v1/content/{content_id}/unassign", s.handleUnassignContent)
	s.mux.HandleFunc("GET /api/editorial/v1/content/{content_id}/suggested-reviewers", s.handleSuggestReviewers)
}

func (s *Server) handleAssignContent(w http.ResponseWriter, r *http.Request) {
	var req assignmenthttp.AssignContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAssignmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.assignments.Handler.AssignContentHandler(r.Context(), req)
	if err != nil {
		writeAssignmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.assignments.Handler.GetAssignmentHandler(r.Context(), r.PathValue("assignment_id"))
	if err != nil {
		writeAssignmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActiveAssignment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.assignments.Handler.ActiveByContentHandler(r.Context(), r.PathValue("content_id"))
	if err != nil {
		writeAssignmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnassignContent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.assignments.Handler.UnassignContentHandler(r.Context(), r.PathValue("content_id"))
	if err != nil {
		writeAssignmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOverdueAssignments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.assignments.Handler.ListOverdueHandler(r.Context())
	if err != nil {
		writeAssignmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtendDeadline(w http.ResponseWriter, r *http.Request) {
	var req assignmenthttp.ExtendDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAssignmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.assignments.Handler.ExtendDeadlineHandler(r.Context(), r.PathValue("assignment_id"), req)
	if err != nil {
		writeAssignmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSuggestReviewers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeAssignmentError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.assignments.Handler.SuggestReviewersHandler(r.Context(), r.PathValue("content_id"), limit)
	if err != nil {
		writeAssignmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAssignmentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assignmenterrors.ErrAssignmentNotFound):
		writeAssignmentError(w, http.StatusNotFound, "assignment_not_found", err.Error())
	case errors.Is(err, assignmenterrors.ErrNoActiveAssignment):
		writeAssignmentError(w, http.StatusNotFound, "no_active_assignment", err.Error())
	case errors.Is(err, workflowerrors.ErrContentNotFound):
		writeAssignmentError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, assignmenterrors.ErrActiveAssignmentExists):
		writeAssignmentError(w, http.StatusConflict, "active_assignment_exists", err.Error())
	case errors.Is(err, assignmenterrors.ErrInvalidContentState):
		writeAssignmentError(w, http.StatusConflict, "invalid_content_state", err.Error())
	case errors.Is(err, assignmenterrors.ErrReviewerUnavailable):
		writeAssignmentError(w, http.StatusConflict, "reviewer_unavailable", err.Error())
	case errors.Is(err, assignmenterrors.ErrDeadlineNotExtended):
		writeAssignmentError(w, http.StatusConflict, "deadline_not_extended", err.Error())
	case errors.Is(err, assignmenterrors.ErrDuplicateReviewer),
		errors.Is(err, assignmenterrors.ErrNoReviewers),
		errors.Is(err, assignmenterrors.ErrInvalidAssignmentInput):
		writeAssignmentError(w, http.StatusBadRequest, "invalid_assignment_input", err.Error())
	default:
		writeAssignmentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAssignmentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, assignmenthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
