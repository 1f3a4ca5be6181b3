package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	workflowqueries "vellum/contexts/editorial/workflow-service/application/queries"
	workflowerrors "vellum/contexts/editorial/workflow-service/domain/errors"
	workflowhttp "vellum/contexts/editorial/workflow-service/transport/http"
)

func (s *Server) registerWorkflowRoutes() {
	s.mux.HandleFunc("POST /api/editorial/v1/content", s.handleSubmitContent)
	s.mux.HandleFunc("GET /api/editorial/v1/content/{content_id}", s.handleGetContent)
	s.mux.HandleFunc("POST /api/editorial/v1/content/{content_id}/resubmit", s.handleResubmitContent)
	s.mux.HandleFunc("POST /api/editorial/v1/content/{content_id}/approve", s.handleApproveContent)
	s.mux.HandleFunc("POST /api/editorial/v1/content/{content_id}/reject", s.handleRejectContent)
	s.mux.HandleFunc("POST /api/editorial/v1/content/{content_id}/request-revision", s.handleRequestRevision)
	s.mux.HandleFunc("GET /api/editorial/v1/queue", s.handleListQueue)
	s.mux.HandleFunc("GET /api/editorial/v1/stats", s.handleEditorialStats)
}

func (s *Server) handleSubmitContent(w http.ResponseWriter, r *http.Request) {
	var req workflowhttp.SubmitContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.SubmitContentHandler(r.Context(), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.workflow.Handler.GetContentHandler(r.Context(), r.PathValue("content_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResubmitContent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.workflow.Handler.ResubmitContentHandler(r.Context(), r.PathValue("content_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveContent(w http.ResponseWriter, r *http.Request) {
	var req workflowhttp.EditorialDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.EditorID == "" {
		req.EditorID = r.Header.Get("X-Editor-Id")
	}
	resp, err := s.workflow.Handler.ApproveContentHandler(r.Context(), r.PathValue("content_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectContent(w http.ResponseWriter, r *http.Request) {
	var req workflowhttp.EditorialDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.EditorID == "" {
		req.EditorID = r.Header.Get("X-Editor-Id")
	}
	resp, err := s.workflow.Handler.RejectContentHandler(r.Context(), r.PathValue("content_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestRevision(w http.ResponseWriter, r *http.Request) {
	var req workflowhttp.EditorialDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.EditorID == "" {
		req.EditorID = r.Header.Get("X-Editor-Id")
	}
	resp, err := s.workflow.Handler.RequestRevisionHandler(r.Context(), r.PathValue("content_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListQueue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	listQuery := workflowqueries.ListQueueQuery{
		ContentType: query.Get("content_type"),
		Priority:    query.Get("priority"),
	}
	if raw := query.Get("submitted_from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeWorkflowError(w, http.StatusBadRequest, "invalid_submitted_from", "submitted_from must be RFC3339")
			return
		}
		listQuery.SubmittedFrom = parsed
	}
	if raw := query.Get("submitted_to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeWorkflowError(w, http.StatusBadRequest, "invalid_submitted_to", "submitted_to must be RFC3339")
			return
		}
		listQuery.SubmittedTo = parsed
	}
	resp, err := s.workflow.Handler.ListQueueHandler(r.Context(), listQuery)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditorialStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.workflow.Handler.StatsHandler(r.Context())
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeWorkflowDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflowerrors.ErrContentNotFound):
		writeWorkflowError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, workflowerrors.ErrInvalidContentInput):
		writeWorkflowError(w, http.StatusBadRequest, "invalid_content_input", err.Error())
	case errors.Is(err, workflowerrors.ErrNotesRequired):
		writeWorkflowError(w, http.StatusBadRequest, "notes_required", err.Error())
	case errors.Is(err, workflowerrors.ErrInvalidTransition):
		writeWorkflowError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, workflowerrors.ErrInsufficientReviews):
		writeWorkflowError(w, http.StatusConflict, "insufficient_reviews", err.Error())
	case errors.Is(err, workflowerrors.ErrRecommendationTooLow):
		writeWorkflowError(w, http.StatusConflict, "recommendation_below_threshold", err.Error())
	default:
		writeWorkflowError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWorkflowError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, workflowhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
