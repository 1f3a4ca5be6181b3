package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	calendarerrors "vellum/contexts/editorial/calendar-service/domain/errors"
	calendarhttp "vellum/contexts/editorial/calendar-service/transport/http"
)

func (s *Server) registerCalendarRoutes() {
	s.mux.HandleFunc("GET /api/editorial/v1/calendar", s.handleCalendar)
	s.mux.HandleFunc("GET /api/editorial/v1/calendar/upcoming", s.handleUpcomingDeadlines)
	s.mux.HandleFunc("GET /api/editorial/v1/activity", s.handleRecentActivity)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		writeCalendarError(w, http.StatusBadRequest, "invalid_from", "from must be RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		writeCalendarError(w, http.StatusBadRequest, "invalid_to", "to must be RFC3339")
		return
	}
	resp, err := s.calendar.Handler.CalendarHandler(r.Context(), from, to)
	if err != nil {
		writeCalendarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpcomingDeadlines(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeCalendarError(w, http.StatusBadRequest, "invalid_days", "days must be an integer")
			return
		}
		days = parsed
	}
	resp, err := s.calendar.Handler.UpcomingDeadlinesHandler(r.Context(), days)
	if err != nil {
		writeCalendarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeCalendarError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.calendar.Handler.RecentActivityHandler(r.Context(), limit)
	if err != nil {
		writeCalendarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCalendarDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendarerrors.ErrInvalidRequest):
		writeCalendarError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeCalendarError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCalendarError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, calendarhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
