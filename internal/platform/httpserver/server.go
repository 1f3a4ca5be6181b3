package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	assignmentservice "vellum/contexts/editorial/assignment-service"
	calendarservice "vellum/contexts/editorial/calendar-service"
	reviewservice "vellum/contexts/editorial/review-service"
	reviewerregistry "vellum/contexts/editorial/reviewer-registry"
	workflowservice "vellum/contexts/editorial/workflow-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "vellum/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	reviewers   reviewerregistry.Module
	workflow    workflowservice.Module
	assignments assignmentservice.Module
	reviews     reviewservice.Module
	calendar    calendarservice.Module
}

func New(
	reviewers reviewerregistry.Module,
	workflow workflowservice.Module,
	assignments assignmentservice.Module,
	reviews reviewservice.Module,
	calendar calendarservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		reviewers:   reviewers,
		workflow:    workflow,
		assignments: assignments,
		reviews:     reviews,
		calendar:    calendar,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerReviewerRoutes()
	s.registerWorkflowRoutes()
	s.registerAssignmentRoutes()
	s.registerReviewRoutes()
	s.registerCalendarRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
