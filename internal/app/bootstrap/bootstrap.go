package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	assignmentservice "vellum/contexts/editorial/assignment-service"
	assignmentpostgres "vellum/contexts/editorial/assignment-service/adapters/postgres"
	assignmentworkers "vellum/contexts/editorial/assignment-service/application/workers"
	calendarservice "vellum/contexts/editorial/calendar-service"
	calendarworkers "vellum/contexts/editorial/calendar-service/application/workers"
	reviewservice "vellum/contexts/editorial/review-service"
	reviewpostgres "vellum/contexts/editorial/review-service/adapters/postgres"
	reviewerregistry "vellum/contexts/editorial/reviewer-registry"
	registrypostgres "vellum/contexts/editorial/reviewer-registry/adapters/postgres"
	workflowservice "vellum/contexts/editorial/workflow-service"
	workflowpostgres "vellum/contexts/editorial/workflow-service/adapters/postgres"
	workflowworkers "vellum/contexts/editorial/workflow-service/application/workers"
	"vellum/internal/platform/config"
	"vellum/internal/platform/db"
	"vellum/internal/platform/httpserver"
	"vellum/internal/platform/messaging"
	"vellum/internal/shared/locking"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// Modules bundles the five editorial contexts after cross-context wiring.
// Workflow, assignments, and reviews are pointers because their gateways
// reference each other and must be filled in after construction.
type Modules struct {
	Reviewers   reviewerregistry.Module
	Workflow    *workflowservice.Module
	Assignments *assignmentservice.Module
	Reviews     *reviewservice.Module
	Calendar    calendarservice.Module
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	outboxRelay   workflowworkers.OutboxRelay
	deadlineSweep assignmentworkers.DeadlineSweep
	calendarFeed  calendarworkers.ContentLifecycleConsumer
	relayEnabled  bool
	sweepEnabled  bool
	feedEnabled   bool
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	modules := buildPostgresModules(pg, cfg, logger)
	server := httpserver.New(
		modules.Reviewers,
		*modules.Workflow,
		*modules.Assignments,
		*modules.Reviews,
		modules.Calendar,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	modules := buildPostgresModules(pg, cfg, logger)
	workflowRepo := workflowpostgres.NewRepository(pg.DB)
	return &WorkerApp{
		postgres:    pg,
		outboxRelay: workflowservice.NewOutboxRelay(workflowRepo, kafka, workflowpostgres.SystemClock{}, logger),
		deadlineSweep: assignmentworkers.DeadlineSweep{
			Repository: assignmentpostgres.NewRepository(pg.DB),
			Clock:      assignmentpostgres.SystemClock{},
			Logger:     logger,
		},
		calendarFeed: calendarworkers.ContentLifecycleConsumer{
			Subscriber: kafka,
			Service:    modules.Calendar.Service,
			Logger:     logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		sweepEnabled: cfg.EnableDeadlineSweep,
		feedEnabled:  cfg.EnableCalendarFeed,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

// buildPostgresModules wires the editorial contexts over shared Postgres
// storage. Workflow, assignment, and review share one keyed mutex so the
// per-content critical sections line up across contexts.
func buildPostgresModules(pg *db.Postgres, cfg config.Config, logger *slog.Logger) Modules {
	locks := locking.NewKeyedMutex()

	reviewers := reviewerregistry.NewModule(reviewerregistry.Dependencies{
		Repository:      registrypostgres.NewRepository(pg.DB, logger),
		Clock:           registrypostgres.SystemClock{},
		IDGen:           registrypostgres.UUIDGenerator{},
		WorkloadCeiling: cfg.WorkloadCeiling,
		Logger:          logger,
	})

	workflow := &workflowservice.Module{}
	assignments := &assignmentservice.Module{}
	reviews := &reviewservice.Module{}

	*workflow = workflowservice.NewModule(workflowservice.Dependencies{
		Repository:        workflowpostgres.NewRepository(pg.DB),
		Clock:             workflowpostgres.SystemClock{},
		IDGen:             workflowpostgres.UUIDGenerator{},
		Locks:             locks,
		Assignments:       &assignmentGatewayAdapter{assignments: assignments},
		Reviews:           &reviewGatewayAdapter{reviews: reviews},
		Quorum:            cfg.ApprovalQuorum,
		ApprovalThreshold: cfg.ApprovalThreshold,
		Logger:            logger,
	})
	*assignments = assignmentservice.NewModule(assignmentservice.Dependencies{
		Repository:   assignmentpostgres.NewRepository(pg.DB),
		Content:      &contentGatewayAdapter{workflow: workflow},
		Reviewers:    &reviewerGatewayAdapter{registry: reviewers.Service},
		Clock:        assignmentpostgres.SystemClock{},
		IDGen:        assignmentpostgres.UUIDGenerator{},
		Locks:        locks,
		ReviewWindow: time.Duration(cfg.ReviewWindowDays) * 24 * time.Hour,
		WorkloadCost: cfg.AssignmentWorkloadCost,
		Logger:       logger,
	})
	*reviews = reviewservice.NewModule(reviewservice.Dependencies{
		Repository:  reviewpostgres.NewRepository(pg.DB),
		Assignments: &reviewAssignmentGatewayAdapter{assignments: assignments},
		Workflow:    &workflowGatewayAdapter{workflow: workflow},
		Reviewers:   &reviewerTrackRecordAdapter{registry: reviewers.Service},
		Clock:       reviewpostgres.SystemClock{},
		IDGen:       reviewpostgres.UUIDGenerator{},
		Locks:       locks,
		Logger:      logger,
	})

	calendar := calendarservice.NewInMemoryModule(&deadlineSourceAdapter{assignments: assignments}, logger)

	return Modules{
		Reviewers:   reviewers,
		Workflow:    workflow,
		Assignments: assignments,
		Reviews:     reviews,
		Calendar:    calendar,
	}
}

// BuildInMemory wires every context over in-process stores. Used by tests
// and local smoke runs that have no Postgres.
func BuildInMemory(logger *slog.Logger) Modules {
	locks := locking.NewKeyedMutex()

	reviewers := reviewerregistry.NewInMemoryModule(nil, 100, logger)

	workflow := &workflowservice.Module{}
	assignments := &assignmentservice.Module{}
	reviews := &reviewservice.Module{}

	*workflow = workflowservice.NewInMemoryModule(
		nil,
		&assignmentGatewayAdapter{assignments: assignments},
		&reviewGatewayAdapter{reviews: reviews},
		locks,
		logger,
	)
	*assignments = assignmentservice.NewInMemoryModule(
		nil,
		&contentGatewayAdapter{workflow: workflow},
		&reviewerGatewayAdapter{registry: reviewers.Service},
		locks,
		logger,
	)
	*reviews = reviewservice.NewInMemoryModule(
		nil,
		&reviewAssignmentGatewayAdapter{assignments: assignments},
		&workflowGatewayAdapter{workflow: workflow},
		&reviewerTrackRecordAdapter{registry: reviewers.Service},
		locks,
		logger,
	)

	calendar := calendarservice.NewInMemoryModule(&deadlineSourceAdapter{assignments: assignments}, logger)

	return Modules{
		Reviewers:   reviewers,
		Workflow:    workflow,
		Assignments: assignments,
		Reviews:     reviews,
		Calendar:    calendar,
	}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.feedEnabled {
		if err := w.calendarFeed.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"outbox_relay", w.relayEnabled,
		"deadline_sweep", w.sweepEnabled,
		"calendar_feed", w.feedEnabled,
	)

	for {
		if w.sweepEnabled {
			if _, err := w.deadlineSweep.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
