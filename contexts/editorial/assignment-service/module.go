package assignmentservice

import (
	"log/slog"
	"time"

	httpadapter "vellum/contexts/editorial/assignment-service/adapters/http"
	"vellum/contexts/editorial/assignment-service/adapters/memory"
	"vellum/contexts/editorial/assignment-service/application/commands"
	"vellum/contexts/editorial/assignment-service/application/queries"
	"vellum/contexts/editorial/assignment-service/application/workers"
	"vellum/contexts/editorial/assignment-service/domain/entities"
	"vellum/contexts/editorial/assignment-service/ports"
	"vellum/internal/shared/locking"
)

type Module struct {
	Handler httpadapter.Handler
	Assign  commands.AssignUseCase
	Suggest commands.SuggestReviewersUseCase
	Extend  commands.ExtendDeadlineUseCase
	Queries queries.QueryUseCase
	Sweep   workers.DeadlineSweep
	Store   *memory.Store
}

type Dependencies struct {
	Repository   ports.Repository
	Content      ports.ContentGateway
	Reviewers    ports.ReviewerGateway
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Locks        *locking.KeyedMutex
	ReviewWindow time.Duration
	WorkloadCost int
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	locks := deps.Locks
	if locks == nil {
		locks = locking.NewKeyedMutex()
	}
	assign := commands.AssignUseCase{
		Repository:   deps.Repository,
		Content:      deps.Content,
		Reviewers:    deps.Reviewers,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Locks:        locks,
		Logger:       deps.Logger,
		ReviewWindow: deps.ReviewWindow,
		WorkloadCost: deps.WorkloadCost,
	}
	suggest := commands.SuggestReviewersUseCase{
		Content:      deps.Content,
		Reviewers:    deps.Reviewers,
		Logger:       deps.Logger,
		WorkloadCost: deps.WorkloadCost,
	}
	extend := commands.ExtendDeadlineUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Locks:      locks,
		Logger:     deps.Logger,
	}
	queryUC := queries.QueryUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Assign:  assign,
			Suggest: suggest,
			Extend:  extend,
			Queries: queryUC,
			Logger:  deps.Logger,
		},
		Assign:  assign,
		Suggest: suggest,
		Extend:  extend,
		Queries: queryUC,
		Sweep: workers.DeadlineSweep{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(
	seed []entities.Assignment,
	content ports.ContentGateway,
	reviewers ports.ReviewerGateway,
	locks *locking.KeyedMutex,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Content:    content,
		Reviewers:  reviewers,
		Clock:      store,
		IDGen:      store,
		Locks:      locks,
		Logger:     logger,
	})
	module.Store = store
	return module
}
