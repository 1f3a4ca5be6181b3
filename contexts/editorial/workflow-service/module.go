package workflowservice

import (
	"log/slog"

	httpadapter "vellum/contexts/editorial/workflow-service/adapters/http"
	"vellum/contexts/editorial/workflow-service/adapters/memory"
	"vellum/contexts/editorial/workflow-service/application/commands"
	"vellum/contexts/editorial/workflow-service/application/queries"
	"vellum/contexts/editorial/workflow-service/application/workers"
	"vellum/contexts/editorial/workflow-service/domain/entities"
	"vellum/contexts/editorial/workflow-service/ports"
	"vellum/internal/shared/locking"
)

type Module struct {
	Handler   httpadapter.Handler
	Submit    commands.SubmitContentUseCase
	Lifecycle commands.LifecycleUseCase
	Decisions commands.EditorialDecisionUseCase
	Queries   queries.QueryUseCase
	Store     *memory.Store
}

type Dependencies struct {
	Repository        ports.Repository
	Clock             ports.Clock
	IDGen             ports.IDGenerator
	Locks             *locking.KeyedMutex
	Assignments       ports.AssignmentGateway
	Reviews           ports.ReviewGateway
	Quorum            int
	ApprovalThreshold string
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	locks := deps.Locks
	if locks == nil {
		locks = locking.NewKeyedMutex()
	}
	submit := commands.SubmitContentUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Locks:      locks,
		Logger:     deps.Logger,
	}
	lifecycle := commands.LifecycleUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	decisions := commands.EditorialDecisionUseCase{
		Repository:        deps.Repository,
		Assignments:       deps.Assignments,
		Reviews:           deps.Reviews,
		Clock:             deps.Clock,
		IDGen:             deps.IDGen,
		Locks:             locks,
		Logger:            deps.Logger,
		Quorum:            deps.Quorum,
		ApprovalThreshold: deps.ApprovalThreshold,
	}
	queryUC := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Submit:    submit,
			Decisions: decisions,
			Queries:   queryUC,
			Logger:    deps.Logger,
		},
		Submit:    submit,
		Lifecycle: lifecycle,
		Decisions: decisions,
		Queries:   queryUC,
	}
}

func NewInMemoryModule(
	seed []entities.ContentItem,
	assignments ports.AssignmentGateway,
	reviews ports.ReviewGateway,
	locks *locking.KeyedMutex,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGen:       store,
		Locks:       locks,
		Assignments: assignments,
		Reviews:     reviews,
		Logger:      logger,
	})
	module.Store = store
	return module
}

// NewOutboxRelay builds the relay worker over the module's repository.
func NewOutboxRelay(repo ports.Repository, publisher ports.EventPublisher, clock ports.Clock, logger *slog.Logger) workers.OutboxRelay {
	return workers.OutboxRelay{
		Outbox:    repo,
		Publisher: publisher,
		Clock:     clock,
		Topic:     "editorial.content.lifecycle",
		Logger:    logger,
	}
}
