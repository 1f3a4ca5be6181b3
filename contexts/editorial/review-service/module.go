package reviewservice

import (
	"log/slog"

	httpadapter "vellum/contexts/editorial/review-service/adapters/http"
	"vellum/contexts/editorial/review-service/adapters/memory"
	"vellum/contexts/editorial/review-service/application/commands"
	"vellum/contexts/editorial/review-service/application/queries"
	"vellum/contexts/editorial/review-service/domain/entities"
	"vellum/contexts/editorial/review-service/ports"
	"vellum/internal/shared/locking"
)

type Module struct {
	Handler httpadapter.Handler
	Submit  commands.SubmitReviewUseCase
	Queries queries.QueryUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Assignments ports.AssignmentGateway
	Workflow    ports.WorkflowGateway
	Reviewers   ports.ReviewerGateway
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Locks       *locking.KeyedMutex
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	locks := deps.Locks
	if locks == nil {
		locks = locking.NewKeyedMutex()
	}
	submit := commands.SubmitReviewUseCase{
		Repository:  deps.Repository,
		Assignments: deps.Assignments,
		Workflow:    deps.Workflow,
		Reviewers:   deps.Reviewers,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Locks:       locks,
		Logger:      deps.Logger,
	}
	queryUC := queries.QueryUseCase{
		Repository:  deps.Repository,
		Assignments: deps.Assignments,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Submit:  submit,
			Queries: queryUC,
			Logger:  deps.Logger,
		},
		Submit:  submit,
		Queries: queryUC,
	}
}

func NewInMemoryModule(
	seed []entities.Review,
	assignments ports.AssignmentGateway,
	workflow ports.WorkflowGateway,
	reviewers ports.ReviewerGateway,
	locks *locking.KeyedMutex,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository:  store,
		Assignments: assignments,
		Workflow:    workflow,
		Reviewers:   reviewers,
		Clock:       store,
		IDGen:       store,
		Locks:       locks,
		Logger:      logger,
	})
	module.Store = store
	return module
}
