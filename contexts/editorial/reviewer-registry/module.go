package reviewerregistry

import (
	"log/slog"

	httpadapter "vellum/contexts/editorial/reviewer-registry/adapters/http"
	"vellum/contexts/editorial/reviewer-registry/adapters/memory"
	"vellum/contexts/editorial/reviewer-registry/application"
	"vellum/contexts/editorial/reviewer-registry/domain/entities"
	"vellum/contexts/editorial/reviewer-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository      ports.Repository
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	WorkloadCeiling int
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:            deps.Repository,
		Clock:           deps.Clock,
		IDGen:           deps.IDGen,
		Logger:          deps.Logger,
		WorkloadCeiling: deps.WorkloadCeiling,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(seed []entities.Reviewer, ceiling int, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository:      store,
		Clock:           store,
		IDGen:           store,
		WorkloadCeiling: ceiling,
		Logger:          logger,
	})
	module.Store = store
	return module
}
