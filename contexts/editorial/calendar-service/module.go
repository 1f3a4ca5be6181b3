package calendarservice

import (
	"log/slog"
	"time"

	httpadapter "vellum/contexts/editorial/calendar-service/adapters/http"
	"vellum/contexts/editorial/calendar-service/adapters/memory"
	"vellum/contexts/editorial/calendar-service/application"
	"vellum/contexts/editorial/calendar-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Deadlines     ports.DeadlineSource
	Activity      ports.ActivityStore
	EventDedup    ports.EventDedupStore
	Clock         ports.Clock
	EventDedupTTL time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Deadlines:     deps.Deadlines,
		Activity:      deps.Activity,
		EventDedup:    deps.EventDedup,
		Clock:         deps.Clock,
		EventDedupTTL: deps.EventDedupTTL,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule wires the calendar over the in-process activity store.
// The calendar is a pure read model, so memory is the only adapter.
func NewInMemoryModule(deadlines ports.DeadlineSource, logger *slog.Logger) Module {
	store := memory.NewStore(0)
	module := NewModule(Dependencies{
		Deadlines:  deadlines,
		Activity:   store,
		EventDedup: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
