package workers

import (
	"context"
	"log/slog"
	"time"

	application "vellum/contexts/editorial/assignment-service/application"
	"vellum/contexts/editorial/assignment-service/domain/entities"
	"vellum/contexts/editorial/assignment-service/ports"
)

// DeadlineSweep flags active assignments whose deadline has passed. Flagged
// assignments stay active so reviews can still land; the flag only surfaces
// them on the calendar and dashboards.
type DeadlineSweep struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (s DeadlineSweep) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(s.Logger)
	now := s.Clock.Now().UTC()

	active, err := s.Repository.ListAssignments(ctx, ports.AssignmentFilter{Status: entities.StatusActive})
	if err != nil {
		logger.Error("deadline sweep list failed",
			"event", "deadline_sweep_list_failed",
			"module", "editorial/assignment-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	flagged := 0
	for _, assignment := range active {
		if assignment.Overdue || !assignment.DueBefore(now) {
			continue
		}
		assignment.Overdue = true
		assignment.UpdatedAt = now
		if err := s.Repository.UpdateAssignment(ctx, assignment); err != nil {
			logger.Error("deadline sweep update failed",
				"event", "deadline_sweep_update_failed",
				"module", "editorial/assignment-service",
				"layer", "worker",
				"assignment_id", assignment.AssignmentID,
				"error", err.Error(),
			)
			return flagged, err
		}
		flagged++
		logger.Warn("assignment overdue",
			"event", "assignment_overdue",
			"module", "editorial/assignment-service",
			"layer", "worker",
			"assignment_id", assignment.AssignmentID,
			"content_id", assignment.ContentID,
			"deadline", assignment.Deadline.Format(time.RFC3339),
		)
	}

	if flagged > 0 {
		logger.Info("deadline sweep completed",
			"event", "deadline_sweep_completed",
			"module", "editorial/assignment-service",
			"layer", "worker",
			"flagged_count", flagged,
		)
	}
	return flagged, nil
}
