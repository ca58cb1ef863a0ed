package port

import (
	"time"

	"github.com/vertextoedge/isic-fetch/internal/domain"
)

// RunRepository records the history of acquisition runs
type RunRepository interface {
	// StartRun inserts a new run in the running state and returns its ID
	StartRun(startedAt time.Time) (int64, error)

	// RecordPhase appends a phase event to a run
	RecordPhase(event *domain.PhaseEvent) error

	// FinishRun stores the final outcome of a run
	FinishRun(run *domain.Run) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]*domain.Run, error)

	// ListPhases returns the phase events of a run in insertion order
	ListPhases(runID int64) ([]*domain.PhaseEvent, error)

	// CloseStaleRuns marks runs still in the running state as abandoned.
	// Returns the number of runs updated.
	CloseStaleRuns(at time.Time) (int, error)

	// PruneRuns deletes finished runs started before the given time, with their phases.
	// Returns the number of runs deleted.
	PruneRuns(before time.Time) (int, error)
}
