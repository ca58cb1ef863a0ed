package sqlite

import (
	"database/sql"
	"time"

	"github.com/vertextoedge/isic-fetch/internal/domain"
)

// StartRun inserts a new run in the running state
func (s *Store) StartRun(startedAt time.Time) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (started_at, outcome) VALUES (?, ?)`,
		startedAt.UTC(), string(domain.RunOutcomeRunning))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// RecordPhase appends a phase event
func (s *Store) RecordPhase(event *domain.PhaseEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	result, err := s.db.Exec(`
		INSERT INTO phase_events (run_id, phase, resource_id, status, bytes, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		event.RunID, string(event.Phase), nullString(event.ResourceID), string(event.Status),
		event.Bytes, nullString(event.Detail), event.CreatedAt.UTC())
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	event.ID = id
	return nil
}

// FinishRun stores the final outcome of a run
func (s *Store) FinishRun(run *domain.Run) error {
	finishedAt := time.Now()
	if run.FinishedAt != nil {
		finishedAt = *run.FinishedAt
	}

	result, err := s.db.Exec(`
		UPDATE runs
		SET finished_at = ?, outcome = ?, file_count = ?,
			ground_truth_present = ?, metadata_present = ?, ready = ?, error = ?
		WHERE id = ?
	`,
		finishedAt.UTC(), string(run.Outcome), run.FileCount,
		run.GroundTruthPresent, run.MetadataPresent, run.Ready, nullString(run.Error),
		run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	run.FinishedAt = &finishedAt
	return nil
}

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, outcome, file_count,
			   ground_truth_present, metadata_present, ready, error
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run := &domain.Run{}
		var finishedAt sql.NullTime
		var outcome string
		var errMsg sql.NullString

		if err := rows.Scan(
			&run.ID, &run.StartedAt, &finishedAt, &outcome, &run.FileCount,
			&run.GroundTruthPresent, &run.MetadataPresent, &run.Ready, &errMsg,
		); err != nil {
			return nil, err
		}

		run.Outcome = domain.RunOutcome(outcome)
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListPhases returns the phase events of a run in insertion order
func (s *Store) ListPhases(runID int64) ([]*domain.PhaseEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, phase, resource_id, status, bytes, detail, created_at
		FROM phase_events
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.PhaseEvent
	for rows.Next() {
		e := &domain.PhaseEvent{}
		var phase, status string
		var resourceID, detail sql.NullString

		if err := rows.Scan(
			&e.ID, &e.RunID, &phase, &resourceID, &status, &e.Bytes, &detail, &e.CreatedAt,
		); err != nil {
			return nil, err
		}

		e.Phase = domain.Phase(phase)
		e.Status = domain.PhaseStatus(status)
		if resourceID.Valid {
			e.ResourceID = resourceID.String
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CloseStaleRuns marks every run still in the running state as abandoned
func (s *Store) CloseStaleRuns(at time.Time) (int, error) {
	result, err := s.db.Exec(`
		UPDATE runs
		SET outcome = ?, finished_at = ?, error = ?
		WHERE outcome = ?
	`,
		string(domain.RunOutcomeAbandoned), at.UTC(), "process exited before the run finished",
		string(domain.RunOutcomeRunning))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}

// PruneRuns deletes finished runs started before the given time
func (s *Store) PruneRuns(before time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM phase_events
		WHERE run_id IN (SELECT id FROM runs WHERE started_at < ? AND outcome != ?)
	`, before.UTC(), string(domain.RunOutcomeRunning)); err != nil {
		return 0, err
	}

	result, err := tx.Exec(`DELETE FROM runs WHERE started_at < ? AND outcome != ?`,
		before.UTC(), string(domain.RunOutcomeRunning))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), tx.Commit()
}
