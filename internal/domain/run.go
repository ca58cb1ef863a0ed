package domain

import "time"

// Phase names a step of the acquisition sequence
type Phase string

const (
	PhaseFetchMetadata Phase = "fetch_metadata"
	PhaseFetchArchive  Phase = "fetch_archive"
	PhaseExtract       Phase = "extract_archive"
	PhaseVerify        Phase = "verify"
)

// PhaseStatus is the outcome of a single phase step
type PhaseStatus string

const (
	PhaseStatusDone    PhaseStatus = "done"
	PhaseStatusSkipped PhaseStatus = "skipped"
	PhaseStatusFailed  PhaseStatus = "failed"
)

// RunOutcome is the final state of one invocation
type RunOutcome string

const (
	RunOutcomeRunning     RunOutcome = "running"
	RunOutcomeReady       RunOutcome = "ready"
	RunOutcomeIncomplete  RunOutcome = "incomplete"
	RunOutcomeInterrupted RunOutcome = "interrupted"
	RunOutcomeFailed      RunOutcome = "failed"
	RunOutcomeAbandoned   RunOutcome = "abandoned"
)

// Run is one recorded invocation of the acquisition sequence.
// Runs are informational; nothing reads them back to decide what to fetch.
type Run struct {
	ID                 int64
	StartedAt          time.Time
	FinishedAt         *time.Time
	Outcome            RunOutcome
	FileCount          int
	GroundTruthPresent bool
	MetadataPresent    bool
	Ready              bool
	Error              string
}

// ApplyReport copies the readiness fields of a report onto the run
func (r *Run) ApplyReport(report *ReadinessReport) {
	if report == nil {
		return
	}
	r.FileCount = report.FileCount
	r.GroundTruthPresent = report.GroundTruthPresent
	r.MetadataPresent = report.MetadataPresent
	r.Ready = report.Ready
}

// PhaseEvent records the outcome of one phase step within a run
type PhaseEvent struct {
	ID         int64
	RunID      int64
	Phase      Phase
	ResourceID string
	Status     PhaseStatus
	Bytes      int64
	Detail     string
	CreatedAt  time.Time
}
