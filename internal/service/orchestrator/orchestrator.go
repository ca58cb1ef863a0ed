package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

// Config contains orchestrator configuration
type Config struct {
	ImageDir      string
	ContentExt    string
	SkipThreshold int
}

// Orchestrator runs the acquisition phases in order:
// fetch metadata, fetch archive, extract archive, verify.
type Orchestrator struct {
	cfg       Config
	manifest  *domain.Manifest
	fetcher   port.Fetcher
	extractor port.Extractor
	verifier  port.Verifier
	fs        port.FileSystem
	runs      port.RunRepository
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a new Orchestrator. runs may be nil to disable run history.
func New(
	cfg Config,
	manifest *domain.Manifest,
	fetcher port.Fetcher,
	extractor port.Extractor,
	verifier port.Verifier,
	fs port.FileSystem,
	runs port.RunRepository,
	logger *zap.Logger,
) (*Orchestrator, error) {
	if manifest == nil {
		return nil, fmt.Errorf("%w: manifest is required", domain.ErrInvalidManifest)
	}
	if err := manifest.Require(domain.ResourceGroundTruth, domain.ResourceMetadata, domain.ResourceImages); err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:       cfg,
		manifest:  manifest,
		fetcher:   fetcher,
		extractor: extractor,
		verifier:  verifier,
		fs:        fs,
		runs:      runs,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Run executes every phase and returns the readiness report.
// A phase error stops the run; nothing already on disk is rolled back.
// Cancellation is returned as ErrInterrupted wrapping the cause.
func (o *Orchestrator) Run(ctx context.Context) (*domain.ReadinessReport, error) {
	runID := o.startRun()

	report, err := o.run(ctx, runID)
	if err != nil && isCancellation(err) {
		err = fmt.Errorf("%w: %w", domain.ErrInterrupted, err)
	}

	o.finishRun(runID, report, err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, runID int64) (*domain.ReadinessReport, error) {
	// Small files first, the large archive last
	for _, id := range []string{domain.ResourceGroundTruth, domain.ResourceMetadata} {
		if err := o.fetch(ctx, runID, domain.PhaseFetchMetadata, id); err != nil {
			return nil, err
		}
	}

	images, err := o.manifest.Lookup(domain.ResourceImages)
	if err != nil {
		return nil, err
	}

	if existing, ok := o.alreadyExtracted(images); ok {
		o.logger.Info("images already extracted, archive download not needed",
			zap.String("dir", o.cfg.ImageDir),
			zap.Int("files", existing))
		o.record(runID, domain.PhaseFetchArchive, images.ID, domain.PhaseStatusSkipped, 0,
			fmt.Sprintf("%d files already extracted", existing))
	} else if err := o.fetch(ctx, runID, domain.PhaseFetchArchive, images.ID); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if o.fs.FileExists(images.Dest) {
		result, err := o.extractor.Extract(ctx, images.Dest, o.cfg.ImageDir)
		if err != nil {
			o.record(runID, domain.PhaseExtract, images.ID, domain.PhaseStatusFailed, 0, err.Error())
			return nil, err
		}
		if result.Skipped {
			o.record(runID, domain.PhaseExtract, images.ID, domain.PhaseStatusSkipped, 0,
				fmt.Sprintf("%d files already extracted", result.ExistingCount))
		} else {
			o.record(runID, domain.PhaseExtract, images.ID, domain.PhaseStatusDone, int64(result.Entries),
				fmt.Sprintf("archive deleted: %t", result.ArchiveDeleted))
		}
	} else {
		o.record(runID, domain.PhaseExtract, images.ID, domain.PhaseStatusSkipped, 0, "archive not present")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := o.verifier.Verify()
	o.record(runID, domain.PhaseVerify, "", domain.PhaseStatusDone, int64(report.FileCount),
		fmt.Sprintf("ready: %t", report.Ready))

	o.logger.Info("dataset verified",
		zap.Int("files", report.FileCount),
		zap.Int("expected", report.ExpectedCount),
		zap.Bool("ready", report.Ready))

	return report, nil
}

// fetch runs the fetcher for one manifest entry and records the outcome
func (o *Orchestrator) fetch(ctx context.Context, runID int64, phase domain.Phase, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := o.manifest.Lookup(id)
	if err != nil {
		return err
	}

	result, err := o.fetcher.Fetch(ctx, res)
	if err != nil {
		o.record(runID, phase, id, domain.PhaseStatusFailed, 0, err.Error())
		return err
	}

	status := domain.PhaseStatusDone
	if result.Skipped {
		status = domain.PhaseStatusSkipped
	}
	o.record(runID, phase, id, status, result.Bytes, "")
	return nil
}

// alreadyExtracted reports whether the archive no longer needs to be fetched
// because its content is already on disk above the extraction skip threshold
func (o *Orchestrator) alreadyExtracted(images domain.ResourceDescriptor) (int, bool) {
	if o.cfg.SkipThreshold <= 0 || o.fs.FileExists(images.Dest) || !o.fs.DirExists(o.cfg.ImageDir) {
		return 0, false
	}

	existing, err := o.fs.CountFiles(o.cfg.ImageDir, o.cfg.ContentExt)
	if err != nil {
		o.logger.Debug("failed to count extracted files",
			zap.String("dir", o.cfg.ImageDir),
			zap.Error(err))
		return 0, false
	}
	return existing, existing > o.cfg.SkipThreshold
}

func (o *Orchestrator) startRun() int64 {
	if o.runs == nil {
		return 0
	}

	id, err := o.runs.StartRun(o.now())
	if err != nil {
		o.logger.Warn("failed to record run start", zap.Error(err))
		return 0
	}
	return id
}

func (o *Orchestrator) record(runID int64, phase domain.Phase, resourceID string, status domain.PhaseStatus, n int64, detail string) {
	if o.runs == nil || runID == 0 {
		return
	}

	event := &domain.PhaseEvent{
		RunID:      runID,
		Phase:      phase,
		ResourceID: resourceID,
		Status:     status,
		Bytes:      n,
		Detail:     detail,
		CreatedAt:  o.now(),
	}
	if err := o.runs.RecordPhase(event); err != nil {
		o.logger.Warn("failed to record phase",
			zap.String("phase", string(phase)),
			zap.Error(err))
	}
}

func (o *Orchestrator) finishRun(runID int64, report *domain.ReadinessReport, runErr error) {
	if o.runs == nil || runID == 0 {
		return
	}

	finished := o.now()
	run := &domain.Run{ID: runID, FinishedAt: &finished}

	switch {
	case runErr != nil && domain.IsInterrupted(runErr):
		run.Outcome = domain.RunOutcomeInterrupted
		run.Error = runErr.Error()
	case runErr != nil:
		run.Outcome = domain.RunOutcomeFailed
		run.Error = runErr.Error()
	case report.Ready:
		run.Outcome = domain.RunOutcomeReady
	default:
		run.Outcome = domain.RunOutcomeIncomplete
	}
	run.ApplyReport(report)

	if err := o.runs.FinishRun(run); err != nil {
		o.logger.Warn("failed to record run outcome", zap.Error(err))
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}
