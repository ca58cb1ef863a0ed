package verifier

import (
	"go.uber.org/zap"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

// Config holds what the verifier checks against
type Config struct {
	ImageDir        string
	ContentExt      string
	GroundTruthPath string
	MetadataPath    string
	ReadyThreshold  int
	ExpectedCount   int
}

// Verifier inspects the local dataset without changing it
type Verifier struct {
	fs     port.FileSystem
	cfg    Config
	logger *zap.Logger
}

// New creates a new Verifier
func New(fs port.FileSystem, cfg Config, logger *zap.Logger) *Verifier {
	return &Verifier{fs: fs, cfg: cfg, logger: logger}
}

// Verify counts extracted images and checks both CSV files.
// It never fails: an unreadable image dir counts as zero files.
func (v *Verifier) Verify() *domain.ReadinessReport {
	count, err := v.fs.CountFiles(v.cfg.ImageDir, v.cfg.ContentExt)
	if err != nil {
		v.logger.Warn("failed to count images",
			zap.String("dir", v.cfg.ImageDir),
			zap.Error(err))
		count = 0
	}

	report := &domain.ReadinessReport{
		FileCount:          count,
		ExpectedCount:      v.cfg.ExpectedCount,
		ReadyThreshold:     v.cfg.ReadyThreshold,
		GroundTruthPresent: v.fs.FileExists(v.cfg.GroundTruthPath),
		MetadataPresent:    v.fs.FileExists(v.cfg.MetadataPath),
		ImageDir:           v.cfg.ImageDir,
		GroundTruthPath:    v.cfg.GroundTruthPath,
		MetadataPath:       v.cfg.MetadataPath,
	}
	report.Ready = report.FileCount >= v.cfg.ReadyThreshold &&
		report.GroundTruthPresent &&
		report.MetadataPresent

	v.logger.Debug("dataset verified",
		zap.Int("files", report.FileCount),
		zap.Bool("ground_truth", report.GroundTruthPresent),
		zap.Bool("metadata", report.MetadataPresent),
		zap.Bool("ready", report.Ready))

	return report
}

// Ensure Verifier implements port.Verifier
var _ port.Verifier = (*Verifier)(nil)
