package maintenance

import (
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/isic-fetch/internal/port"
)

// Config contains maintenance service configuration
type Config struct {
	// HistoryMaxAge is how long finished runs are kept; zero keeps them forever
	HistoryMaxAge time.Duration
}

// DefaultConfig returns default maintenance configuration
func DefaultConfig() *Config {
	return &Config{
		HistoryMaxAge: 90 * 24 * time.Hour,
	}
}

// Result reports what a maintenance pass changed
type Result struct {
	Abandoned int
	Pruned    int
}

// Service keeps the run history tidy between invocations
type Service struct {
	config *Config
	runs   port.RunRepository
	logger *zap.Logger
	now    func() time.Time
}

// New creates a new maintenance Service
func New(cfg *Config, runs port.RunRepository, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Service{
		config: cfg,
		runs:   runs,
		logger: logger,
		now:    time.Now,
	}
}

// Run performs one maintenance pass. It must be called before a new run starts:
// any run still marked running at that point belongs to a process that died.
func (s *Service) Run() *Result {
	return &Result{
		Abandoned: s.closeStaleRuns(),
		Pruned:    s.pruneOldRuns(),
	}
}

// closeStaleRuns marks runs left in the running state as abandoned
func (s *Service) closeStaleRuns() int {
	closed, err := s.runs.CloseStaleRuns(s.now())
	if err != nil {
		s.logger.Error("failed to close stale runs", zap.Error(err))
		return 0
	}
	if closed > 0 {
		s.logger.Info("marked stale runs as abandoned", zap.Int("count", closed))
	}
	return closed
}

// pruneOldRuns removes finished runs older than the configured age
func (s *Service) pruneOldRuns() int {
	if s.config.HistoryMaxAge <= 0 {
		return 0
	}

	pruned, err := s.runs.PruneRuns(s.now().Add(-s.config.HistoryMaxAge))
	if err != nil {
		s.logger.Error("failed to prune run history", zap.Error(err))
		return 0
	}
	if pruned > 0 {
		s.logger.Info("pruned old runs from history", zap.Int("count", pruned))
	}
	return pruned
}
