package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vertextoedge/isic-fetch/internal/adapter/archive"
	"github.com/vertextoedge/isic-fetch/internal/adapter/filesystem"
	"github.com/vertextoedge/isic-fetch/internal/adapter/sqlite"
	"github.com/vertextoedge/isic-fetch/internal/config"
	"github.com/vertextoedge/isic-fetch/internal/console"
	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/logger"
	"github.com/vertextoedge/isic-fetch/internal/port"
	"github.com/vertextoedge/isic-fetch/internal/service/extractor"
	"github.com/vertextoedge/isic-fetch/internal/service/fetcher"
	"github.com/vertextoedge/isic-fetch/internal/service/maintenance"
	"github.com/vertextoedge/isic-fetch/internal/service/orchestrator"
	"github.com/vertextoedge/isic-fetch/internal/service/verifier"
)

const (
	defaultConfigPath = "config.yaml"
	datasetSource     = "ISIC Archive (AWS S3 public)"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "isic-fetch",
		Short:         "Download, extract and verify the ISIC 2019 training dataset",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runFetch(cmd, cfg, configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to configuration file")
	cmd.AddCommand(newHistoryCmd(&configPath))

	return cmd
}

// loadConfig reads the config file; a missing default file falls back to
// built-in defaults and environment overrides
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func runFetch(cmd *cobra.Command, cfg *config.Config, configPath string) error {
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()
	zapLogger.Info("starting isic-fetch",
		zap.String("version", version),
		zap.String("config", configPath),
		zap.String("data_root", cfg.Data.RootDir))

	out := cmd.OutOrStdout()
	progress := cfg.Progress.Enabled && isatty.IsTerminal(os.Stdout.Fd())
	con := console.New(out, progress, cfg.Progress.GetRefreshInterval())

	manifest, err := cfg.Manifest()
	if err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}

	fsManager, err := filesystem.NewManager(cfg.Data.RootDir)
	if err != nil {
		return fmt.Errorf("failed to prepare data root: %w", err)
	}

	var runs port.RunRepository
	if cfg.History.Enabled {
		store, err := sqlite.Open(cfg.HistoryPath())
		if err != nil {
			// History is informational; the run goes on without it
			zapLogger.Warn("run history unavailable",
				zap.String("path", cfg.HistoryPath()),
				zap.Error(err))
		} else {
			defer store.Close()
			runs = store

			maintenance.New(&maintenance.Config{HistoryMaxAge: cfg.History.GetMaxAge()}, store, zapLogger).Run()
		}
	}

	client := fetcher.NewHTTPClient(cfg.Fetch.GetConnectTimeout(), cfg.Fetch.GetResponseHeaderTimeout())
	f := fetcher.New(client, fsManager, fetcher.NewSpaceManager(fsManager), con, zapLogger, cfg.Fetch.ChunkSize)
	e := extractor.New(fsManager, archive.NewZipOpener(), con, zapLogger, cfg.Data.ContentExt, cfg.Extract.SkipThreshold)

	gt, _ := manifest.Get(domain.ResourceGroundTruth)
	meta, _ := manifest.Get(domain.ResourceMetadata)
	v := verifier.New(fsManager, verifier.Config{
		ImageDir:        cfg.ImageDirPath(),
		ContentExt:      cfg.Data.ContentExt,
		GroundTruthPath: gt.Dest,
		MetadataPath:    meta.Dest,
		ReadyThreshold:  cfg.Verify.ReadyThreshold,
		ExpectedCount:   cfg.Verify.ExpectedCount,
	}, zapLogger)

	orch, err := orchestrator.New(orchestrator.Config{
		ImageDir:      cfg.ImageDirPath(),
		ContentExt:    cfg.Data.ContentExt,
		SkipThreshold: cfg.Extract.SkipThreshold,
	}, manifest, f, e, v, fsManager, runs, zapLogger)
	if err != nil {
		return err
	}

	con.Banner(datasetSource)

	report, err := orch.Run(cmd.Context())
	switch {
	case domain.IsInterrupted(err):
		zapLogger.Info("run interrupted", zap.Error(err))
		con.Interrupted()
		return nil
	case err != nil:
		zapLogger.Error("run failed", zap.Error(err))
		con.Fatal(err)
		return errReported
	}

	con.Report(report)
	return nil
}
