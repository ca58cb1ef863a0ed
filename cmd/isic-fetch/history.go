package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertextoedge/isic-fetch/internal/adapter/sqlite"
	"github.com/vertextoedge/isic-fetch/internal/console"
	"github.com/vertextoedge/isic-fetch/internal/logger"
)

func newHistoryCmd(configPath *string) *cobra.Command {
	var (
		limit int
		runID int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs recorded in the run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			con := console.New(cmd.OutOrStdout(), false, 0)

			path := cfg.HistoryPath()
			if !fileExists(path) {
				con.PrintRuns(nil)
				return nil
			}

			store, err := sqlite.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer store.Close()

			if runID > 0 {
				phases, err := store.ListPhases(runID)
				if err != nil {
					return fmt.Errorf("failed to list phases: %w", err)
				}
				con.PrintPhases(phases)
				return nil
			}

			runs, err := store.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			con.PrintRuns(runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().Int64Var(&runID, "run", 0, "Show the phase events of one run")

	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
