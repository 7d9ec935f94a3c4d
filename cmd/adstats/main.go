package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"go-ad-stats/internal/pipeline"
	"go-ad-stats/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adstats <input.csv>",
		Short: "Compute grouped descriptive statistics over an advertising dataset",
		Long: `adstats reads a CSV of advertising records and writes three JSON
reports: overall statistics, statistics per page, and statistics per
(page, ad) pair. The aggregation backend is selectable; all backends
produce identical numbers.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runStats,
	}

	cmd.Flags().String("output", "stats_output", "output basename for the JSON reports")
	cmd.Flags().String("backend", "rows", "aggregation backend: rows, frame or vector")
	cmd.Flags().String("db", "adstats.db", "path to the run-history database")
	cmd.Flags().Bool("verbose", false, "enable debug logging")

	viper.SetEnvPrefix("ADSTATS")
	viper.AutomaticEnv()
	viper.BindPFlags(cmd.Flags())

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	log, err := newLogger(viper.GetBool("verbose"))
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := store.InitDB(viper.GetString("db")); err != nil {
		return fmt.Errorf("opening run database: %w", err)
	}
	defer store.Close()

	cfg := pipeline.Config{
		Input:      args[0],
		OutputBase: viper.GetString("output"),
		Backend:    viper.GetString("backend"),
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, cfg.Input, cfg.OutputBase, cfg.Backend); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return pipeline.Run(cmd.Context(), log, runID, cfg)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
