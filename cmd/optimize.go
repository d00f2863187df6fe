package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/offgridlab/gridsizer/internal/config"
	"github.com/offgridlab/gridsizer/internal/microgrid"
	"github.com/offgridlab/gridsizer/internal/sizing"
)

var (
	configPath string
	outPath    string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the sizing optimization",
	Long: `Loads a study configuration, runs the global search and optional local
polish against the simulator, and prints the full result report.`,
	RunE: runOptimization,
}

func init() {
	optimizeCmd.Flags().StringVar(&configPath, "config", "", "Study configuration file (required)")
	optimizeCmd.Flags().StringVar(&outPath, "out", "", "Optional path for the JSON report")

	optimizeCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	conf, err := config.LoadConfiguration(configPath)
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	space, err := conf.Space()
	if err != nil {
		return err
	}

	slog.Info("Loaded study configuration",
		"config", configPath,
		"algorithm", conf.Optimizer.Algorithm,
		"max_evals", conf.Optimizer.MaxEvals,
	)

	simulator := microgrid.NewSyntheticSimulator()
	adapter := sizing.NewAdapter(simulator, conf.BaseScenario())

	start := time.Now()
	report, err := sizing.RunPipeline(adapter, space, conf.PipelineConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	slog.Info("Study complete",
		"elapsed", elapsed,
		"evaluations", report.Evaluations,
		"lcoe", report.LCOE,
	)

	fmt.Print(report.String())

	if outPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Wrote %s\n", outPath)
	}

	return nil
}
