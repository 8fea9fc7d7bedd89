package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pholdsim/phold/pkg/engine"
	"github.com/pholdsim/phold/pkg/pholderr"
	"github.com/pholdsim/phold/pkg/reporting"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Run a PHOLD simulation",
	Long:  `Loads a configuration file (or defaults), applies any --set overrides, and runs one PHOLD simulation to completion.`,
	RunE:  runPhold,
}

func init() {
	runCmd.Flags().StringArray("set", []string{}, "override config values (e.g., --set number=64 --set stop=1.0)")
	runCmd.Flags().String("format", "text", "summary output format (text, json)")
	runCmd.Flags().String("report", "", "write the full run report as JSON to this directory")
}

func runPhold(cmd *cobra.Command, args []string) error {
	setFlags, _ := cmd.Flags().GetStringArray("set")
	outputFormat, _ := cmd.Flags().GetString("format")
	reportDir, _ := cmd.Flags().GetString("report")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, setFlags); err != nil {
		return err
	}
	if reportDir != "" {
		cfg.ReportPath = reportDir
	}

	logLevel := reporting.LogLevel(cfg.Logging.Level)
	if verbose {
		logLevel = reporting.LogLevelDebug
	}
	logger := reporting.NewLogger(reporting.LoggerConfig{
		Level:  logLevel,
		Format: reporting.LogFormat(cfg.Logging.Format),
		Output: os.Stdout,
	})

	if v := cfg.Validate(); !v.OK() {
		return v.Err()
	}

	logger.Info("starting phold run", "number", cfg.Number, "partitions", cfg.Partitions, "stop", cfg.Stop)

	eng := engine.New(cfg, logger)
	report, err := eng.Run(context.Background())
	if err != nil {
		logger.Error("run failed", "state", eng.State().String(), "error", err.Error())
		os.Exit(pholderr.ExitCode(err))
	}

	if cfg.ReportPath != "" {
		storage, err := reporting.NewStorage(cfg.ReportPath, logger)
		if err != nil {
			return fmt.Errorf("failed to prepare report storage: %w", err)
		}
		if _, err := storage.SaveReport(report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
	}

	return printSummary(report, outputFormat)
}

func printSummary(report *reporting.RunReport, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Println(string(data))
	default:
		fmt.Printf("run %s: send_total=%d recv_total=%d error=%d duration=%s\n",
			report.RunID, report.SendTotal, report.RecvTotal, report.Error, report.Duration)
		if report.ReceiverMismatch {
			fmt.Printf("  note: send/recv totals differ by %d (expected residue from in-flight events at stop)\n", report.Error)
		}
		for _, w := range report.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
	return nil
}
