package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/ingest"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var runFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Qualify leads from a JSON file of place records",
	Long:  "Reads raw Places API records from a JSON array and runs each through the qualification pipeline, bypassing the search phase.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(runFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", runFile)
		}

		leads, parseErrs := ingest.ParseLeads(data)
		for _, perr := range parseErrs {
			zap.L().Warn("place record rejected", zap.Error(perr))
		}
		if len(leads) == 0 {
			return eris.Errorf("no valid place records in %s", runFile)
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()
		gateSummary(cfg.Gate)

		outcomes := env.Pipeline.ProcessAll(ctx, leads)
		result := pipeline.Tally(outcomes)

		zap.L().Info("file run complete",
			zap.String("file", runFile),
			zap.Int("rejected", len(parseErrs)),
			zap.Int("qualified", result.LeadsQualified),
			zap.Int("skipped", result.LeadsSkipped),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "JSON file of raw place records (required)")
	_ = runCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd)
}
