package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadgen-cli/internal/model"
)

var batchFile string

// batchSpec is the YAML shape of a batch file: a list of search queries.
type batchSpec struct {
	Queries []string `yaml:"queries"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run search-and-qualify for a list of queries",
	Long:  "Reads a YAML file with a queries list and runs each query as its own tracked search run, sequentially. Lead processing within each run is concurrent.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(batchFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", batchFile)
		}

		var spec batchSpec
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return eris.Wrapf(err, "parse %s", batchFile)
		}
		if len(spec.Queries) == 0 {
			return eris.Errorf("no queries in %s", batchFile)
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Google == nil {
			return eris.New("batch: google places key not configured (LEADGEN_GOOGLE_KEY)")
		}
		gateSummary(cfg.Gate)

		total := &model.RunResult{}
		failures := 0
		for _, query := range spec.Queries {
			result, err := runSearch(ctx, env, query)
			if err != nil {
				zap.L().Error("batch query failed", zap.String("query", query), zap.Error(err))
				failures++
				continue
			}
			total.LeadsFound += result.LeadsFound
			total.LeadsQualified += result.LeadsQualified
			total.LeadsSkipped += result.LeadsSkipped
			total.TotalTokens += result.TotalTokens
			total.LeadIDs = append(total.LeadIDs, result.LeadIDs...)
		}

		zap.L().Info("batch complete",
			zap.Int("queries", len(spec.Queries)),
			zap.Int("failures", failures),
			zap.Int("qualified", total.LeadsQualified),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(total); err != nil {
			return err
		}
		if failures == len(spec.Queries) {
			return eris.New("batch: every query failed")
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "YAML file with a queries list (required)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
