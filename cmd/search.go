package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/ingest"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/pkg/notion"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Google Places and qualify the results",
	Long:  `Runs a Places text search (e.g. "plumbers in Columbus Ohio"), drops businesses already exported or without reachable contact emails, and pushes the rest through the qualification pipeline.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Google == nil {
			return eris.New("search: google places key not configured (LEADGEN_GOOGLE_KEY)")
		}
		gateSummary(cfg.Gate)

		result, err := runSearch(ctx, env, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// runSearch executes one search query end to end under a tracked run
// record. Failures are written onto the run before being returned.
func runSearch(ctx context.Context, env *pipelineEnv, query string) (*model.RunResult, error) {
	run, err := env.Store.CreateRun(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "create run")
	}
	return completeRun(ctx, env, run, query)
}

// completeRun drives an already-created run record to its terminal state.
func completeRun(ctx context.Context, env *pipelineEnv, run *model.Run, query string) (*model.RunResult, error) {
	result, err := executeSearch(ctx, env, run, query)
	if err != nil {
		failed := &model.RunResult{Error: err.Error()}
		if uerr := env.Store.UpdateRunResult(ctx, run.ID, failed); uerr != nil {
			zap.L().Error("run result update failed", zap.String("run_id", run.ID), zap.Error(uerr))
		}
		return nil, err
	}

	if err := env.Store.UpdateRunResult(ctx, run.ID, result); err != nil {
		return nil, eris.Wrap(err, "update run result")
	}

	zap.L().Info("search run complete",
		zap.String("run_id", run.ID),
		zap.String("query", query),
		zap.Int("found", result.LeadsFound),
		zap.Int("qualified", result.LeadsQualified),
		zap.Int("skipped", result.LeadsSkipped),
		zap.Int64("total_tokens", result.TotalTokens),
	)
	return result, nil
}

func executeSearch(ctx context.Context, env *pipelineEnv, run *model.Run, query string) (*model.RunResult, error) {
	if err := env.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusSearching); err != nil {
		return nil, eris.Wrap(err, "update run status")
	}

	resp, err := env.Google.TextSearch(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "text search %q", query)
	}
	zap.L().Info("places found", zap.String("query", query), zap.Int("count", len(resp.Places)))

	leads := make([]*model.Lead, 0, len(resp.Places))
	for _, raw := range resp.Places {
		lead, err := ingest.ParseLead(raw)
		if err != nil {
			zap.L().Warn("place record rejected", zap.Error(err))
			continue
		}
		leads = append(leads, lead)
	}
	totalParsed := len(leads)

	leads, err = dropKnown(ctx, env, leads)
	if err != nil {
		return nil, err
	}

	leads, droppedNoEmail := dropWithoutEmails(ctx, leads)

	if err := env.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusProcessing); err != nil {
		return nil, eris.Wrap(err, "update run status")
	}

	outcomes := env.Pipeline.ProcessAll(ctx, leads)

	result := pipeline.Tally(outcomes)
	result.LeadsFound = totalParsed
	result.LeadsSkipped += droppedNoEmail
	return result, nil
}

// dropKnown removes places already persisted locally or already exported
// to the Notion lead database, so reruns never duplicate work.
func dropKnown(ctx context.Context, env *pipelineEnv, leads []*model.Lead) ([]*model.Lead, error) {
	known, err := env.Store.KnownPlaceIDs(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load known place ids")
	}

	if env.Notion != nil {
		exported, err := notion.ExportedPlaceIDs(ctx, env.Notion, cfg.Notion.LeadDB)
		if err != nil {
			return nil, eris.Wrap(err, "load exported place ids")
		}
		for id := range exported {
			known[id] = true
		}
	}

	kept := leads[:0]
	for _, lead := range leads {
		if known[lead.ID] {
			zap.L().Debug("place already processed, skipping",
				zap.String("place_id", lead.ID),
				zap.String("name", lead.DisplayName))
			continue
		}
		kept = append(kept, lead)
	}
	return kept, nil
}

// dropWithoutEmails probes each lead's website for contact emails and
// drops leads with none: without an address there is nobody to pitch.
// The full crawl later may still widen the email set for survivors.
func dropWithoutEmails(ctx context.Context, leads []*model.Lead) ([]*model.Lead, int) {
	timeout := time.Duration(cfg.Crawl.TimeoutSecs) * time.Second
	dropped := 0

	kept := leads[:0]
	for _, lead := range leads {
		if lead.WebsiteURI != "" {
			lead.Emails = extract.FetchAndExtract(ctx, lead.WebsiteURI, timeout)
		}
		if len(lead.Emails) == 0 {
			zap.L().Info("no contact emails, dropping lead",
				zap.String("place_id", lead.ID),
				zap.String("name", lead.DisplayName))
			dropped++
			continue
		}
		kept = append(kept, lead)
	}
	return kept, dropped
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
