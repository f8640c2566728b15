package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/crawler"
	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/scoring"
	"github.com/sells-group/leadgen-cli/internal/store"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/google"
	"github.com/sells-group/leadgen-cli/pkg/notion"
)

// pipelineEnv holds the initialized store, API clients and pipeline shared
// by the search/run/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Google   google.Client
	Notion   notion.Client
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline sets up the store and API clients and builds the Pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	if reaped, err := st.DeleteExpiredCrawls(ctx); err != nil {
		zap.L().Warn("expired crawl reap failed", zap.Error(err))
	} else if reaped > 0 {
		zap.L().Info("expired crawl cache entries removed", zap.Int("count", reaped))
	}

	engine, err := scoring.NewEngine(cfg.Scoring)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var googleClient google.Client
	if cfg.Google.Key != "" {
		opts := []google.Option{}
		if cfg.Google.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(cfg.Google.BaseURL))
		}
		googleClient = google.NewClient(cfg.Google.Key, opts...)
	}

	// Enrichment is optional: without an API key leads are scored and
	// gated but carry no generated reports.
	var enricher *pipeline.Enricher
	if cfg.Anthropic.Key != "" {
		enricher = pipeline.NewEnricher(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	} else {
		zap.L().Warn("LEADGEN_ANTHROPIC_KEY not set, report generation disabled")
	}

	var notionClient notion.Client
	var exporter *export.NotionExporter
	if cfg.Notion.Token != "" && cfg.Notion.LeadDB != "" {
		notionClient = notion.NewClient(cfg.Notion.Token)
		exporter = export.NewNotionExporter(notionClient, cfg.Notion.LeadDB)
	} else {
		zap.L().Warn("notion not configured, lead export disabled")
	}

	p := pipeline.New(st, crawler.New(cfg.Crawl), engine, enricher, exporter, cfg)

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
		Google:   googleClient,
		Notion:   notionClient,
	}, nil
}

// gateSummary logs the active gate thresholds once per command invocation.
func gateSummary(gate config.GateConfig) {
	zap.L().Info("enrichment gate",
		zap.Float64("min_score", gate.MinScore),
		zap.Float64("min_rating", gate.MinRating),
		zap.Float64("max_rating", gate.MaxRating),
		zap.Int("min_review_count", gate.MinReviewCount),
	)
}
