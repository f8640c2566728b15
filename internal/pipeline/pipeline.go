// Package pipeline orchestrates the per-lead qualification flow:
// crawl, email extraction, scoring, the enrichment gate, report
// generation and export.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/crawler"
	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scoring"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// Outcome is the result of processing one lead end to end.
type Outcome struct {
	Lead   *model.Lead
	Phases []model.PhaseResult
	Usage  anthropic.TokenUsage
	Err    error
}

// Pipeline wires the per-lead phases together. Enricher and Exporter are
// optional: without an enricher qualified leads are scored and persisted
// but carry no reports; without an exporter nothing is written to Notion.
type Pipeline struct {
	store    store.Store
	crawler  *crawler.Crawler
	engine   *scoring.Engine
	enricher *Enricher
	exporter *export.NotionExporter
	cfg      *config.Config
}

// New assembles a pipeline from its phase implementations.
func New(st store.Store, cr *crawler.Crawler, eng *scoring.Engine, enr *Enricher, exp *export.NotionExporter, cfg *config.Config) *Pipeline {
	return &Pipeline{
		store:    st,
		crawler:  cr,
		engine:   eng,
		enricher: enr,
		exporter: exp,
		cfg:      cfg,
	}
}

// Process runs one lead through every phase. The lead is always persisted,
// whatever happened before; a non-nil Outcome.Err means a phase failed but
// never that the lead was lost.
func (p *Pipeline) Process(ctx context.Context, lead *model.Lead) *Outcome {
	out := &Outcome{Lead: lead}

	crawlResult := p.runCrawl(ctx, out, lead)
	p.runExtract(out, lead, crawlResult)
	p.runScore(out, lead)
	decision := p.runGate(out, lead)

	if decision.Proceed && p.enricher != nil {
		p.runEnrich(ctx, out, lead, crawlResult)
	}

	if lead.Qualified() && lead.Enrichment != nil && p.exporter != nil {
		p.runExport(ctx, out, lead)
	}

	if err := p.store.SaveLead(ctx, lead); err != nil {
		out.Err = eris.Wrapf(err, "pipeline: persist lead %s", lead.ID)
		zap.L().Error("lead persist failed", zap.String("lead_id", lead.ID), zap.Error(err))
	}

	return out
}

// ProcessAll processes leads concurrently, bounded by the configured
// batch limit. A failing lead never stops its neighbors; per-lead errors
// are carried in each Outcome.
func (p *Pipeline) ProcessAll(ctx context.Context, leads []*model.Lead) []*Outcome {
	outcomes := make([]*Outcome, len(leads))

	limit := p.cfg.Batch.MaxConcurrentLeads
	if limit <= 0 {
		limit = 1
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, lead := range leads {
		g.Go(func() error {
			out := p.Process(ctx, lead)
			mu.Lock()
			outcomes[i] = out
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Tally folds a set of outcomes into run-level totals.
func Tally(outcomes []*Outcome) *model.RunResult {
	result := &model.RunResult{}
	for _, out := range outcomes {
		if out == nil {
			continue
		}
		result.LeadsFound++
		result.TotalTokens += out.Usage.Total()
		result.LeadIDs = append(result.LeadIDs, out.Lead.ID)
		if out.Lead.Qualified() {
			result.LeadsQualified++
		} else {
			result.LeadsSkipped++
		}
	}
	return result
}

func (p *Pipeline) runCrawl(ctx context.Context, out *Outcome, lead *model.Lead) crawler.Result {
	start := time.Now()

	if lead.WebsiteURI == "" || lead.Closed() {
		out.Phases = append(out.Phases, phase("crawl", model.PhaseStatusSkipped, start, nil))
		return crawler.Result{}
	}

	if cached, err := p.store.GetCachedCrawl(ctx, lead.WebsiteURI); err != nil {
		zap.L().Warn("crawl cache lookup failed", zap.String("url", lead.WebsiteURI), zap.Error(err))
	} else if cached != nil {
		out.Phases = append(out.Phases, phase("crawl", model.PhaseStatusComplete, start, map[string]any{
			"pages":  len(cached),
			"cached": true,
		}))
		return crawler.Result{RootFetched: true, Pages: cached}
	}

	result := p.crawler.Crawl(ctx, lead.WebsiteURI, p.cfg.Crawl.MaxPages)

	if result.RootFetched {
		ttl := time.Duration(p.cfg.Crawl.CacheTTLHours) * time.Hour
		if err := p.store.SetCachedCrawl(ctx, lead.WebsiteURI, result.Pages, ttl); err != nil {
			zap.L().Warn("crawl cache write failed", zap.String("url", lead.WebsiteURI), zap.Error(err))
		}
	}

	status := model.PhaseStatusComplete
	if !result.RootFetched {
		status = model.PhaseStatusFailed
	}
	out.Phases = append(out.Phases, phase("crawl", status, start, map[string]any{
		"pages": len(result.Pages),
	}))
	return result
}

func (p *Pipeline) runExtract(out *Outcome, lead *model.Lead, crawlResult crawler.Result) {
	start := time.Now()
	lead.Emails = extract.Union(lead.Emails, extract.FromPages(crawlResult.Pages))
	out.Phases = append(out.Phases, phase("extract", model.PhaseStatusComplete, start, map[string]any{
		"emails": len(lead.Emails),
	}))
}

func (p *Pipeline) runScore(out *Outcome, lead *model.Lead) {
	start := time.Now()
	combined := p.engine.Score(lead)
	out.Phases = append(out.Phases, phase("score", model.PhaseStatusComplete, start, map[string]any{
		"base":     lead.BaseScore,
		"combined": combined,
	}))
}

func (p *Pipeline) runGate(out *Outcome, lead *model.Lead) Decision {
	start := time.Now()
	decision := Decide(lead, p.cfg.Gate)
	if !decision.Proceed {
		lead.SkipReason = decision.Reason
		zap.L().Info("lead skipped",
			zap.String("lead_id", lead.ID),
			zap.String("reason", decision.Reason))
	}
	out.Phases = append(out.Phases, phase("gate", model.PhaseStatusComplete, start, map[string]any{
		"proceed": decision.Proceed,
		"reason":  decision.Reason,
	}))
	return decision
}

func (p *Pipeline) runEnrich(ctx context.Context, out *Outcome, lead *model.Lead, crawlResult crawler.Result) {
	start := time.Now()
	usage, err := p.enricher.Enrich(ctx, lead, crawlResult)
	out.Usage.InputTokens += usage.InputTokens
	out.Usage.OutputTokens += usage.OutputTokens
	if err != nil {
		out.Err = err
		out.Phases = append(out.Phases, failedPhase("enrich", start, err))
		zap.L().Error("enrichment failed", zap.String("lead_id", lead.ID), zap.Error(err))
		return
	}
	out.Phases = append(out.Phases, phase("enrich", model.PhaseStatusComplete, start, map[string]any{
		"tokens": usage.Total(),
	}))
}

func (p *Pipeline) runExport(ctx context.Context, out *Outcome, lead *model.Lead) {
	start := time.Now()
	pageID, err := p.exporter.Export(ctx, lead)
	if err != nil {
		out.Err = err
		out.Phases = append(out.Phases, failedPhase("export", start, err))
		zap.L().Error("notion export failed", zap.String("lead_id", lead.ID), zap.Error(err))
		return
	}
	lead.NotionPageID = pageID
	out.Phases = append(out.Phases, phase("export", model.PhaseStatusComplete, start, nil))
}

func phase(name string, status model.PhaseStatus, start time.Time, metadata map[string]any) model.PhaseResult {
	return model.PhaseResult{
		Name:     name,
		Status:   status,
		Duration: time.Since(start).Milliseconds(),
		Metadata: metadata,
	}
}

func failedPhase(name string, start time.Time, err error) model.PhaseResult {
	return model.PhaseResult{
		Name:     name,
		Status:   model.PhaseStatusFailed,
		Duration: time.Since(start).Milliseconds(),
		Error:    err.Error(),
	}
}
