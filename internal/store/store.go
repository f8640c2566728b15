// Package store persists leads, runs and crawl results behind one
// interface with SQLite and Postgres implementations.
package store

import (
	"context"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Qualified *bool   `json:"qualified,omitempty"`
	MinScore  float64 `json:"min_score,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}

// Store defines the persistence interface for the qualification pipeline.
type Store interface {
	// Leads
	SaveLead(ctx context.Context, lead *model.Lead) error
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	KnownPlaceIDs(ctx context.Context) (map[string]bool, error)

	// Runs
	CreateRun(ctx context.Context, query string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)

	// Crawl cache
	GetCachedCrawl(ctx context.Context, websiteURL string) ([]model.CrawledPage, error)
	SetCachedCrawl(ctx context.Context, websiteURL string, pages []model.CrawledPage, ttl time.Duration) error
	DeleteExpiredCrawls(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
