// Package model defines the core entities shared across the pipeline.
package model

import "time"

// BusinessStatus is the operating status reported for a place.
type BusinessStatus string

const (
	StatusOperational       BusinessStatus = "OPERATIONAL"
	StatusClosedPermanently BusinessStatus = "CLOSED_PERMANENTLY"
	StatusUnspecified       BusinessStatus = "BUSINESS_STATUS_UNSPECIFIED"
)

// Review holds the text of a single customer review. The star rating that
// may accompany it upstream is intentionally not carried: reviews feed
// sentiment scoring only.
type Review struct {
	Text string `json:"text"`
}

// Enrichment holds the AI-generated outputs for a qualified lead. The five
// fields are populated together by a single successful generation pass;
// a lead either has all of them or none.
type Enrichment struct {
	UIReport        string `json:"ui_report"`
	Brief           string `json:"brief"`
	PainPointReport string `json:"pain_point_report"`
	EmailSubject    string `json:"email_subject"`
	EmailBody       string `json:"email_body"`
}

// Lead is a business record moving through the qualification pipeline.
// It is created once from a raw place record, passes through
// crawl → extract → score → gate exactly once, and is never re-scored.
type Lead struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Types       []string       `json:"types,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	WebsiteURI  string         `json:"website_uri,omitempty"`
	MapsURI     string         `json:"maps_uri,omitempty"`
	Status      BusinessStatus `json:"status"`

	Rating         float64 `json:"rating,omitempty"`
	HasRating      bool    `json:"has_rating"`
	ReviewCount    int     `json:"review_count,omitempty"`
	HasReviewCount bool    `json:"has_review_count"`
	ReviewSummary  string  `json:"review_summary,omitempty"`
	Reviews        []Review `json:"reviews,omitempty"`

	// Derived by the pipeline. Emails are lowercased, role-filtered and
	// sorted lexicographically so two runs over the same input agree byte
	// for byte.
	Emails        []string `json:"emails,omitempty"`
	BaseScore     float64  `json:"base_score"`
	CombinedScore float64  `json:"combined_score"`

	Enrichment *Enrichment `json:"enrichment,omitempty"`
	SkipReason string      `json:"skip_reason,omitempty"`

	NotionPageID string `json:"notion_page_id,omitempty"`
}

// Closed reports whether the business is permanently closed, the one
// terminal state that zeroes the lead score outright.
func (l *Lead) Closed() bool {
	return l.Status == StatusClosedPermanently
}

// Qualified reports whether the lead passed the enrichment gate.
func (l *Lead) Qualified() bool {
	return l.SkipReason == "" && !l.Closed()
}

// CrawledPage is one fetched page from a lead's website.
type CrawledPage struct {
	URL     string   `json:"url"`
	Title   string   `json:"title,omitempty"`
	Text    string   `json:"text"`
	Mailtos []string `json:"mailtos,omitempty"`
}

// RunStatus represents the current state of a qualification run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusSearching  RunStatus = "searching"
	RunStatusProcessing RunStatus = "processing"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run represents one search-and-qualify execution.
type Run struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final tallies of a run.
type RunResult struct {
	LeadsFound     int      `json:"leads_found"`
	LeadsQualified int      `json:"leads_qualified"`
	LeadsSkipped   int      `json:"leads_skipped"`
	LeadIDs        []string `json:"lead_ids,omitempty"`
	TotalTokens    int64    `json:"total_tokens"`
	Error          string   `json:"error,omitempty"`
}

// PhaseStatus represents the state of one pipeline phase for a lead.
type PhaseStatus string

const (
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult records the outcome of one pipeline phase.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
