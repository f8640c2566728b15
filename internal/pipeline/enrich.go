package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/crawler"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scoring"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// maxPromptChars caps how much crawled page text goes into a prompt.
const maxPromptChars = 12000

// maxPromptReviews caps how many reviews feed the pain point report.
const maxPromptReviews = 5

const briefSystem = `You are a business research analyst. Given the text content of a small business's website, write a concise brief covering what the business does, who its customers are, its apparent size, and anything notable about how it presents itself. Plain prose, no headings.`

const uiReportSystem = `You are a web design consultant. Given the text content of a business's homepage, assess the site's structure and messaging: what information is easy or hard to find, whether calls to action are present, and what a redesign should prioritize. Be specific and constructive.`

const painPointSystem = `You are a sales strategist. Given a business brief, a website assessment and a sample of customer reviews, identify the business's likely operational pain points and how a software consultancy could help. Rank the top three by impact.`

const emailSystem = `You are writing a short, personalized cold outreach email on behalf of a software consultancy. Use the research provided. The first line of your output is the subject; the rest is the body. No placeholders, no signature block.`

// Enricher generates the research reports and outreach draft for a
// qualified lead. Generation is all or nothing: the lead's Enrichment is
// only set when every step succeeds.
type Enricher struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewEnricher returns an Enricher using the given client and settings.
func NewEnricher(client anthropic.Client, cfg config.AnthropicConfig) *Enricher {
	return &Enricher{client: client, cfg: cfg}
}

// Enrich runs the four generation steps in order and attaches the result
// to the lead. Returns total token usage across all steps.
func (e *Enricher) Enrich(ctx context.Context, lead *model.Lead, crawl crawler.Result) (anthropic.TokenUsage, error) {
	var usage anthropic.TokenUsage

	siteText := truncate(crawl.AllText(), maxPromptChars)
	homeText := siteText
	if pages := crawl.SortedPages(); len(pages) > 0 {
		homeText = truncate(pages[0].Text, maxPromptChars)
	}

	brief, err := e.generate(ctx, &usage, "brief", briefSystem, fmt.Sprintf(
		"Business: %s\n\nWebsite content:\n%s", lead.DisplayName, siteText))
	if err != nil {
		return usage, err
	}

	uiReport, err := e.generate(ctx, &usage, "ui_report", uiReportSystem, fmt.Sprintf(
		"Business: %s\nWebsite: %s\n\nHomepage content:\n%s", lead.DisplayName, lead.WebsiteURI, homeText))
	if err != nil {
		return usage, err
	}

	painPoints, err := e.generate(ctx, &usage, "pain_point_report", painPointSystem, fmt.Sprintf(
		"Brief:\n%s\n\nWebsite assessment:\n%s\n\nCustomer reviews:\n%s",
		brief, uiReport, reviewSample(lead.Reviews)))
	if err != nil {
		return usage, err
	}

	bestEmail, _ := scoring.BestEmail(lead.Emails)
	draft, err := e.generate(ctx, &usage, "email_sample", emailSystem, fmt.Sprintf(
		"Recipient: %s\nBusiness: %s\n\nBrief:\n%s\n\nPain points:\n%s",
		bestEmail, lead.DisplayName, brief, painPoints))
	if err != nil {
		return usage, err
	}

	subject, body := splitDraft(draft)
	lead.Enrichment = &model.Enrichment{
		UIReport:        uiReport,
		Brief:           brief,
		PainPointReport: painPoints,
		EmailSubject:    subject,
		EmailBody:       body,
	}

	zap.L().Info("lead enriched",
		zap.String("lead_id", lead.ID),
		zap.Int64("total_tokens", usage.Total()))
	return usage, nil
}

func (e *Enricher) generate(ctx context.Context, usage *anthropic.TokenUsage, phase, system, prompt string) (string, error) {
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.cfg.Model,
		MaxTokens: e.cfg.MaxTokens,
		System:    system,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrapf(err, "pipeline: generate %s", phase)
	}

	usage.InputTokens += resp.Usage.InputTokens
	usage.OutputTokens += resp.Usage.OutputTokens
	resp.Usage.LogCost(e.cfg.Model, phase)

	text := resp.Text()
	if text == "" {
		return "", eris.Errorf("pipeline: generate %s: empty response", phase)
	}
	return text, nil
}

// splitDraft separates the subject line from the body at the first newline.
func splitDraft(draft string) (subject, body string) {
	subject, body, found := strings.Cut(draft, "\n")
	subject = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(subject), "Subject:"))
	if !found {
		return subject, ""
	}
	return subject, strings.TrimSpace(body)
}

func reviewSample(reviews []model.Review) string {
	if len(reviews) == 0 {
		return "(no reviews available)"
	}
	n := min(len(reviews), maxPromptReviews)
	texts := make([]string, 0, n)
	for _, r := range reviews[:n] {
		texts = append(texts, "- "+r.Text)
	}
	return strings.Join(texts, "\n")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
