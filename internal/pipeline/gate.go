package pipeline

import (
	"fmt"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Decision is the outcome of the enrichment gate for one lead.
type Decision struct {
	Proceed bool
	Reason  string
}

// Decide runs the gate checks in fixed order and returns the first failure.
// The score threshold is inclusive: a lead sitting exactly on MinScore
// proceeds. The rating band and review-count checks only apply when
// configured (MaxRating > 0, MinReviewCount > 0 respectively).
func Decide(lead *model.Lead, cfg config.GateConfig) Decision {
	if lead.Closed() {
		return Decision{Reason: "business permanently closed"}
	}
	if lead.CombinedScore < cfg.MinScore {
		return Decision{Reason: fmt.Sprintf("score %.2f below threshold %.2f", lead.CombinedScore, cfg.MinScore)}
	}
	if lead.WebsiteURI == "" {
		return Decision{Reason: "no website to crawl"}
	}
	if len(lead.Emails) == 0 {
		return Decision{Reason: "no contact emails found"}
	}
	if cfg.MaxRating > 0 {
		if !lead.HasRating {
			return Decision{Reason: "no rating, rating band required"}
		}
		if lead.Rating < cfg.MinRating || lead.Rating > cfg.MaxRating {
			return Decision{Reason: fmt.Sprintf("rating %.1f outside band [%.1f, %.1f]", lead.Rating, cfg.MinRating, cfg.MaxRating)}
		}
	}
	if cfg.MinReviewCount > 0 {
		if !lead.HasReviewCount || lead.ReviewCount < cfg.MinReviewCount {
			return Decision{Reason: fmt.Sprintf("fewer than %d reviews", cfg.MinReviewCount)}
		}
	}
	return Decision{Proceed: true}
}
