package scoring

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// maxSentimentReviews caps how many reviews feed the sentiment average.
const maxSentimentReviews = 5

// Engine computes lead scores in two stages: a base score from business
// metadata and visibility signals, then a combined score blending in email
// quality and inverted review sentiment.
type Engine struct {
	cfg config.ScoringConfig
}

// NewEngine validates the configuration and returns a scoring engine.
func NewEngine(cfg config.ScoringConfig) (*Engine, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// ValidateConfig checks a scoring configuration for usability.
func ValidateConfig(cfg config.ScoringConfig) error {
	var errs []string

	if cfg.MaxNorm <= 0 {
		errs = append(errs, "max_norm must be positive")
	}
	weightSum := cfg.BaseWeight + cfg.EmailWeight + cfg.ReviewWeight
	if math.Abs(weightSum-1.0) > 0.001 {
		errs = append(errs, "base_weight, email_weight and review_weight must sum to 1.0")
	}
	if cfg.BaseWeight < 0 || cfg.EmailWeight < 0 || cfg.ReviewWeight < 0 {
		errs = append(errs, "weights must be non-negative")
	}
	if cfg.NoEmailBaseline < 0 || cfg.NoEmailBaseline > 5 {
		errs = append(errs, "no_email_baseline must be within [0,5]")
	}
	if cfg.NeutralSentiment < 1 || cfg.NeutralSentiment > 5 {
		errs = append(errs, "neutral_sentiment must be within [1,5]")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// BaseScore computes the stage-one "friction index" score on [0,5].
// A permanently closed business scores exactly 0.
func (e *Engine) BaseScore(lead *model.Lead) float64 {
	if lead.Closed() {
		return 0
	}

	var raw float64

	if lead.Status == model.StatusOperational {
		raw += 3
	}

	// Friction: unhappy customers at an active business mean opportunity.
	switch {
	case lead.HasRating && lead.HasReviewCount:
		friction := (5 - lead.Rating) * math.Log10(1+float64(lead.ReviewCount))
		raw += friction * 2
	case lead.HasRating:
		raw += 5 - lead.Rating
	}

	if lead.ReviewSummary != "" {
		raw += 2
	}
	if lead.MapsURI != "" {
		raw += 1
	}
	if lead.WebsiteURI != "" {
		raw += 2
	}

	base := math.Min(5, raw/e.cfg.MaxNorm*5)
	return round2(base)
}

// Score runs both stages and writes BaseScore and CombinedScore onto the
// lead. The combined score is returned for convenience.
func (e *Engine) Score(lead *model.Lead) float64 {
	base := e.BaseScore(lead)
	lead.BaseScore = base

	if lead.Closed() {
		lead.CombinedScore = 0
		zap.L().Debug("lead permanently closed, score zeroed",
			zap.String("lead_id", lead.ID))
		return 0
	}

	emailQuality := e.cfg.NoEmailBaseline
	if len(lead.Emails) > 0 {
		_, best := BestEmail(lead.Emails)
		emailQuality = float64(best)
	}

	sentiment := e.cfg.NeutralSentiment
	if len(lead.Reviews) > 0 {
		texts := make([]string, 0, maxSentimentReviews)
		for _, review := range lead.Reviews {
			texts = append(texts, review.Text)
			if len(texts) == maxSentimentReviews {
				break
			}
		}
		sentiment, _ = ScoreReviews(texts)
	}
	invertedSentiment := 6 - sentiment

	combined := base*e.cfg.BaseWeight +
		emailQuality*e.cfg.EmailWeight +
		invertedSentiment*e.cfg.ReviewWeight
	combined = round2(math.Max(1, math.Min(5, combined)))

	lead.CombinedScore = combined
	zap.L().Debug("lead scored",
		zap.String("lead_id", lead.ID),
		zap.Float64("base", base),
		zap.Float64("email_quality", emailQuality),
		zap.Float64("sentiment", sentiment),
		zap.Float64("combined", combined))

	return combined
}
