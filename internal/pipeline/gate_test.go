package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

func testGateConfig() config.GateConfig {
	return config.GateConfig{MinScore: 2.5}
}

func qualifiedLead() *model.Lead {
	return &model.Lead{
		ID:            "place-1",
		Status:        model.StatusOperational,
		WebsiteURI:    "https://acme.example",
		Emails:        []string{"jane@acme.example"},
		CombinedScore: 3.2,
	}
}

func TestDecideProceeds(t *testing.T) {
	d := Decide(qualifiedLead(), testGateConfig())
	assert.True(t, d.Proceed)
	assert.Empty(t, d.Reason)
}

func TestDecideScoreThresholdInclusive(t *testing.T) {
	lead := qualifiedLead()
	lead.CombinedScore = 2.5
	assert.True(t, Decide(lead, testGateConfig()).Proceed)

	lead.CombinedScore = 2.49
	d := Decide(lead, testGateConfig())
	assert.False(t, d.Proceed)
	assert.Contains(t, d.Reason, "below threshold")
}

func TestDecideClosedWinsFirst(t *testing.T) {
	lead := qualifiedLead()
	lead.Status = model.StatusClosedPermanently
	lead.CombinedScore = 0
	d := Decide(lead, testGateConfig())
	assert.False(t, d.Proceed)
	assert.Equal(t, "business permanently closed", d.Reason)
}

func TestDecideNoWebsite(t *testing.T) {
	lead := qualifiedLead()
	lead.WebsiteURI = ""
	d := Decide(lead, testGateConfig())
	assert.False(t, d.Proceed)
	assert.Equal(t, "no website to crawl", d.Reason)
}

func TestDecideNoEmails(t *testing.T) {
	lead := qualifiedLead()
	lead.Emails = nil
	d := Decide(lead, testGateConfig())
	assert.False(t, d.Proceed)
	assert.Equal(t, "no contact emails found", d.Reason)
}

func TestDecideRatingBand(t *testing.T) {
	cfg := testGateConfig()
	cfg.MinRating = 2.0
	cfg.MaxRating = 4.5

	lead := qualifiedLead()
	lead.Rating = 4.9
	lead.HasRating = true
	d := Decide(lead, cfg)
	assert.False(t, d.Proceed)
	assert.Contains(t, d.Reason, "outside band")

	lead.Rating = 3.5
	assert.True(t, Decide(lead, cfg).Proceed)

	lead.HasRating = false
	d = Decide(lead, cfg)
	assert.False(t, d.Proceed)
	assert.Contains(t, d.Reason, "rating band required")
}

func TestDecideRatingBandDisabledAtZero(t *testing.T) {
	lead := qualifiedLead()
	lead.HasRating = false
	assert.True(t, Decide(lead, testGateConfig()).Proceed)
}

func TestDecideMinReviewCount(t *testing.T) {
	cfg := testGateConfig()
	cfg.MinReviewCount = 10

	lead := qualifiedLead()
	lead.ReviewCount = 3
	lead.HasReviewCount = true
	d := Decide(lead, cfg)
	assert.False(t, d.Proceed)
	assert.Contains(t, d.Reason, "fewer than 10")

	lead.ReviewCount = 10
	assert.True(t, Decide(lead, cfg).Proceed)
}
