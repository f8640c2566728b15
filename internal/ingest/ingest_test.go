package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const fullRecord = `{
	"id": "place-123",
	"displayName": {"text": "Acme Plumbing"},
	"types": ["plumber", "point_of_interest"],
	"nationalPhoneNumber": "(555) 010-2030",
	"websiteUri": "https://acme.example",
	"googleMapsUri": "https://maps.google.com/?cid=42",
	"businessStatus": "OPERATIONAL",
	"rating": 3.8,
	"userRatingCount": 127,
	"reviewSummary": {"text": {"text": "Busy local plumber"}},
	"reviews": [
		{"text": {"text": "Great service"}},
		{"text": {"text": ""}},
		{"text": {"text": "Showed up late"}}
	]
}`

func TestParseLead(t *testing.T) {
	lead, err := ParseLead([]byte(fullRecord))
	require.NoError(t, err)

	assert.Equal(t, "place-123", lead.ID)
	assert.Equal(t, "Acme Plumbing", lead.DisplayName)
	assert.Equal(t, []string{"plumber", "point_of_interest"}, lead.Types)
	assert.Equal(t, "(555) 010-2030", lead.Phone)
	assert.Equal(t, "https://acme.example", lead.WebsiteURI)
	assert.Equal(t, model.StatusOperational, lead.Status)
	assert.True(t, lead.HasRating)
	assert.Equal(t, 3.8, lead.Rating)
	assert.True(t, lead.HasReviewCount)
	assert.Equal(t, 127, lead.ReviewCount)
	assert.Equal(t, "Busy local plumber", lead.ReviewSummary)

	// blank review text dropped
	require.Len(t, lead.Reviews, 2)
	assert.Equal(t, "Great service", lead.Reviews[0].Text)
}

func TestParseLeadDefaults(t *testing.T) {
	lead, err := ParseLead([]byte(`{"id": "bare"}`))
	require.NoError(t, err)

	assert.Equal(t, "bare", lead.ID)
	assert.Equal(t, model.StatusUnspecified, lead.Status)
	assert.False(t, lead.HasRating)
	assert.False(t, lead.HasReviewCount)
	assert.Empty(t, lead.WebsiteURI)
	assert.Empty(t, lead.Reviews)
}

func TestParseLeadRejectsInvalid(t *testing.T) {
	cases := []string{
		`{}`,
		`{"id": ""}`,
		`{"id": "x", "rating": "high"}`,
		`{"id": "x", "rating": 9}`,
		`{"id": "x", "userRatingCount": -1}`,
		`not json`,
	}
	for _, record := range cases {
		_, err := ParseLead([]byte(record))
		assert.Error(t, err, "record %s", record)
	}
}

func TestParseLeadUnknownStatus(t *testing.T) {
	lead, err := ParseLead([]byte(`{"id": "x", "businessStatus": "CLOSED_TEMPORARILY"}`))
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnspecified, lead.Status)
}

func TestParseLeads(t *testing.T) {
	data := `[
		{"id": "a"},
		{"id": ""},
		{"id": "b", "businessStatus": "CLOSED_PERMANENTLY"}
	]`

	leads, errs := ParseLeads([]byte(data))
	require.Len(t, leads, 2)
	assert.Len(t, errs, 1)
	assert.Equal(t, "a", leads[0].ID)
	assert.True(t, leads[1].Closed())
}
