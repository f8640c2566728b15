package export

import (
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestChunkText(t *testing.T) {
	assert.Equal(t, []string{"No content available."}, ChunkText("", 2000))

	assert.Equal(t, []string{"short"}, ChunkText("short", 2000))

	long := strings.Repeat("a", 4500)
	chunks := ChunkText(long, 2000)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 2000)
	assert.Len(t, chunks[1], 2000)
	assert.Len(t, chunks[2], 500)
}

func TestHumanizeTypes(t *testing.T) {
	assert.Equal(t, "Plumber, Point Of Interest", HumanizeTypes([]string{"plumber", "point_of_interest"}))
	assert.Equal(t, "", HumanizeTypes(nil))
}

func TestBuildPageRequest(t *testing.T) {
	lead := &model.Lead{
		ID:             "place-1",
		DisplayName:    "Acme Plumbing",
		Types:          []string{"plumber"},
		Phone:          "(555) 010-2030",
		WebsiteURI:     "https://acme.example",
		MapsURI:        "https://maps.google.com/?cid=42",
		Status:         model.StatusOperational,
		Rating:         3.8,
		HasRating:      true,
		ReviewCount:    127,
		HasReviewCount: true,
		ReviewSummary:  "Busy local plumber",
		Reviews: []model.Review{
			{Text: "Great service"},
			{Text: "Showed up late"},
		},
		Emails:        []string{"jane@acme.example"},
		CombinedScore: 3.42,
		Enrichment: &model.Enrichment{
			UIReport:        "Dated layout",
			Brief:           "Family plumbing business",
			PainPointReport: "Scheduling complaints",
			EmailSubject:    "Quick question",
			EmailBody:       "Hi Jane",
		},
	}

	req := BuildPageRequest(lead, "db-1")

	assert.Equal(t, notionapi.DatabaseID("db-1"), req.Parent.DatabaseID)

	title := req.Properties["Name"].(notionapi.TitleProperty)
	assert.Equal(t, "Acme Plumbing", title.Title[0].Text.Content)

	status := req.Properties["Lead Status"].(notionapi.StatusProperty)
	assert.Equal(t, "Not Reviewed", status.Status.Name)

	score := req.Properties["Lead Score"].(notionapi.NumberProperty)
	assert.Equal(t, 3.42, score.Number)

	placeID := req.Properties["Google Place ID"].(notionapi.RichTextProperty)
	assert.Equal(t, "place-1", placeID.RichText[0].Text.Content)

	email := req.Properties["Email"].(notionapi.RichTextProperty)
	assert.Equal(t, "jane@acme.example", email.RichText[0].Text.Content)

	// six toggle sections in fixed order
	require.Len(t, req.Children, 6)
	reviews := req.Children[0].(notionapi.ToggleBlock)
	assert.Equal(t, "Reviews", reviews.Toggle.RichText[0].Text.Content)
	assert.Contains(t, reviews.Toggle.Children[0].(notionapi.ParagraphBlock).Paragraph.RichText[0].Text.Content, "Great service")

	emailSample := req.Children[5].(notionapi.ToggleBlock)
	assert.Contains(t, emailSample.Toggle.Children[0].(notionapi.ParagraphBlock).Paragraph.RichText[0].Text.Content, "Quick question")
}

func TestBuildPageRequestWithoutEnrichment(t *testing.T) {
	lead := &model.Lead{ID: "place-2", DisplayName: "Bare"}
	req := BuildPageRequest(lead, "db-1")

	require.Len(t, req.Children, 6)
	brief := req.Children[3].(notionapi.ToggleBlock)
	assert.Equal(t, "No content available.",
		brief.Toggle.Children[0].(notionapi.ParagraphBlock).Paragraph.RichText[0].Text.Content)
}

func TestBuildPageRequestUnknownName(t *testing.T) {
	req := BuildPageRequest(&model.Lead{ID: "x"}, "db-1")
	title := req.Properties["Name"].(notionapi.TitleProperty)
	assert.Equal(t, "Unknown", title.Title[0].Text.Content)
}
