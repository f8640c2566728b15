// Package export renders finished leads to their destinations: a Notion
// review database and an Excel workbook.
package export

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/notion"
)

// maxBlockText is Notion's per-rich-text-block character limit.
const maxBlockText = 2000

// reviewSeparator joins review texts inside the Reviews toggle.
const reviewSeparator = "\n__________\n"

// NotionExporter creates one page per lead in the review database.
type NotionExporter struct {
	client notion.Client
	dbID   string
}

// NewNotionExporter returns an exporter targeting the given database.
func NewNotionExporter(client notion.Client, dbID string) *NotionExporter {
	return &NotionExporter{client: client, dbID: dbID}
}

// Export creates the lead's page and returns its Notion page ID.
func (e *NotionExporter) Export(ctx context.Context, lead *model.Lead) (string, error) {
	page, err := e.client.CreatePage(ctx, BuildPageRequest(lead, e.dbID))
	if err != nil {
		return "", eris.Wrapf(err, "export: notion page for lead %s", lead.ID)
	}
	zap.L().Info("lead exported to notion",
		zap.String("lead_id", lead.ID),
		zap.String("page_id", string(page.ID)))
	return string(page.ID), nil
}

// BuildPageRequest assembles the page properties and toggle children for
// one lead. Long-form sections are chunked to fit Notion's block limits.
func BuildPageRequest(lead *model.Lead, dbID string) *notionapi.PageCreateRequest {
	name := lead.DisplayName
	if name == "" {
		name = "Unknown"
	}

	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: richText(name),
		},
		"Business Status": notionapi.RichTextProperty{
			RichText: richText(string(lead.Status)),
		},
		"Lead Status": notionapi.StatusProperty{
			Status: notionapi.Option{Name: "Not Reviewed"},
		},
		"Email": notionapi.RichTextProperty{
			RichText: richText(strings.Join(lead.Emails, ", ")),
		},
		"Phone Number": notionapi.RichTextProperty{
			RichText: richText(lead.Phone),
		},
		"website": notionapi.URLProperty{
			URL: lead.WebsiteURI,
		},
		"Business Type": notionapi.RichTextProperty{
			RichText: richText(HumanizeTypes(lead.Types)),
		},
		"Lead Score": notionapi.NumberProperty{
			Number: lead.CombinedScore,
		},
		"Google Maps Rating Score": notionapi.NumberProperty{
			Number: lead.Rating,
		},
		"Google Maps Rating Count": notionapi.NumberProperty{
			Number: float64(lead.ReviewCount),
		},
		"Google Maps Link": notionapi.URLProperty{
			URL: lead.MapsURI,
		},
		"Google Place ID": notionapi.RichTextProperty{
			RichText: richText(lead.ID),
		},
	}

	reviewTexts := make([]string, 0, len(lead.Reviews))
	for _, review := range lead.Reviews {
		reviewTexts = append(reviewTexts, review.Text)
	}

	var uiReport, brief, painPoints, emailSample string
	if lead.Enrichment != nil {
		uiReport = lead.Enrichment.UIReport
		brief = lead.Enrichment.Brief
		painPoints = lead.Enrichment.PainPointReport
		emailSample = lead.Enrichment.EmailSubject + "\n\n" + lead.Enrichment.EmailBody
	}

	children := []notionapi.Block{
		toggleBlock("Reviews", strings.Join(reviewTexts, reviewSeparator)),
		toggleBlock("Reviews Summary", lead.ReviewSummary),
		toggleBlock("UI Report", uiReport),
		toggleBlock("Brief", brief),
		toggleBlock("Pain Point Report", painPoints),
		toggleBlock("Email Sample", strings.TrimSpace(emailSample)),
	}

	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: props,
		Children:   children,
	}
}

// ChunkText splits long text into block-sized chunks. Empty text yields a
// single placeholder so every toggle has at least one child.
func ChunkText(text string, maxLen int) []string {
	if text == "" {
		return []string{"No content available."}
	}
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += maxLen {
		end := min(start+maxLen, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// HumanizeTypes renders category tags like "point_of_interest" as
// "Point Of Interest", comma-joined.
func HumanizeTypes(types []string) string {
	titler := cases.Title(language.English)
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, titler.String(strings.ReplaceAll(t, "_", " ")))
	}
	return strings.Join(out, ", ")
}

func toggleBlock(title, content string) notionapi.Block {
	children := make([]notionapi.Block, 0, 1)
	for _, chunk := range ChunkText(content, maxBlockText) {
		children = append(children, notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: richText(chunk),
			},
		})
	}

	return notionapi.ToggleBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeToggle,
		},
		Toggle: notionapi.Toggle{
			RichText: richText(title),
			Children: children,
		},
	}
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: content},
		},
	}
}
