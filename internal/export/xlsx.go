package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// maxExcelReviews caps how many review texts go into the spreadsheet.
const maxExcelReviews = 3

// xlsxHeaders is the fixed column order of the export worksheet.
var xlsxHeaders = []string{
	"id",
	"display_name",
	"types",
	"phone",
	"rating",
	"user_rating_count",
	"status",
	"website",
	"google_maps_uri",
	"review_summary",
	"reviews",
	"emails",
	"lead_score",
	"ui_report",
	"brief",
	"pain_point_report",
	"email_sample",
}

// WriteXLSX writes all leads to a single-sheet workbook at path.
func WriteXLSX(path string, leads []model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Places")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeaders {
		header.AddCell().SetString(h)
	}

	for i := range leads {
		writeLeadRow(sheet, &leads[i])
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func writeLeadRow(sheet *xlsx.Sheet, lead *model.Lead) {
	reviewTexts := make([]string, 0, maxExcelReviews)
	for _, review := range lead.Reviews {
		reviewTexts = append(reviewTexts, review.Text)
		if len(reviewTexts) == maxExcelReviews {
			break
		}
	}

	var uiReport, brief, painPoints, emailSample string
	if lead.Enrichment != nil {
		uiReport = lead.Enrichment.UIReport
		brief = lead.Enrichment.Brief
		painPoints = lead.Enrichment.PainPointReport
		emailSample = strings.TrimSpace(lead.Enrichment.EmailSubject + "\n\n" + lead.Enrichment.EmailBody)
	}

	row := sheet.AddRow()
	row.AddCell().SetString(lead.ID)
	row.AddCell().SetString(lead.DisplayName)
	row.AddCell().SetString(strings.Join(lead.Types, ", "))
	row.AddCell().SetString(lead.Phone)
	row.AddCell().SetString(formatOptionalFloat(lead.Rating, lead.HasRating))
	row.AddCell().SetString(formatOptionalInt(lead.ReviewCount, lead.HasReviewCount))
	row.AddCell().SetString(string(lead.Status))
	row.AddCell().SetString(lead.WebsiteURI)
	row.AddCell().SetString(lead.MapsURI)
	row.AddCell().SetString(lead.ReviewSummary)
	row.AddCell().SetString(strings.Join(reviewTexts, " | "))
	row.AddCell().SetString(strings.Join(lead.Emails, ", "))
	row.AddCell().SetFloat(lead.CombinedScore)
	row.AddCell().SetString(uiReport)
	row.AddCell().SetString(brief)
	row.AddCell().SetString(painPoints)
	row.AddCell().SetString(emailSample)
}

func formatOptionalFloat(v float64, present bool) string {
	if !present {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalInt(v int, present bool) string {
	if !present {
		return ""
	}
	return strconv.Itoa(v)
}
