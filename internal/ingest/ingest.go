// Package ingest is the validation boundary between raw place records and
// the pipeline. Every record is checked against an explicit JSON schema
// and every optional field gets a documented default, so downstream code
// never deals with missing-field errors.
package ingest

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// placeSchema constrains the shape of a raw place record. Only id is
// required; everything else is optional with a default applied by
// ParseLead:
//
//	displayName, phone, website, maps link, review summary -> ""
//	types, reviews  -> empty
//	rating, userRatingCount -> absent (presence flags on the Lead)
//	businessStatus  -> BUSINESS_STATUS_UNSPECIFIED
const placeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "displayName": {
      "type": "object",
      "properties": {"text": {"type": "string"}}
    },
    "types": {"type": "array", "items": {"type": "string"}},
    "nationalPhoneNumber": {"type": "string"},
    "websiteUri": {"type": "string"},
    "googleMapsUri": {"type": "string"},
    "businessStatus": {"type": "string"},
    "rating": {"type": "number", "minimum": 0, "maximum": 5},
    "userRatingCount": {"type": "integer", "minimum": 0},
    "reviewSummary": {
      "type": "object",
      "properties": {
        "text": {
          "type": "object",
          "properties": {"text": {"type": "string"}}
        }
      }
    },
    "reviews": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {
            "type": "object",
            "properties": {"text": {"type": "string"}}
          }
        }
      }
    }
  }
}`

var compiledSchema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("place.schema.json", strings.NewReader(placeSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("place.schema.json")
}

type localizedText struct {
	Text string `json:"text"`
}

type rawReview struct {
	Text *localizedText `json:"text"`
}

type rawPlace struct {
	ID                  string         `json:"id"`
	DisplayName         *localizedText `json:"displayName"`
	Types               []string       `json:"types"`
	NationalPhoneNumber string         `json:"nationalPhoneNumber"`
	WebsiteURI          string         `json:"websiteUri"`
	GoogleMapsURI       string         `json:"googleMapsUri"`
	BusinessStatus      string         `json:"businessStatus"`
	Rating              *float64       `json:"rating"`
	UserRatingCount     *int           `json:"userRatingCount"`
	ReviewSummary       *struct {
		Text *localizedText `json:"text"`
	} `json:"reviewSummary"`
	Reviews []rawReview `json:"reviews"`
}

// ParseLead validates a raw place record and converts it into a Lead.
func ParseLead(data []byte) (*model.Lead, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrap(err, "ingest: decode record")
	}
	if err := compiledSchema.Validate(v); err != nil {
		return nil, eris.Wrap(err, "ingest: invalid place record")
	}

	var raw rawPlace
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "ingest: decode record")
	}

	lead := &model.Lead{
		ID:         raw.ID,
		Types:      raw.Types,
		Phone:      raw.NationalPhoneNumber,
		WebsiteURI: raw.WebsiteURI,
		MapsURI:    raw.GoogleMapsURI,
		Status:     parseStatus(raw.BusinessStatus),
	}
	if raw.DisplayName != nil {
		lead.DisplayName = raw.DisplayName.Text
	}
	if raw.Rating != nil {
		lead.Rating = *raw.Rating
		lead.HasRating = true
	}
	if raw.UserRatingCount != nil {
		lead.ReviewCount = *raw.UserRatingCount
		lead.HasReviewCount = true
	}
	if raw.ReviewSummary != nil && raw.ReviewSummary.Text != nil {
		lead.ReviewSummary = raw.ReviewSummary.Text.Text
	}
	for _, review := range raw.Reviews {
		if review.Text == nil || strings.TrimSpace(review.Text.Text) == "" {
			continue
		}
		lead.Reviews = append(lead.Reviews, model.Review{Text: review.Text.Text})
	}

	return lead, nil
}

// ParseLeads converts a JSON array of raw place records. A record that
// fails validation is skipped with its error collected, never fatal.
func ParseLeads(data []byte) ([]*model.Lead, []error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, []error{eris.Wrap(err, "ingest: decode record array")}
	}

	var leads []*model.Lead
	var errs []error
	for _, record := range records {
		lead, err := ParseLead(record)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		leads = append(leads, lead)
	}
	return leads, errs
}

func parseStatus(s string) model.BusinessStatus {
	switch s {
	case string(model.StatusOperational):
		return model.StatusOperational
	case string(model.StatusClosedPermanently):
		return model.StatusClosedPermanently
	default:
		return model.StatusUnspecified
	}
}
