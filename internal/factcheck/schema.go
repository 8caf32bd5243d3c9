package factcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/claimcheck/internal/model"
)

// maxReportedViolations bounds the violation list in schema error messages
const maxReportedViolations = 3

// searchResponse is the 2xx body of the claims search endpoint.
// nextPageToken is decoded but never followed.
//
// Required strings are pointers so that "required" rejects an absent field
// while still accepting an empty one.
type searchResponse struct {
	Claims        []wireClaim `json:"claims" validate:"omitempty,dive"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

type wireClaim struct {
	Text        *string      `json:"text" validate:"required"`
	Claimant    string       `json:"claimant,omitempty"`
	ClaimDate   *string      `json:"claimDate" validate:"required"`
	ClaimReview []wireReview `json:"claimReview" validate:"required,dive"`
}

type wireReview struct {
	Publisher     *wirePublisher `json:"publisher" validate:"required"`
	URL           *string        `json:"url" validate:"required,url"`
	Title         *string        `json:"title" validate:"required"`
	ReviewDate    *string        `json:"reviewDate" validate:"required"`
	TextualRating *string        `json:"textualRating" validate:"required"`
	LanguageCode  *string        `json:"languageCode" validate:"required"`
}

type wirePublisher struct {
	Name *string `json:"name" validate:"required"`
	Site *string `json:"site" validate:"required,url"`
}

func (c wireClaim) toModel() model.RawClaim {
	reviews := make([]model.RawReview, len(c.ClaimReview))
	for i, r := range c.ClaimReview {
		reviews[i] = model.RawReview{
			Publisher: model.RawPublisher{
				Name: *r.Publisher.Name,
				Site: *r.Publisher.Site,
			},
			URL:           *r.URL,
			Title:         *r.Title,
			ReviewDate:    *r.ReviewDate,
			TextualRating: *r.TextualRating,
			LanguageCode:  *r.LanguageCode,
		}
	}
	return model.RawClaim{
		Text:        *c.Text,
		Claimant:    c.Claimant,
		ClaimDate:   *c.ClaimDate,
		ClaimReview: reviews,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations by their JSON path rather than Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeResponse parses and validates a 2xx body. A missing or empty claims
// list is a valid, empty result.
func decodeResponse(body []byte) ([]model.RawClaim, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, schemaError("malformed JSON", err)
	}

	if err := validate.Struct(resp); err != nil {
		var violations validator.ValidationErrors
		if errors.As(err, &violations) {
			return nil, schemaError(describeViolations(violations), nil)
		}
		return nil, schemaError("validation failed", err)
	}

	claims := make([]model.RawClaim, len(resp.Claims))
	for i, c := range resp.Claims {
		claims[i] = c.toModel()
	}
	return claims, nil
}

func describeViolations(violations validator.ValidationErrors) string {
	parts := make([]string, 0, maxReportedViolations)
	for i, v := range violations {
		if i == maxReportedViolations {
			parts = append(parts, fmt.Sprintf("and %d more", len(violations)-i))
			break
		}
		parts = append(parts, fmt.Sprintf("%s %s", fieldPath(v), violationReason(v)))
	}
	return strings.Join(parts, "; ")
}

// fieldPath strips the root struct name: "searchResponse.claims[0].text" -> "claims[0].text"
func fieldPath(v validator.FieldError) string {
	_, path, found := strings.Cut(v.Namespace(), ".")
	if !found {
		return v.Namespace()
	}
	return path
}

func violationReason(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("must be a valid URL (got %q)", v.Value())
	default:
		return "failed " + v.Tag() + " validation"
	}
}
