package extract

import (
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// ResultMapper flattens validated claims into display results
type ResultMapper struct {
	classifier *VerdictClassifier
	limit      int
}

// NewResultMapper creates a mapper with the default verdict rules and model.MaxResults cap
func NewResultMapper() *ResultMapper {
	return &ResultMapper{
		classifier: NewVerdictClassifier(nil),
		limit:      model.MaxResults,
	}
}

// Map emits one result per review in claim order, keeps the first occurrence
// of each review URL, and caps the output after deduplication. It never fails
// and never returns nil.
func (m *ResultMapper) Map(claims []model.RawClaim) []model.Result {
	results := make([]model.Result, 0, m.limit)
	seen := make(map[string]bool)

	for _, claim := range claims {
		for _, review := range claim.ClaimReview {
			if len(results) == m.limit {
				return results
			}
			if seen[review.URL] {
				continue
			}
			seen[review.URL] = true
			results = append(results, m.toResult(claim, review))
		}
	}

	return results
}

func (m *ResultMapper) toResult(claim model.RawClaim, review model.RawReview) model.Result {
	published, ok := calendarDate(review.ReviewDate)
	if !ok {
		published, _ = calendarDate(claim.ClaimDate)
	}

	return model.Result{
		ID:              review.URL,
		Title:           cleanText(review.Title),
		Claim:           cleanText(claim.Text),
		Verdict:         cleanText(review.TextualRating),
		VerdictCategory: m.classifier.Classify(review.TextualRating),
		Explanation:     explanation(claim.Claimant),
		Publisher: model.Publisher{
			Name:    cleanText(review.Publisher.Name),
			SiteURL: review.Publisher.Site,
		},
		PublishedDate:  published,
		ClaimReviewURL: review.URL,
		LanguageCode:   review.LanguageCode,
	}
}

func explanation(claimant string) string {
	claimant = strings.TrimSpace(claimant)
	if claimant == "" {
		claimant = "Unknown"
	}
	return "Claim by " + claimant + "."
}
