package extract

import (
	"fmt"
	"testing"

	"github.com/ppiankov/claimcheck/internal/model"
)

func review(url, rating string) model.RawReview {
	return model.RawReview{
		Publisher:     model.RawPublisher{Name: "Snopes", Site: "https://www.snopes.com"},
		URL:           url,
		Title:         "Review of " + url,
		ReviewDate:    "2023-03-04T10:00:00Z",
		TextualRating: rating,
		LanguageCode:  "en",
	}
}

func TestResultMapper_DeduplicatesByURL(t *testing.T) {
	claims := []model.RawClaim{
		{
			Text:      "First claim",
			Claimant:  "Alice",
			ClaimDate: "2023-03-01",
			ClaimReview: []model.RawReview{
				review("https://a.example/1", "False"),
				review("https://a.example/2", "True"),
			},
		},
		{
			Text:        "Second claim",
			ClaimDate:   "2023-03-02",
			ClaimReview: []model.RawReview{review("https://a.example/1", "Mostly True")},
		},
	}

	results := NewResultMapper().Map(claims)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "https://a.example/1" || results[1].ID != "https://a.example/2" {
		t.Errorf("Unexpected order: %s, %s", results[0].ID, results[1].ID)
	}
	// first occurrence wins
	if results[0].Claim != "First claim" || results[0].Verdict != "False" {
		t.Errorf("Expected first occurrence to be kept, got %+v", results[0])
	}
}

func TestResultMapper_CapsAfterDedup(t *testing.T) {
	var reviews []model.RawReview
	reviews = append(reviews, review("https://a.example/0", "False"))
	for i := 0; i < 15; i++ {
		reviews = append(reviews, review(fmt.Sprintf("https://a.example/%d", i), "False"))
	}

	results := NewResultMapper().Map([]model.RawClaim{{Text: "x", ClaimDate: "2023-01-01", ClaimReview: reviews}})

	if len(results) != model.MaxResults {
		t.Fatalf("Expected %d results, got %d", model.MaxResults, len(results))
	}
	for i, r := range results {
		want := fmt.Sprintf("https://a.example/%d", i)
		if r.ID != want {
			t.Errorf("results[%d].ID = %s, want %s", i, r.ID, want)
		}
	}
}

func TestResultMapper_EmptyInput(t *testing.T) {
	results := NewResultMapper().Map(nil)
	if results == nil {
		t.Fatal("Expected non-nil slice")
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}

	results = NewResultMapper().Map([]model.RawClaim{{Text: "x", ClaimDate: "2023-01-01", ClaimReview: []model.RawReview{}}})
	if len(results) != 0 {
		t.Errorf("Expected 0 results for claim without reviews, got %d", len(results))
	}
}

func TestResultMapper_Fields(t *testing.T) {
	claims := []model.RawClaim{{
		Text:      "Vaccines contain <b>microchips</b>",
		Claimant:  "  ",
		ClaimDate: "2021-05-01T00:00:00Z",
		ClaimReview: []model.RawReview{{
			Publisher:     model.RawPublisher{Name: "PolitiFact", Site: "https://www.politifact.com"},
			URL:           "https://www.politifact.com/r/1",
			Title:         "No, vaccines don&#39;t   contain microchips",
			ReviewDate:    "2021-05-03T18:22:00-04:00",
			TextualRating: "Pants on Fire",
			LanguageCode:  "en",
		}},
	}}

	r := NewResultMapper().Map(claims)[0]

	if r.ID != r.ClaimReviewURL {
		t.Errorf("ID %q != ClaimReviewURL %q", r.ID, r.ClaimReviewURL)
	}
	if r.Claim != "Vaccines contain microchips" {
		t.Errorf("Claim = %q", r.Claim)
	}
	if r.Title != "No, vaccines don't contain microchips" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Explanation != "Claim by Unknown." {
		t.Errorf("Explanation = %q", r.Explanation)
	}
	if r.PublishedDate != "2021-05-03" {
		t.Errorf("PublishedDate = %q", r.PublishedDate)
	}
	if r.VerdictCategory != model.VerdictUnknown {
		t.Errorf("VerdictCategory = %q", r.VerdictCategory)
	}
	if r.Publisher.Name != "PolitiFact" || r.Publisher.SiteURL != "https://www.politifact.com" {
		t.Errorf("Publisher = %+v", r.Publisher)
	}
	if r.LanguageCode != "en" {
		t.Errorf("LanguageCode = %q", r.LanguageCode)
	}
}

func TestResultMapper_DateFallback(t *testing.T) {
	tests := []struct {
		reviewDate string
		claimDate  string
		want       string
	}{
		{"2022-01-02T03:04:05Z", "2021-01-01", "2022-01-02"},
		{"2022-01-02T03:04:05.123456Z", "", "2022-01-02"},
		{"2022-01-02", "", "2022-01-02"},
		{"2022-01-02 03:04", "", "2022-01-02"},
		{"last tuesday", "2021-06-07T00:00:00Z", "2021-06-07"},
		{"", "bogus", ""},
	}

	for _, tt := range tests {
		claim := model.RawClaim{Text: "x", Claimant: "Bob", ClaimDate: tt.claimDate, ClaimReview: []model.RawReview{review("https://a.example/r", "False")}}
		claim.ClaimReview[0].ReviewDate = tt.reviewDate

		r := NewResultMapper().Map([]model.RawClaim{claim})[0]
		if r.PublishedDate != tt.want {
			t.Errorf("review=%q claim=%q: got %q, want %q", tt.reviewDate, tt.claimDate, r.PublishedDate, tt.want)
		}
		if r.Explanation != "Claim by Bob." {
			t.Errorf("Explanation = %q", r.Explanation)
		}
	}
}

func TestResultMapper_LiteralAngleBrackets(t *testing.T) {
	claims := []model.RawClaim{{
		Text:      "Claim: 3<5 and a<b in math",
		ClaimDate: "2022-01-01",
		ClaimReview: []model.RawReview{{
			Publisher:     model.RawPublisher{Name: "P", Site: "https://p.example"},
			URL:           "https://p.example/r",
			Title:         "Vaccines <contain> microchips",
			ReviewDate:    "2022-01-02",
			TextualRating: "Rating: <True>",
			LanguageCode:  "en",
		}},
	}}

	r := NewResultMapper().Map(claims)[0]

	if r.Claim != "Claim: 3<5 and a<b in math" {
		t.Errorf("Claim = %q", r.Claim)
	}
	if r.Title != "Vaccines <contain> microchips" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Verdict != "Rating: <True>" {
		t.Errorf("Verdict = %q", r.Verdict)
	}
	if r.VerdictCategory != model.VerdictTrue {
		t.Errorf("VerdictCategory = %q, want true", r.VerdictCategory)
	}
}

func TestResultMapper_ClassifiesRawRating(t *testing.T) {
	claims := []model.RawClaim{{
		Text:      "x",
		ClaimDate: "2022-01-01",
		ClaimReview: []model.RawReview{{
			Publisher:     model.RawPublisher{Name: "P", Site: "https://p.example"},
			URL:           "https://p.example/r",
			Title:         "t",
			ReviewDate:    "2022-01-02",
			TextualRating: "<b>Mostly</b> <i>False</i>",
			LanguageCode:  "en",
		}},
	}}

	r := NewResultMapper().Map(claims)[0]

	if r.Verdict != "Mostly False" {
		t.Errorf("Verdict = %q", r.Verdict)
	}
	if r.VerdictCategory != model.VerdictFalse {
		t.Errorf("VerdictCategory = %q, want false", r.VerdictCategory)
	}
}
