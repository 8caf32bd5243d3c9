package model

// VerdictCategory is the coarse classification derived from a review's textual rating
type VerdictCategory string

const (
	VerdictTrue    VerdictCategory = "true"
	VerdictFalse   VerdictCategory = "false"
	VerdictMixed   VerdictCategory = "mixed"
	VerdictUnknown VerdictCategory = "unknown"
)

// Result is a single normalized fact-check review
type Result struct {
	ID              string          `json:"id"`               // Review URL, unique within a response
	Title           string          `json:"title"`            // Review headline
	Claim           string          `json:"claim"`            // Original claim text
	Verdict         string          `json:"verdict"`          // Publisher's textual rating
	VerdictCategory VerdictCategory `json:"verdict_category"` // Derived category
	Explanation     string          `json:"explanation"`      // "Claim by <claimant>."
	Publisher       Publisher       `json:"publisher"`
	PublishedDate   string          `json:"published_date"` // YYYY-MM-DD, empty if unknown
	ClaimReviewURL  string          `json:"claim_review_url"`
	LanguageCode    string          `json:"language_code,omitempty"`
}

// Publisher is the output form of a review publisher
type Publisher struct {
	Name    string `json:"name"`
	SiteURL string `json:"site_url"`
}
