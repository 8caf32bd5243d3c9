package model

// RawClaim is a claim record as returned by the fact-check search endpoint,
// after the factcheck package has checked it against the upstream contract.
type RawClaim struct {
	Text        string      `json:"text"`
	Claimant    string      `json:"claimant,omitempty"`
	ClaimDate   string      `json:"claimDate"`
	ClaimReview []RawReview `json:"claimReview"`
}

// RawReview is one publisher's evaluation of a RawClaim
type RawReview struct {
	Publisher     RawPublisher `json:"publisher"`
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	ReviewDate    string       `json:"reviewDate"`
	TextualRating string       `json:"textualRating"`
	LanguageCode  string       `json:"languageCode"`
}

// RawPublisher identifies the organisation behind a review
type RawPublisher struct {
	Name string `json:"name"`
	Site string `json:"site"`
}
