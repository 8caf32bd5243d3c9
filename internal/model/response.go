package model

import "encoding/json"

// Status is the terminal outcome of a pipeline run
type Status string

const (
	StatusOK        Status = "ok"
	StatusNoResults Status = "no_results"
	StatusError     Status = "error"
)

// MaxResults caps the number of results in a single response
const MaxResults = 10

// PipelineResponse is the envelope returned for every query, including failed ones.
//
// Results is non-empty iff Status is StatusOK. Suggestions is non-nil only
// when Status is StatusNoResults.
type PipelineResponse struct {
	QueryUsed   string   `json:"query_used" yaml:"query_used"`
	Status      Status   `json:"status" yaml:"status"`
	Results     []Result `json:"results" yaml:"results"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Notes       string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ErrorResponse builds a StatusError envelope
func ErrorResponse(queryUsed, notes string) PipelineResponse {
	return PipelineResponse{
		QueryUsed: queryUsed,
		Status:    StatusError,
		Results:   []Result{},
		Notes:     notes,
	}
}

// MarshalJSON always emits a results array, and emits suggestions (possibly
// empty) exactly when the status is no_results.
func (r PipelineResponse) MarshalJSON() ([]byte, error) {
	type envelope PipelineResponse
	out := struct {
		envelope
		Suggestions *[]string `json:"suggestions,omitempty"`
	}{envelope: envelope(r)}

	if out.Results == nil {
		out.Results = []Result{}
	}
	if r.Status == StatusNoResults {
		suggestions := r.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		out.Suggestions = &suggestions
	}
	return json.Marshal(out)
}
