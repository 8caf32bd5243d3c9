// Package query prepares raw user input for the upstream claims search.
package query

import (
	"errors"
	"strings"
)

// ShortQueryPrefix is prepended to queries of ShortQueryWords words or fewer.
// The claims search endpoint matches poorly on one- or two-word topics.
const ShortQueryPrefix = "fact check "

// ShortQueryWords is the largest word count that still receives ShortQueryPrefix
const ShortQueryWords = 2

// ErrInvalidInput is returned for empty or whitespace-only queries
var ErrInvalidInput = errors.New("query must not be empty")

// Normalize trims the raw query and expands very short queries.
// The result is never empty when err is nil.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidInput
	}

	if len(strings.Fields(trimmed)) <= ShortQueryWords {
		return ShortQueryPrefix + trimmed, nil
	}
	return trimmed, nil
}
