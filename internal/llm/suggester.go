package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var errNoArray = errors.New("no JSON array of strings in model output")

// Suggester proposes alternative queries when a search matched nothing.
// It never fails: every problem degrades to an empty list.
type Suggester struct {
	provider Provider
	logger   *zap.Logger
}

// NewSuggester creates a suggester. A nil provider disables suggestions.
func NewSuggester(provider Provider, logger *zap.Logger) *Suggester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggester{provider: provider, logger: logger}
}

// IsEnabled reports whether a provider is configured
func (s *Suggester) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Suggester) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Available sends the provider a minimal request. It reports false when suggestions are disabled.
func (s *Suggester) Available(ctx context.Context) bool {
	if !s.IsEnabled() {
		return false
	}
	return s.provider.IsAvailable(ctx)
}

// Suggest returns up to three alternative queries for query. The result is
// never nil.
func (s *Suggester) Suggest(ctx context.Context, query string) []string {
	if !s.IsEnabled() {
		return []string{}
	}

	resp, err := s.provider.Complete(ctx, CompletionRequest{
		Prompt:      BuildSuggestionPrompt(query),
		System:      suggestionSystemPrompt,
		Temperature: 0.7,
		JSONArray:   true,
	})
	if err != nil {
		s.logger.Warn("suggestion generation failed",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		return []string{}
	}

	suggestions, err := ParseSuggestions(resp.Text)
	if err != nil {
		s.logger.Warn("unusable suggestion output",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		return []string{}
	}

	s.logger.Debug("generated suggestions",
		zap.String("query", query),
		zap.Strings("suggestions", suggestions))

	return suggestions
}

// ParseSuggestions extracts the first JSON array of strings from model output.
// Code fences and surrounding prose are tolerated, including bracketed prose
// and arrays holding anything other than strings. Entries are trimmed, empty
// and duplicate entries dropped, and the list capped at three.
func ParseSuggestions(text string) ([]string, error) {
	items, err := firstStringArray(stripCodeFences(text))
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, suggestionCount)
	seen := make(map[string]bool)
	for _, item := range items {
		s := strings.TrimSpace(item.String())
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if len(suggestions) < suggestionCount {
			suggestions = append(suggestions, s)
		}
	}

	return suggestions, nil
}

func stripCodeFences(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// firstStringArray returns the elements of the first '['-delimited span that
// decodes as a JSON array holding only strings. Arrays with other elements are
// skipped whole, so their nested arrays are never considered.
func firstStringArray(text string) ([]gjson.Result, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		items := gjson.ParseBytes(raw).Array()
		if allStrings(items) {
			return items, nil
		}
		i += len(raw) - 1
	}
	return nil, errNoArray
}

func allStrings(items []gjson.Result) bool {
	for _, item := range items {
		if item.Type != gjson.String {
			return false
		}
	}
	return true
}
