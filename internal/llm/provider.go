package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete returns the model's text response to a single prompt
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a single-turn completion
type CompletionRequest struct {
	// Prompt is the user message
	Prompt string

	// System is an optional system instruction
	System string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; zero uses the provider default
	Temperature float64

	// JSONArray asks the provider to constrain output to a JSON array of
	// strings where its API supports that
	JSONArray bool
}

// CompletionResponse contains the model output
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Gemini/OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests in seconds. Zero leaves the deadline to the caller's context.
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

const suggestionSystemPrompt = "You help people find published fact checks. You only ever answer with a JSON array of strings."

// suggestionCount is how many alternative queries are requested and kept
const suggestionCount = 3

// BuildSuggestionPrompt asks for alternative search queries for a query that matched nothing
func BuildSuggestionPrompt(query string) string {
	return fmt.Sprintf(`A search of published fact checks for the query %q returned no results.

Suggest exactly %d alternative search queries that are more likely to match existing fact checks.
Make them diverse: rephrase the claim, use the key named entities, or try a broader topic.
Keep each query short (at most 8 words).

Respond with ONLY a JSON array of %d strings, for example:
["first query", "second query", "third query"]`, query, suggestionCount, suggestionCount)
}

func resolveModel(req CompletionRequest, config Config, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if config.Model != "" {
		return config.Model
	}
	return fallback
}

func resolveMaxTokens(req CompletionRequest, config Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if config.MaxTokens > 0 {
		return config.MaxTokens
	}
	return 256
}
