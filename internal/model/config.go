package model

import "time"

// DefaultFactCheckEndpoint is the Google Fact Check Tools claims search endpoint
const DefaultFactCheckEndpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

// Config holds the complete claimcheck configuration
type Config struct {
	FactCheck    FactCheckConfig    `yaml:"factcheck" mapstructure:"factcheck"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// FactCheckConfig configures the upstream claims search
type FactCheckConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string `yaml:"api_key,omitempty" mapstructure:"api_key"` // prefer GOOGLE_API_KEY
}

// LLMConfig configures the suggestion fallback provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds, 0 = caller context only
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// HTTPConfig configures outbound HTTP
type HTTPConfig struct {
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"` // per-query deadline
	UserAgent      string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy      string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy     string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy        string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the optional search result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisAddr string        `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"` // empty = memory only
}

// RateLimitingConfig throttles upstream searches per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
	Hosts             []HostRateConfig `yaml:"hosts,omitempty" mapstructure:"hosts"`
}

// HostRateConfig overrides the default rate for one upstream host.
// A zero burst inherits burst_size.
type HostRateConfig struct {
	Host              string  `yaml:"host" mapstructure:"host"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size,omitempty" mapstructure:"burst_size"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		FactCheck: FactCheckConfig{
			Endpoint: DefaultFactCheckEndpoint,
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-2.0-flash",
			Timeout:   0,
			MaxTokens: 256,
		},
		HTTP: HTTPConfig{
			RequestTimeout: 30 * time.Second,
			UserAgent:      "claimcheck/0.1 (+https://github.com/ppiankov/claimcheck)",
			MaxBodyBytes:   2_000_000,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     15 * time.Minute,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
