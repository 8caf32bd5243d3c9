package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/factcheck"
	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// app holds the wired components for one command invocation
type app struct {
	cfg       *model.Config
	pipeline  *pipeline.Pipeline
	suggester *llm.Suggester
	cache     cache.Cache
	closers   []func() error
}

// Close releases external connections
func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
}

// newApp wires the pipeline from cfg. Suggestion provider problems are logged
// and disable suggestions; they never fail the command.
func newApp(cfg *model.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg}

	httpClient := util.NewHTTPClient(0, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
	limiter := newLimiter(cfg.RateLimiting, logger)

	client := factcheck.New(cfg.FactCheck.APIKey,
		factcheck.WithHTTPClient(httpClient),
		factcheck.WithEndpoint(cfg.FactCheck.Endpoint),
		factcheck.WithUserAgent(cfg.HTTP.UserAgent),
		factcheck.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
		factcheck.WithLimiter(limiter),
		factcheck.WithLogger(logger),
	)

	var searcher pipeline.Searcher = client

	// Without a key every search fails before any I/O; caching would only mask that.
	if cfg.Cache.Enabled && cfg.FactCheck.APIKey != "" {
		c, err := a.openCache(logger)
		if err != nil {
			return nil, err
		}
		a.cache = c
		searcher = factcheck.NewCachedSearcher(client, c, cfg.Cache.TTL, logger)
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg))
		if err != nil {
			logger.Warn("suggestions disabled", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		} else {
			provider = p
		}
	}
	a.suggester = llm.NewSuggester(provider, logger)

	a.pipeline = pipeline.New(searcher, extract.NewResultMapper(), a.suggester, logger)

	logger.Debug("pipeline ready",
		zap.String("endpoint", cfg.FactCheck.Endpoint),
		zap.Bool("api_key_set", cfg.FactCheck.APIKey != ""),
		zap.Bool("cache", a.cache != nil),
		zap.String("suggestions", a.suggester.ProviderName()))

	return a, nil
}

// newLimiter builds the shared upstream limiter with its per-host overrides
func newLimiter(cfg model.RateLimitingConfig, logger *zap.Logger) *worker.Limiter {
	limiter := worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize)
	for _, h := range cfg.Hosts {
		host := strings.ToLower(strings.TrimSpace(h.Host))
		if host == "" {
			logger.Warn("ignoring rate override without host")
			continue
		}
		limiter.SetHostRate(host, h.RequestsPerSecond, h.BurstSize)
		logger.Debug("host rate override",
			zap.String("host", host),
			zap.Float64("requests_per_second", h.RequestsPerSecond),
			zap.Int("burst", h.BurstSize))
	}
	return limiter
}

// checkSuggestions reports whether the suggestion provider answers a minimal
// request within ctx. It logs a warning when it does not.
func (a *app) checkSuggestions(ctx context.Context, logger *zap.Logger) bool {
	if !a.suggester.IsEnabled() {
		return false
	}
	if a.suggester.Available(ctx) {
		return true
	}
	logger.Warn("suggestion provider not reachable; no_results responses will carry no suggestions",
		zap.String("provider", a.suggester.ProviderName()))
	return false
}

// openCache returns a memory cache, layered over Redis when an address is configured
func (a *app) openCache(logger *zap.Logger) (cache.Cache, error) {
	ttl := a.cfg.Cache.TTL
	memory := cache.NewMemoryCache(ttl, 2*ttl)
	if a.cfg.Cache.RedisAddr == "" {
		return memory, nil
	}

	shared := cache.NewRedisCache(a.cfg.Cache.RedisAddr, ttl)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := shared.Ping(ctx); err != nil {
		_ = shared.Close()
		return nil, fmt.Errorf("connect redis %s: %w", a.cfg.Cache.RedisAddr, err)
	}
	a.closers = append(a.closers, shared.Close)

	logger.Debug("using shared cache", zap.String("redis_addr", a.cfg.Cache.RedisAddr))
	return cache.NewLayeredCache(memory, shared), nil
}

// requestContext bounds a single query by http.request_timeout
func requestContext(parent context.Context, cfg *model.Config) (context.Context, context.CancelFunc) {
	if cfg.HTTP.RequestTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, cfg.HTTP.RequestTimeout)
}
