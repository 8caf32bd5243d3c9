package factcheck

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
)

const cacheNamespace = "search"

// CachedSearcher serves repeated queries from a cache. Only successful
// searches are stored; cache failures degrade to a direct search.
type CachedSearcher struct {
	next   Searcher
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSearcher wraps next with c
func NewCachedSearcher(next Searcher, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Search implements Searcher
func (s *CachedSearcher) Search(ctx context.Context, query string) ([]model.RawClaim, error) {
	key := cache.CacheKey(cacheNamespace, query)

	if data, found := s.cache.Get(ctx, key); found {
		var claims []model.RawClaim
		if err := json.Unmarshal(data, &claims); err == nil {
			s.logger.Debug("fact check cache hit", zap.String("query", query))
			return claims, nil
		}
		s.logger.Warn("discarding unreadable cache entry", zap.String("query", query))
		_ = s.cache.Delete(ctx, key)
	}

	claims, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(claims)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.ttl)
	}
	if err != nil {
		s.logger.Warn("failed to cache fact check result", zap.String("query", query), zap.Error(err))
	}

	return claims, nil
}
