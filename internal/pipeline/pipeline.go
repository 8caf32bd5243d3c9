// Package pipeline resolves a free-text query into a fact-check response.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/query"
)

const noResultsNote = "No claims found for the given query."

// Pipeline orchestrates normalize, search, map and suggest for a single query.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	searcher  Searcher
	mapper    Mapper
	suggester Suggester
	logger    *zap.Logger
}

// New creates a pipeline. suggester may be nil, in which case no_results
// responses carry an empty suggestion list.
func New(searcher Searcher, mapper Mapper, suggester Suggester, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		searcher:  searcher,
		mapper:    mapper,
		suggester: suggester,
		logger:    logger,
	}
}

// Resolve runs the pipeline for raw. It never returns an error: every failure
// is reported as a StatusError response. Suggestions are asked for the user's
// own wording, not the expanded search query.
func (p *Pipeline) Resolve(ctx context.Context, raw string) model.PipelineResponse {
	normalized, err := query.Normalize(raw)
	if err != nil {
		return model.ErrorResponse(strings.TrimSpace(raw), err.Error())
	}

	claims, err := p.search(ctx, normalized)
	if err != nil {
		p.logger.Warn("fact check search failed",
			zap.String("query", normalized),
			zap.Error(err))
		return model.ErrorResponse(normalized, err.Error())
	}

	results, err := p.mapClaims(claims)
	if err != nil {
		p.logger.Error("mapping claims failed",
			zap.String("query", normalized),
			zap.Error(err))
		return model.ErrorResponse(normalized, err.Error())
	}

	if len(results) > 0 {
		p.logger.Debug("resolved query",
			zap.String("query", normalized),
			zap.Int("claims", len(claims)),
			zap.Int("results", len(results)))
		return model.PipelineResponse{
			QueryUsed: normalized,
			Status:    model.StatusOK,
			Results:   results,
			Notes:     fmt.Sprintf("Found %d claims. Displaying %d unique reviews.", len(claims), len(results)),
		}
	}

	return model.PipelineResponse{
		QueryUsed:   normalized,
		Status:      model.StatusNoResults,
		Results:     []model.Result{},
		Suggestions: p.suggest(ctx, strings.TrimSpace(raw)),
		Notes:       noResultsNote,
	}
}

func (p *Pipeline) search(ctx context.Context, q string) (claims []model.RawClaim, err error) {
	defer recoverInto(&err, "search")
	return p.searcher.Search(ctx, q)
}

func (p *Pipeline) mapClaims(claims []model.RawClaim) (results []model.Result, err error) {
	defer recoverInto(&err, "map")
	results = p.mapper.Map(claims)
	if len(results) > model.MaxResults {
		results = results[:model.MaxResults]
	}
	return results, nil
}

func (p *Pipeline) suggest(ctx context.Context, q string) (suggestions []string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("suggestion fallback panicked", zap.Any("panic", r))
			suggestions = []string{}
		}
	}()

	if p.suggester == nil {
		return []string{}
	}
	suggestions = p.suggester.Suggest(ctx, q)
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions
}

func recoverInto(err *error, stage string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("unexpected failure during %s: %v", stage, r)
	}
}
