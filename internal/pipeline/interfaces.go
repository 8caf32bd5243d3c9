package pipeline

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Searcher looks up fact-checked claims for a normalized query
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.RawClaim, error)
}

// Mapper turns validated claims into display results
type Mapper interface {
	Map(claims []model.RawClaim) []model.Result
}

// Suggester proposes alternative queries. It must not fail.
type Suggester interface {
	Suggest(ctx context.Context, query string) []string
}
