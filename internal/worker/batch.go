package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Resolver resolves a single query into a response envelope
type Resolver interface {
	Resolve(ctx context.Context, query string) model.PipelineResponse
}

// QueryJob resolves one query from a batch
type QueryJob struct {
	Index    int
	Query    string
	Resolver Resolver
	Timeout  time.Duration
}

// Execute executes the query job
func (j *QueryJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	return &QueryResult{
		Index:    j.Index,
		Query:    j.Query,
		Response: j.Resolver.Resolve(ctx, j.Query),
	}
}

// QueryResult represents the result of a query job
type QueryResult struct {
	Index    int                    `json:"-"`
	Query    string                 `json:"query"`
	Response model.PipelineResponse `json:"response"`
}

// GetError returns an error when the response status is error
func (r *QueryResult) GetError() error {
	if r.Response.Status == model.StatusError {
		return errors.New(r.Response.Notes)
	}
	return nil
}

// BatchProcessor resolves multiple queries concurrently
type BatchProcessor struct {
	resolver    Resolver
	concurrency int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. timeout bounds each query;
// zero leaves it to ctx.
func NewBatchProcessor(resolver Resolver, concurrency int, timeout time.Duration, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		resolver:    resolver,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger,
	}
}

// ProcessQueries resolves queries concurrently. The output has one entry per
// query, in input order; queries dropped by cancellation get an error response.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, q := range queries {
		pool.Submit(&QueryJob{
			Index:    i,
			Query:    q,
			Resolver: b.resolver,
			Timeout:  b.timeout,
		})
	}

	out := make([]*QueryResult, len(queries))
	for _, r := range pool.Wait() {
		qr := r.(*QueryResult)
		out[qr.Index] = qr
	}

	failed := 0
	for i, qr := range out {
		if qr == nil {
			reason := "batch cancelled"
			if err := ctx.Err(); err != nil {
				reason = fmt.Sprintf("batch cancelled: %v", err)
			}
			out[i] = &QueryResult{
				Index:    i,
				Query:    queries[i],
				Response: model.ErrorResponse(strings.TrimSpace(queries[i]), reason),
			}
		}
		if out[i].GetError() != nil {
			failed++
		}
	}

	b.logger.Debug("batch complete",
		zap.Int("queries", len(queries)),
		zap.Int("failed", failed))

	return out
}

// ProcessFile reads queries from a file and resolves them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file (one per line). Blank lines,
// '#' comments and duplicates are skipped.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
