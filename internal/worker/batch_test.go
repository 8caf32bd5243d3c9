package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// mockResolver echoes the query back; queries containing "fail" produce an error response
type mockResolver struct {
	calls atomic.Int32
	delay func(query string) time.Duration
}

func (m *mockResolver) Resolve(ctx context.Context, query string) model.PipelineResponse {
	m.calls.Add(1)
	if m.delay != nil {
		select {
		case <-time.After(m.delay(query)):
		case <-ctx.Done():
			return model.ErrorResponse(query, ctx.Err().Error())
		}
	}
	if strings.Contains(query, "fail") {
		return model.ErrorResponse(query, "upstream failed")
	}
	return model.PipelineResponse{
		QueryUsed: query,
		Status:    model.StatusOK,
		Results:   []model.Result{{ID: "https://example.org/" + query}},
	}
}

func TestBatchProcessor_ProcessQueries_Order(t *testing.T) {
	resolver := &mockResolver{delay: func(q string) time.Duration {
		// earlier queries take longer
		return time.Duration(10-len(q)) * 5 * time.Millisecond
	}}
	processor := NewBatchProcessor(resolver, 3, 0, nil)

	queries := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	results := processor.ProcessQueries(context.Background(), queries)

	if len(results) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(results))
	}
	for i, res := range results {
		if res.Query != queries[i] {
			t.Errorf("results[%d].Query = %s, want %s", i, res.Query, queries[i])
		}
		if res.Response.QueryUsed != queries[i] {
			t.Errorf("results[%d] response for %s", i, res.Response.QueryUsed)
		}
		if res.GetError() != nil {
			t.Errorf("unexpected error for %s: %v", res.Query, res.GetError())
		}
	}
}

func TestBatchProcessor_ProcessQueries_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockResolver{}, 2, 0, nil)

	results := processor.ProcessQueries(context.Background(), []string{"ok one", "fail two"})

	if results[0].GetError() != nil {
		t.Errorf("expected no error for first query, got %v", results[0].GetError())
	}
	if err := results[1].GetError(); err == nil || err.Error() != "upstream failed" {
		t.Errorf("expected upstream failed error, got %v", err)
	}
}

func TestBatchProcessor_ProcessQueries_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockResolver{}, 2, 0, nil)

	results := processor.ProcessQueries(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
}

func TestBatchProcessor_PerQueryTimeout(t *testing.T) {
	resolver := &mockResolver{delay: func(string) time.Duration { return time.Second }}
	processor := NewBatchProcessor(resolver, 2, 20*time.Millisecond, nil)

	start := time.Now()
	results := processor.ProcessQueries(context.Background(), []string{"slow query"})

	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("per-query timeout not applied")
	}
	if results[0].Response.Status != model.StatusError {
		t.Errorf("expected error status, got %s", results[0].Response.Status)
	}
}

func TestBatchProcessor_CancelledContext(t *testing.T) {
	resolver := &mockResolver{}
	processor := NewBatchProcessor(resolver, 2, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessQueries(ctx, []string{"one", "two"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Response.Status != model.StatusError {
			t.Errorf("expected error status for %s, got %s", res.Query, res.Response.Status)
		}
		if !strings.Contains(res.Response.Notes, "cancel") {
			t.Errorf("unexpected notes: %s", res.Response.Notes)
		}
	}
	if resolver.calls.Load() != 0 {
		t.Errorf("expected no resolver calls, got %d", resolver.calls.Load())
	}
}

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadQueriesFromFile(t *testing.T) {
	path := writeQueryFile(t, `covid vaccines
# comment
moon landing faked
   
covid vaccines
  5g towers   `)

	queries, err := ReadQueriesFromFile(path)
	if err != nil {
		t.Fatalf("ReadQueriesFromFile failed: %v", err)
	}

	expected := []string{"covid vaccines", "moon landing faked", "5g towers"}
	if len(queries) != len(expected) {
		t.Fatalf("expected %d queries, got %d: %v", len(expected), len(queries), queries)
	}
	for i, q := range queries {
		if q != expected[i] {
			t.Errorf("expected query %s at index %d, got %s", expected[i], i, q)
		}
	}
}

func TestReadQueriesFromFile_NonExistent(t *testing.T) {
	if _, err := ReadQueriesFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeQueryFile(t, "first query\nsecond query\n")
	processor := NewBatchProcessor(&mockResolver{}, 2, 0, nil)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 || results[1].Query != "second query" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockResolver{}, 2, 0, nil)

	if _, err := processor.ProcessFile(context.Background(), "missing.txt"); err == nil {
		t.Error("expected error for non-existent file")
	}
}
