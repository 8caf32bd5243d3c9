package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/factcheck"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline/mocks"
	"github.com/ppiankov/claimcheck/internal/query"
)

type PipelineTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	searcher  *mocks.MockSearcher
	mapper    *mocks.MockMapper
	suggester *mocks.MockSuggester

	pipeline *Pipeline
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.searcher = mocks.NewMockSearcher(s.ctrl)
	s.mapper = mocks.NewMockMapper(s.ctrl)
	s.suggester = mocks.NewMockSuggester(s.ctrl)

	s.pipeline = New(s.searcher, s.mapper, s.suggester, zap.NewNop())
}

func (s *PipelineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func sampleResults(n int) []model.Result {
	results := make([]model.Result, n)
	for i := range results {
		url := fmt.Sprintf("https://example.org/review/%d", i)
		results[i] = model.Result{ID: url, ClaimReviewURL: url, Verdict: "False", VerdictCategory: model.VerdictFalse}
	}
	return results
}

func (s *PipelineTestSuite) TestResolve_OK() {
	ctx := context.Background()
	claims := []model.RawClaim{{Text: "a"}, {Text: "b"}}

	s.searcher.EXPECT().Search(ctx, "fact check covid vaccines").Return(claims, nil)
	s.mapper.EXPECT().Map(claims).Return(sampleResults(3))
	s.suggester.EXPECT().Suggest(gomock.Any(), gomock.Any()).Times(0)

	resp := s.pipeline.Resolve(ctx, "  covid vaccines ")

	s.Equal(model.StatusOK, resp.Status)
	s.Equal("fact check covid vaccines", resp.QueryUsed)
	s.Len(resp.Results, 3)
	s.Nil(resp.Suggestions)
	s.Equal("Found 2 claims. Displaying 3 unique reviews.", resp.Notes)
}

func (s *PipelineTestSuite) TestResolve_LongQueryUnchanged() {
	ctx := context.Background()

	s.searcher.EXPECT().Search(ctx, "did the moon landing happen").Return([]model.RawClaim{{Text: "a"}}, nil)
	s.mapper.EXPECT().Map(gomock.Any()).Return(sampleResults(1))

	resp := s.pipeline.Resolve(ctx, "did the moon landing happen")

	s.Equal(model.StatusOK, resp.Status)
	s.Equal("did the moon landing happen", resp.QueryUsed)
}

func (s *PipelineTestSuite) TestResolve_NoResults() {
	ctx := context.Background()

	s.searcher.EXPECT().Search(ctx, "fact check xyzzy").Return([]model.RawClaim{}, nil)
	s.mapper.EXPECT().Map(gomock.Any()).Return([]model.Result{})
	s.suggester.EXPECT().Suggest(ctx, "xyzzy").Return([]string{"a", "b", "c"})

	resp := s.pipeline.Resolve(ctx, "  xyzzy ")

	s.Equal(model.StatusNoResults, resp.Status)
	s.Equal("fact check xyzzy", resp.QueryUsed)
	s.NotNil(resp.Results)
	s.Empty(resp.Results)
	s.Equal([]string{"a", "b", "c"}, resp.Suggestions)
	s.Equal("No claims found for the given query.", resp.Notes)
}

func (s *PipelineTestSuite) TestResolve_NoResultsSuggesterReturnsNil() {
	ctx := context.Background()

	s.searcher.EXPECT().Search(ctx, gomock.Any()).Return(nil, nil)
	s.mapper.EXPECT().Map(gomock.Any()).Return(nil)
	s.suggester.EXPECT().Suggest(ctx, gomock.Any()).Return(nil)

	resp := s.pipeline.Resolve(ctx, "xyzzy")

	s.Equal(model.StatusNoResults, resp.Status)
	s.NotNil(resp.Suggestions)
	s.Empty(resp.Suggestions)
}

func (s *PipelineTestSuite) TestResolve_NoResultsSuggesterPanics() {
	ctx := context.Background()

	s.searcher.EXPECT().Search(ctx, gomock.Any()).Return(nil, nil)
	s.mapper.EXPECT().Map(gomock.Any()).Return([]model.Result{})
	s.suggester.EXPECT().Suggest(ctx, gomock.Any()).DoAndReturn(func(context.Context, string) []string {
		panic("boom")
	})

	resp := s.pipeline.Resolve(ctx, "xyzzy")

	s.Equal(model.StatusNoResults, resp.Status)
	s.NotNil(resp.Suggestions)
	s.Empty(resp.Suggestions)
}

func (s *PipelineTestSuite) TestResolve_InvalidInput() {
	s.searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)
	s.mapper.EXPECT().Map(gomock.Any()).Times(0)
	s.suggester.EXPECT().Suggest(gomock.Any(), gomock.Any()).Times(0)

	for _, raw := range []string{"", "   ", "\t\n"} {
		resp := s.pipeline.Resolve(context.Background(), raw)

		s.Equal(model.StatusError, resp.Status)
		s.Equal("", resp.QueryUsed)
		s.NotNil(resp.Results)
		s.Empty(resp.Results)
		s.Nil(resp.Suggestions)
		s.Equal(query.ErrInvalidInput.Error(), resp.Notes)
	}
}

func (s *PipelineTestSuite) TestResolve_SearchError() {
	ctx := context.Background()
	upstream := errors.New("API request failed with status 403: API key not valid")

	s.searcher.EXPECT().Search(ctx, "fact check covid").Return(nil, upstream)
	s.mapper.EXPECT().Map(gomock.Any()).Times(0)
	s.suggester.EXPECT().Suggest(gomock.Any(), gomock.Any()).Times(0)

	resp := s.pipeline.Resolve(ctx, "covid")

	s.Equal(model.StatusError, resp.Status)
	s.Equal("fact check covid", resp.QueryUsed)
	s.Empty(resp.Results)
	s.Nil(resp.Suggestions)
	s.Equal(upstream.Error(), resp.Notes)
}

func (s *PipelineTestSuite) TestResolve_SearchPanics() {
	ctx := context.Background()

	s.searcher.EXPECT().Search(ctx, gomock.Any()).DoAndReturn(func(context.Context, string) ([]model.RawClaim, error) {
		panic("nil map")
	})
	s.mapper.EXPECT().Map(gomock.Any()).Times(0)

	resp := s.pipeline.Resolve(ctx, "covid")

	s.Equal(model.StatusError, resp.Status)
	s.Contains(resp.Notes, "nil map")
}

func (s *PipelineTestSuite) TestResolve_MapperPanics() {
	ctx := context.Background()

	s.searcher.EXPECT().Search(ctx, gomock.Any()).Return([]model.RawClaim{{Text: "a"}}, nil)
	s.mapper.EXPECT().Map(gomock.Any()).DoAndReturn(func([]model.RawClaim) []model.Result {
		panic("index out of range")
	})
	s.suggester.EXPECT().Suggest(gomock.Any(), gomock.Any()).Times(0)

	resp := s.pipeline.Resolve(ctx, "covid")

	s.Equal(model.StatusError, resp.Status)
	s.Empty(resp.Results)
	s.Contains(resp.Notes, "index out of range")
}

func (s *PipelineTestSuite) TestResolve_CapsResults() {
	ctx := context.Background()

	s.searcher.EXPECT().Search(ctx, gomock.Any()).Return([]model.RawClaim{{Text: "a"}}, nil)
	s.mapper.EXPECT().Map(gomock.Any()).Return(sampleResults(14))

	resp := s.pipeline.Resolve(ctx, "covid")

	s.Len(resp.Results, model.MaxResults)
	s.Equal("Found 1 claims. Displaying 10 unique reviews.", resp.Notes)
}

func (s *PipelineTestSuite) TestResolve_Idempotent() {
	ctx := context.Background()
	claims := []model.RawClaim{{Text: "a"}}

	s.searcher.EXPECT().Search(ctx, "fact check covid").Return(claims, nil).Times(2)
	s.mapper.EXPECT().Map(claims).Return(sampleResults(2)).Times(2)

	first := s.pipeline.Resolve(ctx, "covid")
	second := s.pipeline.Resolve(ctx, "covid")

	s.Equal(first, second)
}

func TestResolve_NilSuggester(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)
	mapper := mocks.NewMockMapper(ctrl)

	searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil)
	mapper.EXPECT().Map(gomock.Any()).Return([]model.Result{})

	resp := New(searcher, mapper, nil, nil).Resolve(context.Background(), "xyzzy")

	if resp.Status != model.StatusNoResults {
		t.Fatalf("Expected no_results, got %s", resp.Status)
	}
	if resp.Suggestions == nil || len(resp.Suggestions) != 0 {
		t.Errorf("Expected empty non-nil suggestions, got %#v", resp.Suggestions)
	}
}

const upstreamBody = `{
  "claims": [
    {
      "text": "Drinking bleach cures COVID-19",
      "claimant": "Viral post",
      "claimDate": "2020-04-01T00:00:00Z",
      "claimReview": [
        {
          "publisher": {"name": "Reuters", "site": "https://www.reuters.com"},
          "url": "https://www.reuters.com/fc/bleach",
          "title": "Fact check: bleach does not cure COVID-19",
          "reviewDate": "2020-04-02T09:30:00Z",
          "textualRating": "False",
          "languageCode": "en"
        },
        {
          "publisher": {"name": "AFP", "site": "https://factcheck.afp.com"},
          "url": "https://factcheck.afp.com/bleach",
          "title": "No, bleach is not a cure",
          "reviewDate": "not a date",
          "textualRating": "Misleading",
          "languageCode": "en"
        }
      ]
    },
    {
      "text": "Bleach kills the coronavirus in the body",
      "claimDate": "2020-04-03",
      "claimReview": [
        {
          "publisher": {"name": "Reuters", "site": "https://www.reuters.com"},
          "url": "https://www.reuters.com/fc/bleach",
          "title": "Fact check: bleach does not cure COVID-19",
          "reviewDate": "2020-04-02T09:30:00Z",
          "textualRating": "False",
          "languageCode": "en"
        }
      ]
    }
  ]
}`

type staticSuggester []string

func (s staticSuggester) Suggest(context.Context, string) []string { return s }

func TestResolve_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer server.Close()

	client := factcheck.New("k", factcheck.WithEndpoint(server.URL))
	p := New(client, extract.NewResultMapper(), staticSuggester{"unused"}, zap.NewNop())

	resp := p.Resolve(context.Background(), "bleach covid cure")

	if resp.Status != model.StatusOK {
		t.Fatalf("Expected ok, got %s (%s)", resp.Status, resp.Notes)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 unique results, got %d", len(resp.Results))
	}
	if resp.Notes != "Found 2 claims. Displaying 2 unique reviews." {
		t.Errorf("Unexpected notes: %s", resp.Notes)
	}

	first, second := resp.Results[0], resp.Results[1]
	if first.VerdictCategory != model.VerdictFalse || first.PublishedDate != "2020-04-02" {
		t.Errorf("Unexpected first result: %+v", first)
	}
	if second.VerdictCategory != model.VerdictFalse || second.PublishedDate != "2020-04-01" {
		t.Errorf("Unexpected second result: %+v", second)
	}
	if first.Explanation != "Claim by Viral post." {
		t.Errorf("Unexpected explanation: %s", first.Explanation)
	}
}

func TestResolve_EndToEndIdempotent(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer server.Close()

	client := factcheck.New("k", factcheck.WithEndpoint(server.URL))
	p := New(client, extract.NewResultMapper(), staticSuggester{"unused"}, zap.NewNop())

	first := p.Resolve(context.Background(), "bleach covid cure")
	second := p.Resolve(context.Background(), "bleach covid cure")

	if hits.Load() != 2 {
		t.Fatalf("Expected one upstream request per resolve, got %d", hits.Load())
	}
	if first.Status != model.StatusOK {
		t.Fatalf("Expected ok, got %s (%s)", first.Status, first.Notes)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Responses differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	var a, b bytes.Buffer
	if err := RenderJSON(&a, first); err != nil {
		t.Fatalf("render first: %v", err)
	}
	if err := RenderJSON(&b, second); err != nil {
		t.Fatalf("render second: %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("Rendered JSON differs:\n%s\n%s", a.String(), b.String())
	}
}

func TestResolve_MissingAPIKeyMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	suggester := mocks.NewMockSuggester(ctrl)
	suggester.EXPECT().Suggest(gomock.Any(), gomock.Any()).Times(0)

	client := factcheck.New("", factcheck.WithEndpoint(server.URL))
	resp := New(client, extract.NewResultMapper(), suggester, zap.NewNop()).Resolve(context.Background(), "covid")

	if resp.Status != model.StatusError {
		t.Fatalf("Expected error status, got %s", resp.Status)
	}
	if resp.QueryUsed != "fact check covid" {
		t.Errorf("Unexpected query_used: %s", resp.QueryUsed)
	}
	if hits.Load() != 0 {
		t.Errorf("Expected no upstream requests, got %d", hits.Load())
	}
	if resp.Notes == "" {
		t.Error("Expected a configuration message in notes")
	}
}
