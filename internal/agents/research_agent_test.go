package agents

import (
	"context"
	"errors"
	"testing"

	"architect-ai-pipeline/internal/services"
)

type mockSearcher struct {
	results map[string][]services.SearchResult
	errs    map[string]error
	queries []string
}

func (m *mockSearcher) Search(ctx context.Context, query string, maxResults int) ([]services.SearchResult, error) {
	m.queries = append(m.queries, query)
	if err, ok := m.errs[query]; ok {
		return nil, err
	}
	return m.results[query], nil
}

type mockFetcher struct {
	pages   []*services.PageContent
	targets []string
}

func (m *mockFetcher) FetchPages(ctx context.Context, targets []string) []*services.PageContent {
	m.targets = append(m.targets, targets...)
	return m.pages
}

func TestResearchExecuteEnrichesWithSources(t *testing.T) {
	model := &mockCompleter{response: `{"architecture_patterns": [{"name": "Event-Driven"}], "search_queries": ["event driven architecture"]}`}
	search := &mockSearcher{
		results: map[string][]services.SearchResult{
			"event driven architecture": {
				{Title: "Event-Driven Patterns", URL: "https://example.com/eda", Content: "Overview of EDA", Score: 0.92},
			},
		},
	}
	fetcher := &mockFetcher{
		pages: []*services.PageContent{
			{URL: "https://example.com/eda", Title: "Event-Driven Patterns", Text: "Full article text", Success: true},
		},
	}
	agent := NewResearchAgent(model, search, fetcher, testLogger(t))
	state := testState()

	researchData, err := agent.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	sources := getSlice(researchData, "external_sources")
	if len(sources) != 1 {
		t.Fatalf("Expected 1 external source, got %d", len(sources))
	}
	source := sources[0].(map[string]any)
	if source["url"] != "https://example.com/eda" {
		t.Errorf("Unexpected source url: %v", source["url"])
	}

	excerpts := getSlice(researchData, "source_excerpts")
	if len(excerpts) != 1 {
		t.Fatalf("Expected 1 source excerpt, got %d", len(excerpts))
	}
	if excerpts[0].(map[string]any)["excerpt"] != "Full article text" {
		t.Errorf("Unexpected excerpt content: %v", excerpts[0])
	}

	if state.ProcessingStats.SearchesCount != 1 {
		t.Errorf("Expected 1 search recorded, got %d", state.ProcessingStats.SearchesCount)
	}
	if len(fetcher.targets) != 1 {
		t.Errorf("Expected 1 fetch target, got %v", fetcher.targets)
	}
}

func TestResearchExecuteSkipsFailedQueries(t *testing.T) {
	model := &mockCompleter{response: `{"search_queries": ["broken query", "working query"]}`}
	search := &mockSearcher{
		errs: map[string]error{"broken query": errors.New("rate limited")},
		results: map[string][]services.SearchResult{
			"working query": {
				{Title: "Result", URL: "https://example.com/a", Content: "text", Score: 0.5},
			},
		},
	}
	agent := NewResearchAgent(model, search, &mockFetcher{}, testLogger(t))
	state := testState()

	researchData, err := agent.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(search.queries) != 2 {
		t.Errorf("Expected both queries attempted, got %v", search.queries)
	}
	if len(getSlice(researchData, "external_sources")) != 1 {
		t.Errorf("Expected sources from the working query only, got %v", researchData["external_sources"])
	}
	if state.ProcessingStats.SearchesCount != 1 {
		t.Errorf("Expected 1 successful search recorded, got %d", state.ProcessingStats.SearchesCount)
	}
}

func TestResearchExecuteLimitsQueries(t *testing.T) {
	model := &mockCompleter{response: `{"search_queries": ["q1", "q2", "q3", "q4", "q5"]}`}
	search := &mockSearcher{}
	agent := NewResearchAgent(model, search, nil, testLogger(t))

	if _, err := agent.Execute(context.Background(), testState()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(search.queries) != maxSearchQueries {
		t.Errorf("Expected %d queries, got %d", maxSearchQueries, len(search.queries))
	}
}

func TestResearchExecuteFallsBackOnModelError(t *testing.T) {
	model := &mockCompleter{err: errors.New("model unavailable")}
	search := &mockSearcher{}
	agent := NewResearchAgent(model, search, &mockFetcher{}, testLogger(t))

	researchData, err := agent.Execute(context.Background(), testState())
	if err != nil {
		t.Fatalf("Expected fallback research instead of error, got: %v", err)
	}

	if len(getSlice(researchData, "architecture_patterns")) == 0 {
		t.Error("Expected fallback architecture patterns")
	}
	if len(search.queries) != 0 {
		t.Errorf("Expected no searches on fallback, got %v", search.queries)
	}
}

func TestResearchSkipsUnsuccessfulPages(t *testing.T) {
	model := &mockCompleter{response: `{"search_queries": ["q"]}`}
	search := &mockSearcher{
		results: map[string][]services.SearchResult{
			"q": {
				{Title: "A", URL: "https://example.com/a", Content: "text", Score: 0.5},
				{Title: "B", URL: "https://example.com/b", Content: "text", Score: 0.4},
			},
		},
	}
	fetcher := &mockFetcher{
		pages: []*services.PageContent{
			{URL: "https://example.com/a", Success: false, Error: "timeout"},
			{URL: "https://example.com/b", Title: "B", Text: "body", Success: true},
		},
	}
	agent := NewResearchAgent(model, search, fetcher, testLogger(t))

	researchData, err := agent.Execute(context.Background(), testState())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	excerpts := getSlice(researchData, "source_excerpts")
	if len(excerpts) != 1 {
		t.Fatalf("Expected 1 excerpt from the successful page, got %d", len(excerpts))
	}
	if excerpts[0].(map[string]any)["url"] != "https://example.com/b" {
		t.Errorf("Unexpected excerpt url: %v", excerpts[0])
	}
}
