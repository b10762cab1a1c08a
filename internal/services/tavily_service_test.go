package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/pkg/logger"
	"architect-ai-pipeline/internal/services"
)

func tavilyTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query": "q", "results": [
			{"title": "Result A", "url": "https://example.com/a", "content": "text", "score": 0.9},
			{"title": "Result B", "url": "https://example.com/b", "content": "text", "score": 0.8}
		]}`))
	}))
}

func newTestTavilyService(t *testing.T, baseURL string) *services.TavilyService {
	t.Helper()

	log, err := logger.New(config.LogConfig{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}

	service, err := services.NewTavilyService(config.TavilyConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		MaxResults:  5,
		SearchDepth: "basic",
		Timeout:     5 * time.Second,
	}, log)
	if err != nil {
		t.Fatalf("Failed to create tavily service: %v", err)
	}
	return service
}

func TestTavilySearch(t *testing.T) {
	server := tavilyTestServer(t)
	defer server.Close()

	service := newTestTavilyService(t, server.URL)
	defer service.Close()

	results, err := service.Search(context.Background(), "architecture patterns", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Result A" {
		t.Errorf("Unexpected first result: %+v", results[0])
	}

	stats := service.UsageStats()
	if stats["searches_made"] != int64(1) {
		t.Errorf("Expected 1 search recorded, got %v", stats["searches_made"])
	}
	if stats["results_retrieved"] != int64(2) {
		t.Errorf("Expected 2 results recorded, got %v", stats["results_retrieved"])
	}
}

func TestTavilyUsageStatsConcurrentSearches(t *testing.T) {
	server := tavilyTestServer(t)
	defer server.Close()

	service := newTestTavilyService(t, server.URL)
	defer service.Close()

	const searches = 20

	var wg sync.WaitGroup
	for i := 0; i < searches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.Search(context.Background(), "concurrent query", 2); err != nil {
				t.Errorf("Search failed: %v", err)
			}
		}()
	}
	wg.Wait()

	stats := service.UsageStats()
	if stats["searches_made"] != int64(searches) {
		t.Errorf("Expected %d searches recorded, got %v", searches, stats["searches_made"])
	}
	if stats["results_retrieved"] != int64(2*searches) {
		t.Errorf("Expected %d results recorded, got %v", 2*searches, stats["results_retrieved"])
	}
}
