package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker"
)

type TavilyService struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	config     config.TavilyConfig
	logger     *logger.Logger

	searchesMade     atomic.Int64
	resultsRetrieved atomic.Int64
}

type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilySearchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

func NewTavilyService(cfg config.TavilyConfig, log *logger.Logger) (*TavilyService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Tavily API key required")
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tavily",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	service := &TavilyService{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
		logger:     log,
	}

	log.Info("Tavily service initialized",
		"base_url", cfg.BaseURL,
		"max_results", cfg.MaxResults,
		"search_depth", cfg.SearchDepth)

	return service, nil
}

func (service *TavilyService) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	startTime := time.Now()

	if maxResults <= 0 {
		maxResults = service.config.MaxResults
	}

	operation := func() ([]SearchResult, error) {
		result, err := service.breaker.Execute(func() (interface{}, error) {
			return service.doSearch(ctx, query, maxResults)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return result.([]SearchResult), nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second

	results, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(3))

	if err != nil {
		service.logger.LogService("tavily", "search", time.Since(startTime), map[string]interface{}{
			"query": query,
		}, err)
		return nil, models.WrapExternalError("TAVILY", err)
	}

	service.searchesMade.Add(1)
	service.resultsRetrieved.Add(int64(len(results)))

	service.logger.LogService("tavily", "search", time.Since(startTime), map[string]interface{}{
		"query":         query,
		"results_count": len(results),
	}, nil)

	return results, nil
}

func (service *TavilyService) doSearch(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	payload, err := json.Marshal(tavilySearchRequest{
		APIKey:      service.config.APIKey,
		Query:       query,
		SearchDepth: service.config.SearchDepth,
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, service.config.BaseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := service.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed tavilySearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return parsed.Results, nil
}

func (service *TavilyService) UsageStats() map[string]interface{} {
	return map[string]interface{}{
		"searches_made":     service.searchesMade.Load(),
		"results_retrieved": service.resultsRetrieved.Load(),
		"breaker_state":     service.breaker.State().String(),
	}
}

func (service *TavilyService) HealthCheck(ctx context.Context) error {
	state := service.breaker.State()
	if state == gobreaker.StateOpen {
		return fmt.Errorf("tavily circuit breaker open")
	}
	return nil
}

func (service *TavilyService) Close() error {
	service.httpClient.CloseIdleConnections()
	service.logger.Info("Tavily service closed")
	return nil
}
