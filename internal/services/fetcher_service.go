package services

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// FetcherService pulls readable article text for research sources so
// findings carry content snippets instead of bare URLs.
type FetcherService struct {
	collector *colly.Collector
	config    config.FetcherConfig
	logger    *logger.Logger
}

type PageContent struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func NewFetcherService(cfg config.FetcherConfig, log *logger.Logger) (*FetcherService, error) {
	collector := colly.NewCollector(
		colly.UserAgent("ArchitectAI-Research/1.0"),
		colly.MaxDepth(1),
	)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.MaxConcurrency,
		Delay:       500 * time.Millisecond,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure collector limits: %w", err)
	}

	collector.SetRequestTimeout(cfg.RequestTimeout)

	log.Info("Fetcher service initialized",
		"max_concurrency", cfg.MaxConcurrency,
		"request_timeout", cfg.RequestTimeout)

	return &FetcherService{
		collector: collector,
		config:    cfg,
		logger:    log,
	}, nil
}

func (service *FetcherService) FetchPage(ctx context.Context, target string) (*PageContent, error) {
	startTime := time.Now()

	content := &PageContent{
		URL:       target,
		FetchedAt: time.Now(),
	}

	if target == "" {
		content.Error = "target URL cannot be empty"
		return content, fmt.Errorf("target URL cannot be empty")
	}

	if _, err := url.ParseRequestURI(target); err != nil {
		content.Error = fmt.Sprintf("invalid URL: %v", err)
		return content, fmt.Errorf("invalid URL %q: %w", target, err)
	}

	collector := service.collector.Clone()

	var fetchErr error

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		content.Title = strings.TrimSpace(e.DOM.Find("title").First().Text())
		content.Text = extractReadableText(e.DOM)
		content.Success = content.Text != ""
	})

	collector.OnError(func(resp *colly.Response, err error) {
		fetchErr = err
		content.Error = err.Error()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := collector.Visit(target); err != nil {
			fetchErr = err
			content.Error = err.Error()
		}
		collector.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		content.Error = ctx.Err().Error()
		return content, ctx.Err()
	}

	if fetchErr != nil {
		service.logger.LogService("fetcher", "fetch_page", time.Since(startTime), map[string]interface{}{
			"url": target,
		}, fetchErr)
		return content, fetchErr
	}

	service.logger.LogService("fetcher", "fetch_page", time.Since(startTime), map[string]interface{}{
		"url":         target,
		"text_length": len(content.Text),
	}, nil)

	return content, nil
}

// FetchPages fetches several URLs concurrently, best effort. Failed pages
// come back with Success=false rather than failing the batch.
func (service *FetcherService) FetchPages(ctx context.Context, targets []string) []*PageContent {
	results := make([]*PageContent, len(targets))

	var wg sync.WaitGroup
	sem := make(chan struct{}, service.config.MaxConcurrency)

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			page, err := service.FetchPage(ctx, pageURL)
			if err != nil {
				service.logger.WithError(err).Warn("Page fetch failed", "url", pageURL)
			}
			results[idx] = page
		}(i, target)
	}

	wg.Wait()
	return results
}

func extractReadableText(doc *goquery.Selection) string {
	doc.Find("script, style, nav, footer, header, aside, noscript").Remove()

	selectors := []string{"article", "main", "[role=main]", ".post-content", ".article-body", "body"}
	for _, selector := range selectors {
		section := doc.Find(selector).First()
		if section.Length() == 0 {
			continue
		}

		text := strings.TrimSpace(whitespaceRe.ReplaceAllString(section.Text(), " "))
		if len(text) < 200 {
			continue
		}

		if len(text) > 4000 {
			text = text[:4000]
		}
		return text
	}

	return ""
}

func (service *FetcherService) HealthCheck(ctx context.Context) error {
	return nil
}

func (service *FetcherService) Close() error {
	service.collector.Wait()
	service.logger.Info("Fetcher service closed")
	return nil
}
