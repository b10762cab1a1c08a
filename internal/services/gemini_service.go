package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type GeminiService struct {
	client  *genai.Client
	config  config.GeminiConfig
	logger  *logger.Logger
	limiter *rate.Limiter

	requestsMade atomic.Int64
	tokensUsed   atomic.Int64
}

type GenerationRequest struct {
	Prompt          string
	SystemRole      string
	MaxTokens       int32
	Temperature     *float32
	DisableThinking bool
	ResponseFormat  string
}

type GenerationResponse struct {
	Content        string
	TokensUsed     int
	FinishReason   string
	ProcessingTime time.Duration
}

func NewGeminiService(cfg config.GeminiConfig, log *logger.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key required")
	}

	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	service := &GeminiService{
		client: client,
		config: cfg,
		logger: log,
		// requests spread over a minute, short bursts allowed
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute/6+1),
	}

	log.Info("Gemini service initialized",
		"model", cfg.Model,
		"max_tokens", cfg.MaxTokens,
		"temperature", cfg.Temperature,
		"requests_per_minute", perMinute,
	)

	return service, nil
}

func (service *GeminiService) GenerateContent(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()

	if err := service.limiter.Wait(ctx); err != nil {
		return nil, models.NewTimeoutError("GEMINI_RATE_WAIT", "rate limiter wait cancelled").WithCause(err)
	}

	var response *GenerationResponse
	var err error

	for attempt := 1; attempt <= service.config.MaxRetries; attempt++ {
		response, err = service.makeGenerationRequest(ctx, request)
		if err == nil {
			break
		}

		if attempt < service.config.MaxRetries {
			service.logger.WithFields(logger.Fields{
				"attempt":     attempt,
				"max_retries": service.config.MaxRetries,
				"error":       err,
			}).Warn("Generate content failed, retrying")

			select {
			case <-time.After(service.config.RetryDelay * time.Duration(attempt)):

			case <-ctx.Done():
				return nil, models.NewTimeoutError("GEMINI_TIMEOUT", "content generation timed out").WithCause(ctx.Err())
			}
		}
	}

	if err != nil {
		service.logger.LogService("gemini", "generate_content", time.Since(startTime), map[string]interface{}{
			"prompt_length": len(request.Prompt),
			"attempts":      service.config.MaxRetries,
		}, err)
		return nil, models.WrapExternalError("GEMINI", err)
	}

	duration := time.Since(startTime)
	response.ProcessingTime = duration

	service.requestsMade.Add(1)
	service.tokensUsed.Add(int64(response.TokensUsed))

	service.logger.LogService("gemini", "generate_content", duration, map[string]interface{}{
		"prompt_length":   len(request.Prompt),
		"response_length": len(response.Content),
		"tokens_used":     response.TokensUsed,
		"finish_reason":   response.FinishReason,
	}, nil)

	return response, nil
}

func (service *GeminiService) makeGenerationRequest(ctx context.Context, req *GenerationRequest) (*GenerationResponse, error) {
	genCtx, cancel := context.WithTimeout(ctx, service.config.Timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}

	if req.SystemRole != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemRole, genai.RoleUser)
	}

	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
	} else {
		temp := float32(service.config.Temperature)
		cfg.Temperature = &temp
	}

	if req.MaxTokens != 0 {
		cfg.MaxOutputTokens = req.MaxTokens
	} else {
		cfg.MaxOutputTokens = int32(service.config.MaxTokens)
	}

	if req.ResponseFormat != "" {
		cfg.ResponseMIMEType = req.ResponseFormat
	}

	var budget int32 = 0
	if req.DisableThinking {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: &budget,
		}
	}

	result, err := service.client.Models.GenerateContent(genCtx, service.config.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no response candidates generated")
	}

	candidate := result.Candidates[0]

	text := ""
	if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
		for _, part := range candidate.Content.Parts {
			text += part.Text
		}
	}

	// rough estimate, the API does not always return usage
	tokensUsed := len(req.Prompt)/4 + len(text)/4

	return &GenerationResponse{
		Content:      text,
		TokensUsed:   tokensUsed,
		FinishReason: string(candidate.FinishReason),
	}, nil
}

func (service *GeminiService) UsageStats() map[string]interface{} {
	return map[string]interface{}{
		"requests_made":    service.requestsMade.Load(),
		"tokens_used":      service.tokensUsed.Load(),
		"tokens_available": service.limiter.Tokens(),
	}
}

func (service *GeminiService) HealthCheck(ctx context.Context) error {
	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var temperature float32 = 0

	req := &GenerationRequest{
		Prompt:      "Respond with 'OK' if you can process this request",
		Temperature: &temperature,
		MaxTokens:   10,
	}

	resp, err := service.GenerateContent(testCtx, req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if resp.Content == "" {
		return fmt.Errorf("empty response received")
	}

	return nil
}

func (service *GeminiService) Close() error {
	// request/response client, nothing to tear down
	service.logger.Info("Gemini client closed")
	return nil
}
