package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	streams *redis.Client
	memory  *redis.Client
	logger  *logger.Logger
	config  config.RedisConfig
}

func NewRedisService(cfg config.RedisConfig, log *logger.Logger) (*RedisService, error) {
	streamsOpt, err := redis.ParseURL(cfg.StreamsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis streams URL: %w", err)
	}

	memoryOpt, err := redis.ParseURL(cfg.MemoryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis memory URL: %w", err)
	}

	configureRedisOptions(streamsOpt, cfg)
	configureRedisOptions(memoryOpt, cfg)

	service := &RedisService{
		streams: redis.NewClient(streamsOpt),
		memory:  redis.NewClient(memoryOpt),
		logger:  log,
		config:  cfg,
	}

	if err := service.testConnection(); err != nil {
		return nil, fmt.Errorf("connection to Redis failed: %w", err)
	}

	log.Info("Redis service initialized",
		"streams_url", cfg.StreamsURL,
		"memory_url", cfg.MemoryURL,
		"pool_size", cfg.PoolSize)

	return service, nil
}

func configureRedisOptions(opt *redis.Options, cfg config.RedisConfig) {
	opt.PoolSize = cfg.PoolSize
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	opt.DialTimeout = cfg.DialTimeout
}

func (service *RedisService) testConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := service.streams.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("streams ping failed: %w", err)
	}

	if err := service.memory.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("memory ping failed: %w", err)
	}

	return nil
}

// PublishAgentUpdate pushes a progress event onto the conversation's stream.
func (service *RedisService) PublishAgentUpdate(ctx context.Context, conversationID string, update *models.AgentUpdate) error {
	streamName := fmt.Sprintf("conversation:%s:agent_updates", conversationID)

	updateData := map[string]interface{}{
		"type":        "agent_update",
		"workflow_id": update.WorkflowID,
		"request_id":  update.RequestID,
		"agent_name":  update.AgentName,
		"status":      string(update.Status),
		"message":     update.Message,
		"progress":    fmt.Sprintf("%.2f", update.Progress),
		"timestamp":   update.Timestamp.Format(time.RFC3339),
		"retryable":   update.Retryable,
	}

	if update.ProcessingTime > 0 {
		updateData["processing_time"] = update.ProcessingTime.Milliseconds()
	}

	if update.Data != nil {
		dataJSON, err := json.Marshal(update.Data)
		if err == nil {
			updateData["data"] = string(dataJSON)
		} else {
			service.logger.WithError(err).Warn("Failed to marshal agent update data")
		}
	}

	if update.Error != "" {
		updateData["error"] = update.Error
	}

	result, err := service.streams.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: updateData,
		MaxLen: 1024,
	}).Result()

	if err != nil {
		service.logger.LogService("redis", "publish_agent_update", 0, map[string]interface{}{
			"stream_name": streamName,
			"agent_name":  update.AgentName,
			"workflow_id": update.WorkflowID,
		}, err)
		return models.NewExternalError("REDIS_PUBLISH_FAILED", "failed to publish agent update").WithCause(err)
	}

	service.logger.WithFields(logger.Fields{
		"stream_name": streamName,
		"message_id":  result,
		"agent_name":  update.AgentName,
		"status":      update.Status,
		"workflow_id": update.WorkflowID,
	}).Debug("Published agent update")

	return nil
}

func (service *RedisService) StoreWorkflowState(ctx context.Context, state *models.WorkflowState) error {
	key := fmt.Sprintf("workflow:%s:state", state.ID)
	startTime := time.Now()

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return models.NewInternalError("SERIALIZATION_FAILED", "failed to serialize workflow state").WithCause(err)
	}

	if err := service.memory.Set(ctx, key, stateJSON, service.config.StateTTL).Err(); err != nil {
		service.logger.LogService("redis", "store_workflow_state", time.Since(startTime), map[string]interface{}{
			"workflow_id": state.ID,
			"key":         key,
		}, err)
		return models.NewExternalError("REDIS_STORE_FAILED", "failed to store workflow state").WithCause(err)
	}

	service.logger.LogService("redis", "store_workflow_state", time.Since(startTime), map[string]interface{}{
		"workflow_id": state.ID,
	}, nil)

	return nil
}

func (service *RedisService) GetWorkflowState(ctx context.Context, workflowID string) (*models.WorkflowState, error) {
	key := fmt.Sprintf("workflow:%s:state", workflowID)
	startTime := time.Now()

	stateJSON, err := service.memory.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, models.ErrWorkflowNotFound.WithMetadata("workflow_id", workflowID)
		}
		service.logger.LogService("redis", "get_workflow_state", time.Since(startTime), map[string]interface{}{
			"workflow_id": workflowID,
			"key":         key,
		}, err)
		return nil, models.NewExternalError("REDIS_GET_FAILED", "failed to get workflow state").WithCause(err)
	}

	var state models.WorkflowState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, models.NewInternalError("DESERIALIZATION_FAILED", "failed to deserialize workflow state").WithCause(err)
	}

	service.logger.LogService("redis", "get_workflow_state", time.Since(startTime), map[string]interface{}{
		"workflow_id": workflowID,
	}, nil)

	return &state, nil
}

// StoreWorkflowResult keeps the compiled consultation so follow-up turns can
// pick up prior architecture decisions.
func (service *RedisService) StoreWorkflowResult(ctx context.Context, conversationID string, result *models.WorkflowResult) error {
	key := fmt.Sprintf("conversation:%s:last_result", conversationID)
	startTime := time.Now()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return models.NewInternalError("SERIALIZATION_FAILED", "failed to serialize workflow result").WithCause(err)
	}

	if err := service.memory.Set(ctx, key, resultJSON, service.config.StateTTL).Err(); err != nil {
		service.logger.LogService("redis", "store_workflow_result", time.Since(startTime), map[string]interface{}{
			"conversation_id": conversationID,
		}, err)
		return models.NewExternalError("REDIS_STORE_FAILED", "failed to store workflow result").WithCause(err)
	}

	service.logger.LogService("redis", "store_workflow_result", time.Since(startTime), map[string]interface{}{
		"conversation_id": conversationID,
	}, nil)

	return nil
}

func (service *RedisService) GetWorkflowResult(ctx context.Context, conversationID string) (*models.WorkflowResult, error) {
	key := fmt.Sprintf("conversation:%s:last_result", conversationID)

	resultJSON, err := service.memory.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, models.ErrWorkflowNotFound.WithMetadata("conversation_id", conversationID)
		}
		return nil, models.NewExternalError("REDIS_GET_FAILED", "failed to get workflow result").WithCause(err)
	}

	var result models.WorkflowResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, models.NewInternalError("DESERIALIZATION_FAILED", "failed to deserialize workflow result").WithCause(err)
	}

	return &result, nil
}

func (service *RedisService) HealthCheck(ctx context.Context) error {
	if err := service.memory.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("memory connection unhealthy: %w", err)
	}

	if err := service.streams.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("streams connection unhealthy: %w", err)
	}

	return nil
}

func (service *RedisService) Close() error {
	service.logger.Info("Closing Redis service")

	var errs []error
	if err := service.streams.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close streams failed: %w", err))
	}

	if err := service.memory.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close memory failed: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("error closing Redis connections: %v", errs)
	}

	return nil
}
