package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Orchestrator is the workflow surface the HTTP layer depends on.
type Orchestrator interface {
	ExecuteWorkflow(ctx context.Context, req *models.ProcessConversationRequest) (*models.WorkflowResult, error)
	GetWorkflowStatus(workflowID string) (*models.WorkflowState, error)
	CancelWorkflow(workflowID string) error
	GetActiveWorkflowsCount() int
	HealthCheck(ctx context.Context) error
	AgentNames() []string
	GetStats() map[string]interface{}
}

type WorkflowHandler struct {
	orchestrator Orchestrator
	logger       *logger.Logger
}

func NewWorkflowHandler(orchestrator Orchestrator, log *logger.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		orchestrator: orchestrator,
		logger:       log,
	}
}

func (handler *WorkflowHandler) ProcessConversation(c *gin.Context) {
	startTime := time.Now()

	var req models.ProcessConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ProcessConversationResponse{
			Success: false,
			Error: map[string]any{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	handler.logger.WithFields(logger.Fields{
		"conversation_id":      req.ConversationID,
		"user_expertise":       req.UserProfile.ExpertiseLevel,
		"history_length":       len(req.ConversationHistory),
		"has_business_context": req.BusinessContext != nil,
	}).Info("Conversation processing request received")

	result, err := handler.orchestrator.ExecuteWorkflow(c.Request.Context(), &req)
	if err != nil {
		handler.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": req.ConversationID,
			"elapsed":         time.Since(startTime).String(),
		}).Error("Conversation processing failed")

		c.JSON(statusForError(err), models.ProcessConversationResponse{
			Success: false,
			Error: map[string]any{
				"code":            errorCode(err),
				"message":         err.Error(),
				"conversation_id": req.ConversationID,
			},
		})
		return
	}

	handler.logger.WithFields(logger.Fields{
		"conversation_id":  req.ConversationID,
		"completed_steps":  len(result.CompletedSteps),
		"confidence_score": result.ConfidenceScore,
		"elapsed":          time.Since(startTime).String(),
	}).Info("Conversation processing completed")

	c.JSON(http.StatusOK, models.ProcessConversationResponse{
		Success: true,
		Data:    result,
		Metadata: map[string]any{
			"workflow_type":              result.WorkflowType,
			"agents_used":                result.CompletedSteps,
			"total_request_time_seconds": time.Since(startTime).Seconds(),
			"timestamp":                  time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (handler *WorkflowHandler) GetWorkflowStatus(c *gin.Context) {
	workflowID := c.Param("id")

	state, err := handler.orchestrator.GetWorkflowStatus(workflowID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error": gin.H{
				"code":        errorCode(err),
				"message":     err.Error(),
				"workflow_id": workflowID,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"workflow_id":     state.ID,
			"conversation_id": state.ConversationID,
			"status":          state.Status,
			"current_step":    state.CurrentStep,
			"completed_steps": state.CompletedSteps,
			"duration":        state.GetDuration().String(),
			"start_time":      state.StartTime,
		},
	})
}

func (handler *WorkflowHandler) CancelWorkflow(c *gin.Context) {
	workflowID := c.Param("id")

	if err := handler.orchestrator.CancelWorkflow(workflowID); err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error": gin.H{
				"code":        errorCode(err),
				"message":     err.Error(),
				"workflow_id": workflowID,
			},
		})
		return
	}

	handler.logger.Info("Workflow cancelled", "workflow_id", workflowID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "workflow cancelled",
	})
}

func (handler *WorkflowHandler) GetActiveWorkflows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"active_workflows": handler.orchestrator.GetActiveWorkflowsCount(),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case models.ErrorTypeValidation:
		return http.StatusBadRequest
	case models.ErrorTypeNotFound:
		return http.StatusNotFound
	case models.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case models.ErrorTypeCancelled:
		return http.StatusConflict
	case models.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "PROCESSING_FAILED"
}
