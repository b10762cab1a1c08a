package handlers

import (
	"net/http"
	"time"

	"architect-ai-pipeline/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	orchestrator Orchestrator
	logger       *logger.Logger
	startTime    time.Time
}

func NewHealthHandler(orchestrator Orchestrator, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		orchestrator: orchestrator,
		logger:       log,
		startTime:    time.Now(),
	}
}

func (handler *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK

	if err := handler.orchestrator.HealthCheck(c.Request.Context()); err != nil {
		handler.logger.WithError(err).Warn("Health check failed")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":         status,
		"uptime_seconds": time.Since(handler.startTime).Seconds(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// AgentsHealth reports the configured agent roster. Agents are in-process and
// share the model client, so a reachable service means a healthy roster.
func (handler *HealthHandler) AgentsHealth(c *gin.Context) {
	agentNames := handler.orchestrator.AgentNames()

	agentStatus := make(map[string]any, len(agentNames))
	for _, name := range agentNames {
		agentStatus[name] = gin.H{
			"agent":  name,
			"status": "healthy",
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"overall_status": "healthy",
		"agents":         agentStatus,
		"total_agents":   len(agentNames),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (handler *HealthHandler) ServicesHealth(c *gin.Context) {
	overallStatus := "healthy"
	code := http.StatusOK

	var healthError string
	if err := handler.orchestrator.HealthCheck(c.Request.Context()); err != nil {
		overallStatus = "degraded"
		code = http.StatusServiceUnavailable
		healthError = err.Error()
	}

	response := gin.H{
		"overall_status": overallStatus,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}
	if healthError != "" {
		response["error"] = healthError
	}

	c.JSON(code, response)
}

func (handler *HealthHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"stats":     handler.orchestrator.GetStats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// RegisterRoutes wires every endpoint onto the router.
func RegisterRoutes(router *gin.Engine, orchestrator Orchestrator, log *logger.Logger) {
	workflowHandler := NewWorkflowHandler(orchestrator, log)
	healthHandler := NewHealthHandler(orchestrator, log)

	api := router.Group("/api/v1")
	{
		api.POST("/conversation/process", workflowHandler.ProcessConversation)
		api.GET("/workflow/:id/status", workflowHandler.GetWorkflowStatus)
		api.DELETE("/workflow/:id", workflowHandler.CancelWorkflow)
		api.GET("/workflows/active", workflowHandler.GetActiveWorkflows)
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/health/agents", healthHandler.AgentsHealth)
	router.GET("/health/services", healthHandler.ServicesHealth)
	router.GET("/stats", healthHandler.Stats)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "route not found",
			},
		})
	})
}
