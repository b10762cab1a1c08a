package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/handlers"
	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MockOrchestrator struct {
	result      *models.WorkflowResult
	executeErr  error
	state       *models.WorkflowState
	statusErr   error
	cancelErr   error
	activeCount int
	healthErr   error
}

func (m *MockOrchestrator) ExecuteWorkflow(ctx context.Context, req *models.ProcessConversationRequest) (*models.WorkflowResult, error) {
	if m.executeErr != nil {
		return nil, m.executeErr
	}
	return m.result, nil
}

func (m *MockOrchestrator) GetWorkflowStatus(workflowID string) (*models.WorkflowState, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.state, nil
}

func (m *MockOrchestrator) CancelWorkflow(workflowID string) error {
	return m.cancelErr
}

func (m *MockOrchestrator) GetActiveWorkflowsCount() int {
	return m.activeCount
}

func (m *MockOrchestrator) HealthCheck(ctx context.Context) error {
	return m.healthErr
}

func (m *MockOrchestrator) AgentNames() []string {
	return models.SequentialSteps()
}

func (m *MockOrchestrator) GetStats() map[string]interface{} {
	return map[string]interface{}{"active_workflows": m.activeCount}
}

func testRouter(t *testing.T, orchestrator handlers.Orchestrator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New(config.LogConfig{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}

	router := gin.New()
	handlers.RegisterRoutes(router, orchestrator, log)
	return router
}

func TestProcessConversation(t *testing.T) {
	orchestrator := &MockOrchestrator{
		result: &models.WorkflowResult{
			Success:        true,
			WorkflowType:   "SEQUENTIAL",
			ConversationID: "conv-123",
			FinalContent:   "Analysis complete",
			CompletedSteps: models.SequentialSteps(),
		},
	}
	router := testRouter(t, orchestrator)

	body, _ := json.Marshal(models.ProcessConversationRequest{
		ConversationID: "conv-123",
		UserMessage:    "Design a scalable e-commerce platform",
		UserProfile: models.UserProfile{
			ExpertiseLevel: models.ExpertiseIntermediate,
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversation/process", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response models.ProcessConversationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !response.Success {
		t.Error("Expected success response")
	}
	if response.Data == nil || response.Data.ConversationID != "conv-123" {
		t.Errorf("Unexpected response data: %+v", response.Data)
	}
	if response.Metadata["workflow_type"] != "SEQUENTIAL" {
		t.Errorf("Expected workflow_type metadata, got %v", response.Metadata)
	}
}

func TestProcessConversationInvalidBody(t *testing.T) {
	router := testRouter(t, &MockOrchestrator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversation/process", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var response models.ProcessConversationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Error["code"] != "INVALID_REQUEST" {
		t.Errorf("Expected INVALID_REQUEST code, got %v", response.Error["code"])
	}
}

func TestProcessConversationErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", models.NewValidationError("CONVERSATION_ID_REQUIRED", "conversation_id is required"), http.StatusBadRequest, "CONVERSATION_ID_REQUIRED"},
		{"timeout", models.NewTimeoutError("STEP_TIMEOUT", "step timed out"), http.StatusGatewayTimeout, "STEP_TIMEOUT"},
		{"external", models.NewExternalError("TOO_MANY_WORKFLOWS", "workflow limit reached"), http.StatusBadGateway, "TOO_MANY_WORKFLOWS"},
		{"internal", models.NewInternalError("STATE_CORRUPT", "state corrupt"), http.StatusInternalServerError, "STATE_CORRUPT"},
		{"cancelled", models.ErrWorkflowCancelled, http.StatusConflict, "WORKFLOW_CANCELLED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(t, &MockOrchestrator{executeErr: tc.err})

			body, _ := json.Marshal(models.ProcessConversationRequest{
				ConversationID: "conv-123",
				UserMessage:    "Design a platform",
				UserProfile: models.UserProfile{
					ExpertiseLevel: models.ExpertiseIntermediate,
				},
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/conversation/process", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}

			var response models.ProcessConversationResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if response.Error["code"] != tc.wantCode {
				t.Errorf("Expected code %s, got %v", tc.wantCode, response.Error["code"])
			}
		})
	}
}

func TestGetWorkflowStatus(t *testing.T) {
	state := models.NewWorkflowState(&models.ProcessConversationRequest{
		ConversationID: "conv-123",
		UserMessage:    "Design a platform",
		UserProfile: models.UserProfile{
			ExpertiseLevel: models.ExpertiseIntermediate,
		},
	}, "req-1")
	state.CurrentStep = models.StepResearch
	router := testRouter(t, &MockOrchestrator{state: state})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflow/"+state.ID+"/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response["data"].(map[string]any)
	if data["current_step"] != models.StepResearch {
		t.Errorf("Expected current_step research, got %v", data["current_step"])
	}
}

func TestGetWorkflowStatusNotFound(t *testing.T) {
	router := testRouter(t, &MockOrchestrator{statusErr: models.ErrWorkflowNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflow/missing/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
}

func TestCancelWorkflow(t *testing.T) {
	router := testRouter(t, &MockOrchestrator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workflow/wf-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
}

func TestGetActiveWorkflows(t *testing.T) {
	router := testRouter(t, &MockOrchestrator{activeCount: 3})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/active", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["active_workflows"] != float64(3) {
		t.Errorf("Expected 3 active workflows, got %v", response["active_workflows"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t, &MockOrchestrator{})

	for _, path := range []string{"/health", "/health/agents", "/health/services", "/stats"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for %s, got %d", path, w.Code)
		}
	}
}

func TestHealthDegraded(t *testing.T) {
	router := testRouter(t, &MockOrchestrator{healthErr: models.NewExternalError("REDIS_UNAVAILABLE", "redis unavailable")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}
}

func TestNoRoute(t *testing.T) {
	router := testRouter(t, &MockOrchestrator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	errorBody := response["error"].(map[string]any)
	if errorBody["code"] != "NOT_FOUND" {
		t.Errorf("Expected NOT_FOUND code, got %v", errorBody["code"])
	}
}
