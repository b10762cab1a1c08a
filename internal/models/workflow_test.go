package models_test

import (
	"testing"

	"architect-ai-pipeline/internal/models"
)

func testRequest() *models.ProcessConversationRequest {
	return &models.ProcessConversationRequest{
		ConversationID: "conv-123",
		UserMessage:    "Design a scalable e-commerce platform",
		UserProfile: models.UserProfile{
			ExpertiseLevel: models.ExpertiseIntermediate,
			BusinessRole:   "CTO",
		},
	}
}

func TestNewWorkflowState(t *testing.T) {
	req := testRequest()
	state := models.NewWorkflowState(req, "req-1")

	if state.ConversationID != req.ConversationID {
		t.Errorf("Expected ConversationID %s, got %s", req.ConversationID, state.ConversationID)
	}

	if state.UserQuery != req.UserMessage {
		t.Errorf("Expected UserQuery %s, got %s", req.UserMessage, state.UserQuery)
	}

	if state.Status != models.WorkflowStatusPending {
		t.Errorf("Expected status %s, got %s", models.WorkflowStatusPending, state.Status)
	}

	if state.CurrentStep != models.StepOrchestrator {
		t.Errorf("Expected current step %s, got %s", models.StepOrchestrator, state.CurrentStep)
	}

	if len(state.CompletedSteps) != 0 {
		t.Errorf("Expected no completed steps, got %d", len(state.CompletedSteps))
	}

	if state.ID == "" {
		t.Error("Workflow ID should be generated")
	}
}

func TestWorkflowStateValidate(t *testing.T) {
	state := models.NewWorkflowState(testRequest(), "req-1")
	if err := state.Validate(); err != nil {
		t.Errorf("Expected valid state, got error: %v", err)
	}

	missingConversation := models.NewWorkflowState(testRequest(), "req-1")
	missingConversation.ConversationID = ""
	if err := missingConversation.Validate(); err == nil {
		t.Error("Expected error for missing conversation_id")
	}

	missingQuery := models.NewWorkflowState(testRequest(), "req-1")
	missingQuery.UserQuery = ""
	if err := missingQuery.Validate(); err == nil {
		t.Error("Expected error for missing user_query")
	}

	badExpertise := models.NewWorkflowState(testRequest(), "req-1")
	badExpertise.UserProfile.ExpertiseLevel = "WIZARD"
	if err := badExpertise.Validate(); err == nil {
		t.Error("Expected error for invalid expertise level")
	}
}

func TestExpertiseLevelIsValid(t *testing.T) {
	valid := []models.ExpertiseLevel{
		models.ExpertiseBeginner,
		models.ExpertiseIntermediate,
		models.ExpertiseAdvanced,
		models.ExpertiseExpert,
	}

	for _, level := range valid {
		if !level.IsValid() {
			t.Errorf("Expected %s to be valid", level)
		}
	}

	if models.ExpertiseLevel("beginner").IsValid() {
		t.Error("Lowercase expertise level should be invalid")
	}
}

func TestCompleteStep(t *testing.T) {
	state := models.NewWorkflowState(testRequest(), "req-1")

	state.CompleteStep(models.StepOrchestrator, models.StepRequirements)

	if len(state.CompletedSteps) != 1 || state.CompletedSteps[0] != models.StepOrchestrator {
		t.Errorf("Expected completed steps [orchestrator], got %v", state.CompletedSteps)
	}

	if state.CurrentStep != models.StepRequirements {
		t.Errorf("Expected current step %s, got %s", models.StepRequirements, state.CurrentStep)
	}
}

func TestSequentialSteps(t *testing.T) {
	steps := models.SequentialSteps()

	if len(steps) != 8 {
		t.Fatalf("Expected 8 steps, got %d", len(steps))
	}

	if steps[0] != models.StepOrchestrator {
		t.Errorf("Expected first step %s, got %s", models.StepOrchestrator, steps[0])
	}

	if steps[len(steps)-1] != models.StepDocumentation {
		t.Errorf("Expected last step %s, got %s", models.StepDocumentation, steps[len(steps)-1])
	}
}

func TestMarkCompleted(t *testing.T) {
	state := models.NewWorkflowState(testRequest(), "req-1")
	state.MarkProcessing()

	if state.Status != models.WorkflowStatusProcessing {
		t.Errorf("Expected status %s, got %s", models.WorkflowStatusProcessing, state.Status)
	}

	state.MarkCompleted()

	if state.Status != models.WorkflowStatusCompleted {
		t.Errorf("Expected status %s, got %s", models.WorkflowStatusCompleted, state.Status)
	}

	if state.EndTime == nil {
		t.Error("EndTime should be set after marking completed")
	}

	if !state.IsCompleted() {
		t.Error("IsCompleted should report true")
	}
}

func TestMarkFailed(t *testing.T) {
	state := models.NewWorkflowState(testRequest(), "req-1")
	state.MarkFailed()

	if state.Status != models.WorkflowStatusFailed {
		t.Errorf("Expected status %s, got %s", models.WorkflowStatusFailed, state.Status)
	}

	if state.EndTime == nil {
		t.Error("EndTime should be set after marking failed")
	}

	if !state.IsFailed() {
		t.Error("IsFailed should report true")
	}
}

func TestUpdateAgentStats(t *testing.T) {
	state := models.NewWorkflowState(testRequest(), "req-1")

	state.UpdateAgentStats("research", models.AgentStats{
		Name:   "research",
		Status: string(models.AgentStatusCompleted),
	})

	stats, exists := state.ProcessingStats.AgentStats["research"]
	if !exists {
		t.Fatal("Expected research agent stats to be recorded")
	}

	if stats.Status != string(models.AgentStatusCompleted) {
		t.Errorf("Expected status completed, got %s", stats.Status)
	}
}

func TestAgentOutputs(t *testing.T) {
	state := models.NewWorkflowState(testRequest(), "req-1")
	state.ArchitectureDesign = map[string]any{"components": []any{}}

	outputs := state.AgentOutputs()

	if len(outputs) != 8 {
		t.Errorf("Expected 8 output slots, got %d", len(outputs))
	}

	if outputs["architecture_design"] == nil {
		t.Error("Expected architecture_design slot to carry the assigned output")
	}
}

func TestGenerateRequestID(t *testing.T) {
	id1 := models.GenerateRequestID()
	id2 := models.GenerateRequestID()

	if id1 == id2 {
		t.Error("Generated request IDs should be unique")
	}

	if len(id1) == 0 {
		t.Error("Generated request ID should not be empty")
	}
}
