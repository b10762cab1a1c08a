package agents

import (
	"context"
	"errors"
	"testing"
)

func TestValidatePlanFillsDefaults(t *testing.T) {
	agent := NewPlannerAgent(&mockCompleter{}, testLogger(t))

	plan := agent.validatePlan(map[string]any{})

	if plan["workflow_type"] != "SEQUENTIAL" {
		t.Errorf("Expected default workflow_type SEQUENTIAL, got %v", plan["workflow_type"])
	}

	agents := getSlice(plan, "agents_required")
	if len(agents) != 6 {
		t.Errorf("Expected 6 default agents, got %d", len(agents))
	}

	if plan["estimated_duration_minutes"] != 15 {
		t.Errorf("Expected default duration 15, got %v", plan["estimated_duration_minutes"])
	}
}

func TestValidatePlanAppendsMandatoryAgents(t *testing.T) {
	agent := NewPlannerAgent(&mockCompleter{}, testLogger(t))

	plan := agent.validatePlan(map[string]any{
		"agents_required": []any{"requirements", "architecture"},
	})

	agents := getSlice(plan, "agents_required")
	if !containsString(agents, "why_reasoning") {
		t.Error("Expected why_reasoning appended to agents_required")
	}
	if !containsString(agents, "business_impact") {
		t.Error("Expected business_impact appended to agents_required")
	}
	if len(agents) != 4 {
		t.Errorf("Expected 4 agents after append, got %d", len(agents))
	}
}

func TestValidatePlanCoercesUnknownWorkflowType(t *testing.T) {
	agent := NewPlannerAgent(&mockCompleter{}, testLogger(t))

	plan := agent.validatePlan(map[string]any{"workflow_type": "RECURSIVE"})

	if plan["workflow_type"] != "SEQUENTIAL" {
		t.Errorf("Expected unknown workflow_type coerced to SEQUENTIAL, got %v", plan["workflow_type"])
	}
}

func TestPlanFromTextKeywordScan(t *testing.T) {
	agent := NewPlannerAgent(&mockCompleter{}, testLogger(t))

	plan := agent.planFromText("Run a parallel workflow covering requirements analysis and research into ROI.")

	if plan["workflow_type"] != "PARALLEL" {
		t.Errorf("Expected PARALLEL workflow_type, got %v", plan["workflow_type"])
	}

	agents := getSlice(plan, "agents_required")
	if !containsString(agents, "requirements") {
		t.Error("Expected requirements agent detected from text")
	}
	if !containsString(agents, "research") {
		t.Error("Expected research agent detected from text")
	}
	if !containsString(agents, "business_impact") {
		t.Error("Expected business_impact agent detected from roi keyword")
	}
	if containsString(agents, "documentation") {
		t.Error("Did not expect documentation agent without matching keyword")
	}
}

func TestPlanFromTextEmptyDefaults(t *testing.T) {
	agent := NewPlannerAgent(&mockCompleter{}, testLogger(t))

	plan := agent.planFromText("nothing useful here")

	if plan["workflow_type"] != "SEQUENTIAL" {
		t.Errorf("Expected SEQUENTIAL workflow_type, got %v", plan["workflow_type"])
	}

	agents := getSlice(plan, "agents_required")
	if len(agents) != 4 {
		t.Errorf("Expected 4 default agents, got %d", len(agents))
	}
}

func TestPlannerExecuteFallsBackOnModelError(t *testing.T) {
	model := &mockCompleter{err: errors.New("model unavailable")}
	agent := NewPlannerAgent(model, testLogger(t))
	state := testState()

	plan, err := agent.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Expected fallback plan instead of error, got: %v", err)
	}

	if plan["workflow_type"] != "SEQUENTIAL" {
		t.Errorf("Expected SEQUENTIAL fallback workflow_type, got %v", plan["workflow_type"])
	}
	if plan["justification"] != "Fallback plan due to orchestration error" {
		t.Errorf("Unexpected fallback justification: %v", plan["justification"])
	}
	if state.ProcessingStats.APICallsCount != 0 {
		t.Errorf("Expected no API calls recorded on failure, got %d", state.ProcessingStats.APICallsCount)
	}
}

func TestPlannerExecuteParsesModelResponse(t *testing.T) {
	model := &mockCompleter{response: "```json\n{\"workflow_type\": \"SEQUENTIAL\", \"agents_required\": [\"requirements\", \"research\"], \"complexity_score\": 4}\n```"}
	agent := NewPlannerAgent(model, testLogger(t))
	state := testState()

	plan, err := agent.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if plan["complexity_score"] != float64(4) {
		t.Errorf("Expected complexity_score 4, got %v", plan["complexity_score"])
	}

	agents := getSlice(plan, "agents_required")
	if !containsString(agents, "why_reasoning") {
		t.Error("Expected why_reasoning appended during validation")
	}

	if state.ProcessingStats.APICallsCount != 1 {
		t.Errorf("Expected 1 API call recorded, got %d", state.ProcessingStats.APICallsCount)
	}
}
