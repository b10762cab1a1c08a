package workflow

import (
	"strings"
	"testing"

	"architect-ai-pipeline/internal/models"
)

func compiledState() *models.WorkflowState {
	state := models.NewWorkflowState(&models.ProcessConversationRequest{
		ConversationID: "conv-compile",
		UserMessage:    "Design a scalable e-commerce platform",
		UserProfile: models.UserProfile{
			ExpertiseLevel: models.ExpertiseIntermediate,
		},
	}, "req-compile")

	state.RequirementsAnalysis = map[string]any{
		"clarification_questions": []any{"What is your expected peak traffic?"},
		"confidence_score":        0.8,
	}
	state.ArchitectureDesign = map[string]any{
		"architecture_overview": map[string]any{
			"pattern":     "microservices",
			"description": "Service-oriented design with independent deployments",
		},
		"components": []any{
			map[string]any{"name": "API Gateway", "description": "Routes client traffic"},
			map[string]any{"name": "Order Service", "description": "Handles order lifecycle"},
		},
		"implementation_phases": []any{
			map[string]any{"phase": 1, "name": "Foundation", "duration": "4 weeks"},
			map[string]any{"phase": 2, "name": "Core Services", "duration": "8 weeks"},
			map[string]any{"phase": 3, "name": "Hardening", "duration": "4 weeks"},
		},
		"confidence_score": 0.9,
	}
	state.WhyReasoning = map[string]any{
		"architectural_decisions": []any{
			map[string]any{"decision": "Use microservices", "rationale": "Independent scaling per domain"},
		},
	}
	state.BusinessImpact = map[string]any{
		"executive_summary": map[string]any{
			"overall_impact": "positive",
			"recommendation": "proceed",
			"key_benefits":   []any{"Faster releases", "Better scalability", "Lower downtime", "Team autonomy"},
		},
		"timeline_impact": map[string]any{
			"business_value_realization": []any{
				map[string]any{"milestone": "MVP launch", "timeline": "3 months"},
			},
		},
	}
	state.EducationalContent = map[string]any{
		"key_concepts": []any{
			map[string]any{"concept": "Service Mesh", "definition": "Infrastructure layer for service communication"},
		},
		"assessment_questions": []any{
			map[string]any{"question": "How would you handle a service outage?"},
			map[string]any{"question": "When is a monolith preferable?"},
			map[string]any{"question": "What is eventual consistency?"},
		},
	}
	state.CompletedSteps = models.SequentialSteps()
	state.CurrentStep = models.StepCompleted
	return state
}

func TestCompileResult(t *testing.T) {
	state := compiledState()

	result := compileResult(state)

	if !result.Success {
		t.Error("Expected successful result")
	}
	if result.WorkflowType != "SEQUENTIAL" {
		t.Errorf("Expected SEQUENTIAL workflow type, got %s", result.WorkflowType)
	}
	if result.ConversationID != "conv-compile" {
		t.Errorf("Unexpected conversation id: %s", result.ConversationID)
	}
	if len(result.CompletedSteps) != len(models.SequentialSteps()) {
		t.Errorf("Expected all steps completed, got %d", len(result.CompletedSteps))
	}
	if result.Metadata["workflow_completed"] != true {
		t.Error("Expected workflow_completed metadata")
	}
}

func TestFinalContentSections(t *testing.T) {
	content := finalContent(compiledState())

	for _, want := range []string{
		"I've completed a comprehensive analysis of your request: Design a scalable e-commerce platform",
		"## Executive Summary",
		"**Overall Impact**: Positive",
		"**Recommendation**: Proceed",
		"• Faster releases",
		"**Pattern**: Microservices",
		"• **API Gateway**: Routes client traffic",
		"**Use microservices**",
		"*Rationale*: Independent scaling per domain",
		"**Service Mesh**: Infrastructure layer for service communication",
		"## Next Steps",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected final content to contain %q", want)
		}
	}

	if !strings.HasSuffix(content, "Would you like me to elaborate on any specific aspect of the analysis?") {
		t.Error("Expected closing question at end of final content")
	}

	if strings.Contains(content, "• Team autonomy") {
		t.Error("Expected key benefits capped at 3")
	}
}

func TestNextQuestionsCombinesAndCaps(t *testing.T) {
	questions := nextQuestions(compiledState())

	if len(questions) != 3 {
		t.Fatalf("Expected 3 questions, got %d", len(questions))
	}
	if questions[0] != "What is your expected peak traffic?" {
		t.Errorf("Expected clarification question first, got %q", questions[0])
	}
	if questions[2] != "When is a monolith preferable?" {
		t.Errorf("Expected assessment questions capped at 2, got %q", questions[2])
	}
}

func TestNextQuestionsStaticFallback(t *testing.T) {
	state := models.NewWorkflowState(&models.ProcessConversationRequest{
		ConversationID: "conv-empty",
		UserMessage:    "Design something",
		UserProfile: models.UserProfile{
			ExpertiseLevel: models.ExpertiseBeginner,
		},
	}, "req-empty")

	questions := nextQuestions(state)

	if len(questions) != 4 {
		t.Fatalf("Expected 4 fallback questions, got %d", len(questions))
	}
	if !strings.Contains(questions[0], "architectural decisions") {
		t.Errorf("Unexpected first fallback question: %q", questions[0])
	}
}

func TestSuggestedActions(t *testing.T) {
	actions := suggestedActions(compiledState())

	if len(actions) != 3 {
		t.Fatalf("Expected 3 actions, got %d", len(actions))
	}
	if actions[0] != "Achieve MVP launch within 3 months" {
		t.Errorf("Unexpected milestone action: %q", actions[0])
	}
	if actions[1] != "Phase 1: Foundation (4 weeks)" {
		t.Errorf("Unexpected phase action: %q", actions[1])
	}
	if actions[2] != "Phase 2: Core Services (8 weeks)" {
		t.Errorf("Expected phases capped at 2, got %q", actions[2])
	}
}

func TestSuggestedActionsStaticFallback(t *testing.T) {
	state := models.NewWorkflowState(&models.ProcessConversationRequest{
		ConversationID: "conv-empty",
		UserMessage:    "Design something",
		UserProfile: models.UserProfile{
			ExpertiseLevel: models.ExpertiseBeginner,
		},
	}, "req-empty")

	actions := suggestedActions(state)

	if len(actions) != 4 {
		t.Fatalf("Expected 4 fallback actions, got %d", len(actions))
	}
	if actions[0] != "Review and approve the architecture design document" {
		t.Errorf("Unexpected first fallback action: %q", actions[0])
	}
}

func TestOverallConfidence(t *testing.T) {
	outputs := map[string]map[string]any{
		"requirements": {"confidence_score": 0.8},
		"architecture": {"confidence_score": 0.9},
		"research":     {},
	}

	if got := overallConfidence(outputs); got < 0.849 || got > 0.851 {
		t.Errorf("Expected mean confidence 0.85, got %f", got)
	}

	if got := overallConfidence(map[string]map[string]any{}); got != 0.85 {
		t.Errorf("Expected default confidence 0.85, got %f", got)
	}
}

func TestCalculateStepProgress(t *testing.T) {
	total := float64(len(models.SequentialSteps()))

	if got := calculateStepProgress(models.StepOrchestrator, models.AgentStatusProcessing); got != 0.5/total {
		t.Errorf("Unexpected processing progress for first step: %f", got)
	}
	if got := calculateStepProgress(models.StepOrchestrator, models.AgentStatusCompleted); got != 1.0/total {
		t.Errorf("Unexpected completed progress for first step: %f", got)
	}
	if got := calculateStepProgress(models.StepDocumentation, models.AgentStatusCompleted); got != 1.0 {
		t.Errorf("Expected full progress after final step, got %f", got)
	}
	if got := calculateStepProgress("unknown", models.AgentStatusCompleted); got != 0.0 {
		t.Errorf("Expected zero progress for unknown step, got %f", got)
	}
}

func TestTitleWords(t *testing.T) {
	cases := map[string]string{
		"proceed":           "Proceed",
		"strongly positive": "Strongly Positive",
		"":                  "",
	}

	for input, want := range cases {
		if got := titleWords(input); got != want {
			t.Errorf("titleWords(%q) = %q, want %q", input, got, want)
		}
	}
}
