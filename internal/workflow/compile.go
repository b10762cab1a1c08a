package workflow

import (
	"fmt"
	"strings"
	"unicode"

	"architect-ai-pipeline/internal/models"
)

const maxNextQuestions = 4
const maxSuggestedActions = 4

// compileResult assembles the consultation response once every step has run.
func compileResult(state *models.WorkflowState) *models.WorkflowResult {
	agentOutputs := state.AgentOutputs()

	return &models.WorkflowResult{
		Success:          true,
		WorkflowType:     "SEQUENTIAL",
		ConversationID:   state.ConversationID,
		FinalContent:     finalContent(state),
		NextQuestions:    nextQuestions(state),
		SuggestedActions: suggestedActions(state),
		CompletedSteps:   state.CompletedSteps,
		ConfidenceScore:  overallConfidence(agentOutputs),
		AgentOutputs:     agentOutputs,
		Metadata: map[string]any{
			"workflow_completed": true,
			"total_steps":        len(state.CompletedSteps),
			"final_step":         state.CurrentStep,
			"agents_executed":    len(models.SequentialSteps()),
			"processing_summary": processingSummary(state),
		},
	}
}

func finalContent(state *models.WorkflowState) string {
	contentParts := []string{
		fmt.Sprintf("I've completed a comprehensive analysis of your request: %s", state.UserQuery),
		"",
		"## Executive Summary",
	}

	if execSummary := mapValue(state.BusinessImpact, "executive_summary"); len(execSummary) > 0 {
		contentParts = append(contentParts,
			fmt.Sprintf("**Overall Impact**: %s", titleWords(stringOr(execSummary, "overall_impact", "Positive"))),
			fmt.Sprintf("**Recommendation**: %s", titleWords(stringOr(execSummary, "recommendation", "Proceed"))),
			"",
		)

		if benefits := stringsFromSlice(sliceValue(execSummary, "key_benefits")); len(benefits) > 0 {
			contentParts = append(contentParts, "**Key Benefits:**")
			if len(benefits) > 3 {
				benefits = benefits[:3]
			}
			for _, benefit := range benefits {
				contentParts = append(contentParts, fmt.Sprintf("• %s", benefit))
			}
			contentParts = append(contentParts, "")
		}
	}

	if overview := mapValue(state.ArchitectureDesign, "architecture_overview"); len(overview) > 0 {
		contentParts = append(contentParts,
			"## Architecture Overview",
			fmt.Sprintf("**Pattern**: %s", titleWords(stringOr(overview, "pattern", "Not specified"))),
			fmt.Sprintf("**Description**: %s", stringOr(overview, "description", "Architecture design completed")),
			"",
		)
	}

	if components := sliceValue(state.ArchitectureDesign, "components"); len(components) > 0 {
		contentParts = append(contentParts, "**Key Components:**")
		if len(components) > 4 {
			components = components[:4]
		}
		for _, entry := range components {
			if component, ok := entry.(map[string]any); ok {
				contentParts = append(contentParts, fmt.Sprintf("• **%s**: %s",
					stringOr(component, "name", ""), stringOr(component, "description", "")))
			}
		}
		contentParts = append(contentParts, "")
	}

	if decisions := sliceValue(state.WhyReasoning, "architectural_decisions"); len(decisions) > 0 {
		contentParts = append(contentParts, "## Key Architectural Decisions", "")
		if len(decisions) > 2 {
			decisions = decisions[:2]
		}
		for _, entry := range decisions {
			if decision, ok := entry.(map[string]any); ok {
				contentParts = append(contentParts,
					fmt.Sprintf("**%s**", stringOr(decision, "decision", "")),
					fmt.Sprintf("*Rationale*: %s", stringOr(decision, "rationale", "")),
					"",
				)
			}
		}
	}

	if concepts := sliceValue(state.EducationalContent, "key_concepts"); len(concepts) > 0 {
		contentParts = append(contentParts,
			"## Learning Opportunities",
			"Based on your expertise level, here are key concepts to explore:",
			"",
		)
		if len(concepts) > 2 {
			concepts = concepts[:2]
		}
		for _, entry := range concepts {
			if concept, ok := entry.(map[string]any); ok {
				contentParts = append(contentParts,
					fmt.Sprintf("**%s**: %s", stringOr(concept, "concept", ""), stringOr(concept, "definition", "")),
					"",
				)
			}
		}
	}

	contentParts = append(contentParts,
		"## Next Steps",
		"I've prepared a complete architecture design with detailed documentation, business impact analysis, and educational resources.",
		"",
		"**Immediate Actions:**",
		"1. Review the detailed architecture design and documentation",
		"2. Examine the business impact analysis and ROI projections",
		"3. Explore the educational content to deepen your understanding",
		"4. Consider the implementation roadmap and timeline",
		"",
		"Would you like me to elaborate on any specific aspect of the analysis?",
	)

	return strings.Join(contentParts, "\n")
}

func nextQuestions(state *models.WorkflowState) []string {
	var questions []string

	questions = append(questions, stringsFromSlice(sliceValue(state.RequirementsAnalysis, "clarification_questions"))...)

	if assessment := sliceValue(state.EducationalContent, "assessment_questions"); len(assessment) > 0 {
		if len(assessment) > 2 {
			assessment = assessment[:2]
		}
		for _, entry := range assessment {
			if question, ok := entry.(map[string]any); ok {
				if text := stringOr(question, "question", ""); text != "" {
					questions = append(questions, text)
				}
			}
		}
	}

	if len(questions) == 0 {
		questions = []string{
			"Would you like me to explain any specific architectural decisions in more detail?",
			"Are there particular aspects of the implementation you'd like to focus on?",
			"Do you have questions about the business impact or ROI analysis?",
			"Would you like to explore the educational content for any specific technologies?",
		}
	}

	if len(questions) > maxNextQuestions {
		questions = questions[:maxNextQuestions]
	}

	return questions
}

func suggestedActions(state *models.WorkflowState) []string {
	var actions []string

	if timeline := mapValue(state.BusinessImpact, "timeline_impact"); len(timeline) > 0 {
		milestones := sliceValue(timeline, "business_value_realization")
		if len(milestones) > 2 {
			milestones = milestones[:2]
		}
		for _, entry := range milestones {
			if milestone, ok := entry.(map[string]any); ok {
				actions = append(actions, fmt.Sprintf("Achieve %s within %s",
					stringOr(milestone, "milestone", ""), stringOr(milestone, "timeline", "")))
			}
		}
	}

	if phases := sliceValue(state.ArchitectureDesign, "implementation_phases"); len(phases) > 0 {
		if len(phases) > 2 {
			phases = phases[:2]
		}
		for _, entry := range phases {
			if phase, ok := entry.(map[string]any); ok {
				actions = append(actions, fmt.Sprintf("Phase %v: %s (%s)",
					phase["phase"], stringOr(phase, "name", ""), stringOr(phase, "duration", "")))
			}
		}
	}

	if len(actions) == 0 {
		actions = []string{
			"Review and approve the architecture design document",
			"Begin implementation planning and team preparation",
			"Set up development environment and initial infrastructure",
			"Start with the first implementation phase",
		}
	}

	if len(actions) > maxSuggestedActions {
		actions = actions[:maxSuggestedActions]
	}

	return actions
}

func overallConfidence(agentOutputs map[string]map[string]any) float64 {
	var scores []float64

	for _, output := range agentOutputs {
		if value, exists := output["confidence_score"]; exists {
			if score, ok := floatValue(value); ok {
				scores = append(scores, score)
			}
		}
	}

	if len(scores) == 0 {
		return 0.85
	}

	total := 0.0
	for _, score := range scores {
		total += score
	}
	return total / float64(len(scores))
}

func processingSummary(state *models.WorkflowState) map[string]any {
	return map[string]any{
		"agents_completed":        state.CompletedSteps,
		"total_agents":            len(models.SequentialSteps()),
		"workflow_status":         "completed",
		"has_architecture_design": len(state.ArchitectureDesign) > 0,
		"has_business_impact":     len(state.BusinessImpact) > 0,
		"has_educational_content": len(state.EducationalContent) > 0,
		"has_documentation":       len(state.Documentation) > 0,
		"api_calls_count":         state.ProcessingStats.APICallsCount,
		"searches_count":          state.ProcessingStats.SearchesCount,
		"comprehensive_analysis":  true,
	}
}

func mapValue(m map[string]any, key string) map[string]any {
	if value, ok := m[key].(map[string]any); ok {
		return value
	}
	return nil
}

func sliceValue(m map[string]any, key string) []any {
	if value, ok := m[key].([]any); ok {
		return value
	}
	return nil
}

func stringOr(m map[string]any, key, fallback string) string {
	if value, ok := m[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func stringsFromSlice(values []any) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if text, ok := value.(string); ok {
			result = append(result, text)
		}
	}
	return result
}

func floatValue(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	}
	return 0, false
}

// titleWords capitalizes the first letter of each space-separated word.
func titleWords(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
