package agents

import (
	"context"
	"fmt"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// RequirementsAgent extracts functional, non-functional, and business
// requirements from the user query.
type RequirementsAgent struct {
	baseAgent
}

func NewRequirementsAgent(model Completer, log *logger.Logger) *RequirementsAgent {
	return &RequirementsAgent{baseAgent: newBaseAgent(models.StepRequirements, model, log)}
}

const requirementsSystemPrompt = `You are the Requirements Analysis Agent for the Agentic Architect platform. Your role is to thoroughly analyze user requirements and translate them into comprehensive architectural specifications with integrated business context.

CORE RESPONSIBILITIES:
1. Extract and clarify functional requirements
2. Identify non-functional requirements (performance, security, scalability)
3. Analyze business requirements and constraints
4. Identify missing or ambiguous requirements
5. Assess technical and business risks
6. Provide requirement prioritization based on business value

ANALYSIS FRAMEWORK:
1. FUNCTIONAL REQUIREMENTS:
   - Core features and capabilities
   - User interactions and workflows
   - Data processing requirements
   - Integration requirements

2. NON-FUNCTIONAL REQUIREMENTS:
   - Performance and scalability targets
   - Security and compliance needs
   - Availability and reliability requirements
   - Maintainability and operability needs

3. BUSINESS REQUIREMENTS:
   - Business objectives and success metrics
   - Budget and timeline constraints
   - Compliance and regulatory requirements
   - Market and competitive considerations

4. CONSTRAINTS AND ASSUMPTIONS:
   - Technology constraints
   - Resource limitations
   - External dependencies
   - Risk factors

Return structured JSON with comprehensive requirements analysis and business alignment.`

func (agent *RequirementsAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Analyzing requirements")

	response, err := agent.queryModel(ctx, agent.buildPrompt(state), state, requirementsSystemPrompt)
	if err != nil {
		agent.logger.WithError(err).Error("Requirements analysis failed")
		return agent.fallbackAnalysis(), nil
	}

	analysis := agent.parseAnalysis(response)

	agent.logger.WithFields(logger.Fields{
		"functional_requirements":     len(getSlice(analysis, "functional_requirements")),
		"non_functional_requirements": len(getSlice(analysis, "non_functional_requirements")),
	}).Info("Requirements analysis completed")

	return analysis, nil
}

func (agent *RequirementsAgent) buildPrompt(state *models.WorkflowState) string {
	businessContext := "Not provided"
	if state.BusinessContext != nil {
		businessContext = fmt.Sprintf("%+v", *state.BusinessContext)
	}

	businessRole := state.UserProfile.BusinessRole
	if businessRole == "" {
		businessRole = "Not specified"
	}

	return fmt.Sprintf(`REQUIREMENTS ANALYSIS REQUEST:
User Query: "%s"
Business Context: %s
User Expertise: %s
Business Role: %s

COMPREHENSIVE REQUIREMENTS ANALYSIS:

1. FUNCTIONAL REQUIREMENTS EXTRACTION:
   - What are the core features and capabilities needed?
   - What user interactions and workflows are required?
   - What data processing and storage requirements exist?
   - What integration points are needed?
   - What business processes must be supported?

2. NON-FUNCTIONAL REQUIREMENTS ANALYSIS:
   - Performance requirements (throughput, latency, concurrency)
   - Scalability requirements (user growth, data growth, transaction volume)
   - Security requirements (authentication, authorization, data protection)
   - Availability and reliability requirements (uptime, disaster recovery)
   - Compliance requirements (regulatory, industry standards)

3. BUSINESS REQUIREMENTS ASSESSMENT:
   - What business objectives does this system support?
   - What are the success metrics and KPIs?
   - What are the budget and timeline constraints?
   - What market or competitive factors influence requirements?
   - What ROI expectations exist?

4. CONSTRAINT AND RISK ANALYSIS:
   - What technology constraints exist?
   - What resource limitations must be considered?
   - What external dependencies exist?
   - What technical and business risks are present?

5. REQUIREMENT PRIORITIZATION:
   - Which requirements are must-have vs nice-to-have?
   - What is the business value of each requirement?
   - What are the implementation complexity and costs?
   - What is the recommended implementation sequence?

6. CLARIFICATION QUESTIONS:
   - What additional information is needed?
   - What assumptions need validation?
   - What potential conflicts or gaps exist?

Return detailed JSON with structured requirements analysis including business impact assessment.`,
		state.UserQuery, businessContext, state.UserProfile.ExpertiseLevel, businessRole)
}

func (agent *RequirementsAgent) parseAnalysis(response string) map[string]any {
	analysis, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse requirements response")
		return agent.analysisFromText(response)
	}
	return agent.validateAnalysis(analysis)
}

func (agent *RequirementsAgent) validateAnalysis(analysis map[string]any) map[string]any {
	setDefault(analysis, "functional_requirements", []any{})
	setDefault(analysis, "non_functional_requirements", []any{})
	setDefault(analysis, "business_requirements", []any{})
	setDefault(analysis, "constraints", []any{})
	setDefault(analysis, "risks", []any{})
	setDefault(analysis, "clarification_questions", []any{})
	setDefault(analysis, "priority_matrix", map[string]any{})

	if _, ok := analysis["functional_requirements"].([]any); !ok {
		analysis["functional_requirements"] = []any{}
	}
	if _, ok := analysis["non_functional_requirements"].([]any); !ok {
		analysis["non_functional_requirements"] = []any{}
	}

	return analysis
}

// analysisFromText recovers bullet lists from a non-JSON response by tracking
// section headings.
func (agent *RequirementsAgent) analysisFromText(response string) map[string]any {
	functional := []any{}
	nonFunctional := []any{}
	business := []any{}
	questions := []any{}

	currentSection := ""
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "functional") && strings.Contains(lower, "requirement") && !strings.Contains(lower, "non-functional"):
			currentSection = "functional"
		case strings.Contains(lower, "non-functional") || strings.Contains(lower, "performance"):
			currentSection = "non_functional"
		case strings.Contains(lower, "business") && strings.Contains(lower, "requirement"):
			currentSection = "business"
		case strings.Contains(lower, "question") || strings.Contains(lower, "clarification"):
			currentSection = "questions"
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			requirement := strings.TrimSpace(line[2:])
			switch currentSection {
			case "functional":
				functional = append(functional, requirement)
			case "non_functional":
				nonFunctional = append(nonFunctional, requirement)
			case "business":
				business = append(business, requirement)
			case "questions":
				questions = append(questions, requirement)
			}
		}
	}

	return map[string]any{
		"functional_requirements":     functional,
		"non_functional_requirements": nonFunctional,
		"business_requirements":       business,
		"constraints":                 []any{},
		"risks":                       []any{},
		"clarification_questions":     questions,
		"priority_matrix":             map[string]any{},
	}
}

func (agent *RequirementsAgent) fallbackAnalysis() map[string]any {
	return map[string]any{
		"functional_requirements": []any{
			"Core system functionality as described in user query",
			"User interface for interaction",
			"Data persistence capabilities",
		},
		"non_functional_requirements": []any{
			"System performance and responsiveness",
			"Security and data protection",
			"Scalability for future growth",
		},
		"business_requirements": []any{
			"Alignment with business objectives",
			"Cost-effective implementation",
			"Timely delivery",
		},
		"constraints": []any{
			"Budget limitations",
			"Timeline constraints",
			"Technology stack preferences",
		},
		"risks": []any{
			"Technical implementation complexity",
			"Integration challenges",
			"Performance bottlenecks",
		},
		"clarification_questions": []any{
			"What is the expected user load?",
			"What are the performance requirements?",
			"What integrations are needed?",
		},
		"priority_matrix": map[string]any{
			"high":   []any{"Core functionality", "Security"},
			"medium": []any{"Performance optimization", "Integrations"},
			"low":    []any{"Advanced features", "UI enhancements"},
		},
	}
}
