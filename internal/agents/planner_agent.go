package agents

import (
	"context"
	"fmt"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// PlannerAgent analyzes the query and produces the orchestration plan that
// the rest of the workflow consults.
type PlannerAgent struct {
	baseAgent
}

func NewPlannerAgent(model Completer, log *logger.Logger) *PlannerAgent {
	return &PlannerAgent{baseAgent: newBaseAgent(models.StepOrchestrator, model, log)}
}

const plannerSystemPrompt = `You are the Orchestrator Agent for the Agentic Architect platform. Your role is to analyze user queries and create optimal execution plans that coordinate specialized agents to deliver comprehensive architectural guidance with integrated business intelligence.

CORE RESPONSIBILITIES:
1. Analyze query complexity (technical and business)
2. Determine optimal workflow type (sequential/parallel/conditional/iterative)
3. Select required specialized agents
4. Plan integration of why reasoning and business intelligence
5. Estimate processing time and resource requirements

AVAILABLE SPECIALIZED AGENTS:
- Requirements Agent: Analyzes and clarifies architectural requirements
- Research Agent: Gathers current market and technical intelligence
- Architecture Agent: Designs technical solutions and patterns
- Why Reasoning Agent: Provides comprehensive decision explanations
- Business Impact Agent: Analyzes ROI, risks, and business implications
- Educational Agent: Creates adaptive learning content
- Documentation Agent: Generates professional documentation

WORKFLOW TYPES:
1. SEQUENTIAL: Step-by-step for thorough analysis (most common)
2. PARALLEL: Simultaneous processing for urgent decisions
3. CONDITIONAL: Branching logic based on complexity assessment
4. ITERATIVE: Repeated refinement for learning-focused sessions

ORCHESTRATION PRINCIPLES:
- Always include Why Reasoning and Business Impact agents
- Adapt agent selection to user expertise level
- Consider business context in all decisions
- Optimize for both technical accuracy and business value
- Ensure educational value in every interaction

Return your analysis as valid JSON with detailed orchestration plan.`

func (agent *PlannerAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Creating orchestration plan")

	response, err := agent.queryModel(ctx, agent.buildPrompt(state), state, plannerSystemPrompt)
	if err != nil {
		agent.logger.WithError(err).Error("Orchestration planning failed")
		return agent.fallbackPlan(), nil
	}

	plan := agent.parsePlan(response)

	agent.logger.WithFields(logger.Fields{
		"workflow_type":   plan["workflow_type"],
		"agents_required": len(getSlice(plan, "agents_required")),
	}).Info("Orchestration plan created")

	return plan, nil
}

func (agent *PlannerAgent) buildPrompt(state *models.WorkflowState) string {
	businessRole := state.UserProfile.BusinessRole
	if businessRole == "" {
		businessRole = "Not specified"
	}

	businessContext := "Not provided"
	if state.BusinessContext != nil {
		businessContext = fmt.Sprintf("%+v", *state.BusinessContext)
	}

	return fmt.Sprintf(`QUERY ANALYSIS REQUEST:
User Query: "%s"
User Expertise: %s
Business Role: %s
Business Context: %s

ORCHESTRATION ANALYSIS REQUIRED:

1. QUERY COMPLEXITY ANALYSIS:
   - Technical complexity level (1-5)
   - Business complexity level (1-5)
   - Required depth of why reasoning
   - Required depth of business analysis
   - Urgency assessment

2. WORKFLOW SELECTION:
   - Choose optimal workflow type (sequential/parallel/conditional/iterative)
   - Justify workflow choice based on complexity analysis
   - Estimate total processing time
   - Identify critical path dependencies

3. AGENT COORDINATION PLAN:
   - Which agents are required for this query?
   - What is the optimal agent execution order?
   - How should agents share context and build on each other?
   - How to integrate why reasoning and business intelligence?

4. USER EXPERIENCE OPTIMIZATION:
   - How to adapt technical explanations to user expertise level?
   - How to adapt business explanations to user role/context?
   - What educational opportunities exist in this query?
   - How to structure response for maximum learning value?

5. SUCCESS CRITERIA:
   - What constitutes a successful response for this query?
   - How to measure user satisfaction and learning?
   - What follow-up questions should be anticipated?
   - How to ensure both technical and business value delivery?

Return detailed orchestration plan as JSON with specific agent instructions and integration requirements.`,
		state.UserQuery, state.UserProfile.ExpertiseLevel, businessRole, businessContext)
}

func (agent *PlannerAgent) parsePlan(response string) map[string]any {
	plan, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse orchestration response")
		return agent.planFromText(response)
	}
	return agent.validatePlan(plan)
}

var validWorkflowTypes = map[string]bool{
	"SEQUENTIAL":  true,
	"PARALLEL":    true,
	"CONDITIONAL": true,
	"ITERATIVE":   true,
}

func (agent *PlannerAgent) validatePlan(plan map[string]any) map[string]any {
	setDefault(plan, "workflow_type", "SEQUENTIAL")
	setDefault(plan, "agents_required", []any{"requirements", "research", "architecture", "why_reasoning", "business_impact", "educational"})
	setDefault(plan, "estimated_duration_minutes", 15)
	setDefault(plan, "complexity_score", 3)

	agents := getSlice(plan, "agents_required")
	if !containsString(agents, "why_reasoning") {
		agents = append(agents, "why_reasoning")
	}
	if !containsString(agents, "business_impact") {
		agents = append(agents, "business_impact")
	}
	plan["agents_required"] = agents

	if !validWorkflowTypes[getString(plan, "workflow_type")] {
		plan["workflow_type"] = "SEQUENTIAL"
	}

	return plan
}

// planFromText salvages a plan from a non-JSON model response by keyword
// scanning.
func (agent *PlannerAgent) planFromText(response string) map[string]any {
	lower := strings.ToLower(response)

	workflowType := "SEQUENTIAL"
	switch {
	case strings.Contains(lower, "parallel"):
		workflowType = "PARALLEL"
	case strings.Contains(lower, "conditional"):
		workflowType = "CONDITIONAL"
	case strings.Contains(lower, "iterative"):
		workflowType = "ITERATIVE"
	}

	agentKeywords := []struct {
		name     string
		keywords []string
	}{
		{"requirements", []string{"requirements", "requirement"}},
		{"research", []string{"research", "search"}},
		{"architecture", []string{"architecture", "design"}},
		{"why_reasoning", []string{"why", "reasoning", "decision"}},
		{"business_impact", []string{"business", "roi", "impact"}},
		{"educational", []string{"educational", "learning", "teaching"}},
		{"documentation", []string{"documentation", "document"}},
	}

	var agentsRequired []any
	for _, entry := range agentKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				agentsRequired = append(agentsRequired, entry.name)
				break
			}
		}
	}

	if len(agentsRequired) == 0 {
		agentsRequired = []any{"requirements", "architecture", "why_reasoning", "business_impact"}
	}

	return map[string]any{
		"workflow_type":              workflowType,
		"agents_required":            agentsRequired,
		"estimated_duration_minutes": 15,
		"complexity_score":           3,
		"justification":              "Extracted from text analysis",
	}
}

func (agent *PlannerAgent) fallbackPlan() map[string]any {
	return map[string]any{
		"workflow_type":              "SEQUENTIAL",
		"agents_required":            []any{"requirements", "research", "architecture", "why_reasoning", "business_impact", "educational"},
		"estimated_duration_minutes": 20,
		"complexity_score":           3,
		"justification":              "Fallback plan due to orchestration error",
		"integration_requirements": map[string]any{
			"why_reasoning":          "mandatory",
			"business_impact":        "mandatory",
			"educational_adaptation": true,
		},
	}
}

func containsString(values []any, target string) bool {
	for _, v := range values {
		if s, ok := v.(string); ok && s == target {
			return true
		}
	}
	return false
}
