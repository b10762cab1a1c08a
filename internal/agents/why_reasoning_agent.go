package agents

import (
	"context"
	"fmt"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// WhyReasoningAgent explains the rationale behind the architecture decisions
// made earlier in the workflow.
type WhyReasoningAgent struct {
	baseAgent
}

func NewWhyReasoningAgent(model Completer, log *logger.Logger) *WhyReasoningAgent {
	return &WhyReasoningAgent{baseAgent: newBaseAgent(models.StepWhyReasoning, model, log)}
}

const whyReasoningSystemPrompt = `You are the Why Reasoning Agent for the Agentic Architect platform. Your role is to provide clear, comprehensive explanations for all architectural decisions, helping users understand the rationale behind design choices.

REASONING OBJECTIVES:
1. Explain the "why" behind every architectural decision
2. Connect decisions to specific requirements and constraints
3. Highlight trade-offs and alternatives considered
4. Provide educational context for design patterns and technologies
5. Adapt explanations to user expertise level

REASONING METHODOLOGY:
- Analyze each architectural component and design decision
- Trace decisions back to specific requirements or constraints
- Explain trade-offs between different approaches
- Provide context on industry best practices
- Include potential risks and mitigation strategies
- Offer learning opportunities and deeper insights

OUTPUT FORMAT:
Return a JSON object with:
{
  "architectural_decisions": [
    {
      "decision": "specific_architectural_decision",
      "rationale": "detailed_explanation_of_why",
      "requirements_addressed": ["requirement_1", "requirement_2"],
      "trade_offs": {
        "pros": ["advantage_1", "advantage_2"],
        "cons": ["limitation_1", "limitation_2"]
      },
      "alternatives_considered": [
        {
          "alternative": "alternative_approach",
          "why_not_chosen": "reason_for_rejection"
        }
      ],
      "risk_factors": ["risk_1", "risk_2"],
      "implementation_complexity": "low|medium|high",
      "business_impact": "positive|neutral|negative"
    }
  ],
  "pattern_explanations": [
    {
      "pattern": "architecture_pattern_name",
      "why_chosen": "explanation_of_selection",
      "use_case_fit": "how_it_fits_this_scenario",
      "learning_context": "educational_background_info"
    }
  ],
  "technology_justifications": [
    {
      "technology": "technology_name",
      "category": "frontend|backend|database|infrastructure",
      "selection_criteria": ["criterion_1", "criterion_2"],
      "why_best_fit": "detailed_justification",
      "ecosystem_benefits": ["benefit_1", "benefit_2"],
      "potential_concerns": ["concern_1", "concern_2"]
    }
  ],
  "design_principles": [
    {
      "principle": "design_principle_name",
      "application": "how_applied_in_this_design",
      "importance": "why_this_principle_matters",
      "examples": ["example_1", "example_2"]
    }
  ],
  "scalability_reasoning": {
    "approach": "chosen_scalability_approach",
    "justification": "why_this_approach_is_optimal",
    "growth_scenarios": ["scenario_1", "scenario_2"],
    "bottleneck_analysis": ["potential_bottleneck_1", "potential_bottleneck_2"]
  },
  "security_reasoning": {
    "security_model": "chosen_security_approach",
    "threat_analysis": ["threat_1", "threat_2"],
    "mitigation_strategies": ["strategy_1", "strategy_2"],
    "compliance_considerations": ["consideration_1", "consideration_2"]
  },
  "educational_insights": [
    {
      "topic": "educational_topic",
      "explanation": "detailed_explanation",
      "why_important": "relevance_to_this_project",
      "further_reading": ["resource_1", "resource_2"]
    }
  ],
  "implementation_guidance": {
    "critical_path": ["step_1", "step_2", "step_3"],
    "success_factors": ["factor_1", "factor_2"],
    "common_pitfalls": ["pitfall_1", "pitfall_2"],
    "validation_checkpoints": ["checkpoint_1", "checkpoint_2"]
  },
  "confidence_score": 0.0-1.0
}

Provide explanations that are clear, educational, and help users understand both the technical and business reasoning behind architectural decisions.`

func (agent *WhyReasoningAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Generating why reasoning")

	response, err := agent.queryRaw(ctx, agent.buildPrompt(state), whyReasoningSystemPrompt, state)
	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
		}).Error("Why reasoning failed")
		return fallbackReasoning(), nil
	}

	reasoning := agent.parseReasoning(response)
	reasoning["decision_rationale"] = decisionRationale(state.RequirementsAnalysis, state.ResearchData, state.ArchitectureDesign)

	agent.logger.WithFields(logger.Fields{
		"conversation_id":     state.ConversationID,
		"decisions_explained": len(getSlice(reasoning, "architectural_decisions")),
	}).Info("Why reasoning completed")

	return reasoning, nil
}

func (agent *WhyReasoningAgent) buildPrompt(state *models.WorkflowState) string {
	expertiseLevel := string(state.UserProfile.ExpertiseLevel)
	if expertiseLevel == "" {
		expertiseLevel = "intermediate"
	}

	promptParts := []string{
		fmt.Sprintf("Provide comprehensive reasoning for the architectural decisions made for: %s", state.UserQuery),
		fmt.Sprintf("User expertise level: %s", expertiseLevel),
		"",
		"CONTEXT TO ANALYZE:",
	}

	if len(state.RequirementsAnalysis) > 0 {
		promptParts = append(promptParts, "REQUIREMENTS:")
		if functionalReqs := toStringSlice(getSlice(state.RequirementsAnalysis, "functional_requirements")); len(functionalReqs) > 0 {
			promptParts = append(promptParts, "Functional:")
			if len(functionalReqs) > 5 {
				functionalReqs = functionalReqs[:5]
			}
			for _, req := range functionalReqs {
				promptParts = append(promptParts, fmt.Sprintf("- %s", req))
			}
		}
		if nonFunctionalReqs := toStringSlice(getSlice(state.RequirementsAnalysis, "non_functional_requirements")); len(nonFunctionalReqs) > 0 {
			promptParts = append(promptParts, "Non-Functional:")
			if len(nonFunctionalReqs) > 5 {
				nonFunctionalReqs = nonFunctionalReqs[:5]
			}
			for _, req := range nonFunctionalReqs {
				promptParts = append(promptParts, fmt.Sprintf("- %s", req))
			}
		}
	}

	if len(state.ResearchData) > 0 {
		promptParts = append(promptParts, "\nRESEARCH FINDINGS:")
		if patterns := getSlice(state.ResearchData, "architecture_patterns"); len(patterns) > 0 {
			promptParts = append(promptParts, "Patterns Considered:")
			if len(patterns) > 3 {
				patterns = patterns[:3]
			}
			for _, entry := range patterns {
				if pattern, ok := entry.(map[string]any); ok {
					promptParts = append(promptParts, fmt.Sprintf("- %s: %s", getString(pattern, "name"), getString(pattern, "description")))
				}
			}
		}
	}

	if len(state.ArchitectureDesign) > 0 {
		promptParts = append(promptParts, "\nARCHITECTURE DECISIONS TO EXPLAIN:")

		if overview := getMap(state.ArchitectureDesign, "architecture_overview"); len(overview) > 0 {
			promptParts = append(promptParts,
				fmt.Sprintf("Pattern: %s", getStringDefault(overview, "pattern", "Not specified")),
				fmt.Sprintf("Description: %s", getStringDefault(overview, "description", "Not specified")),
			)
		}

		if components := getSlice(state.ArchitectureDesign, "components"); len(components) > 0 {
			promptParts = append(promptParts, "Components:")
			if len(components) > 5 {
				components = components[:5]
			}
			for _, entry := range components {
				if comp, ok := entry.(map[string]any); ok {
					promptParts = append(promptParts, fmt.Sprintf("- %s: %s", getString(comp, "name"), getString(comp, "technology")))
				}
			}
		}

		if techStack := getMap(state.ArchitectureDesign, "technology_stack"); len(techStack) > 0 {
			promptParts = append(promptParts, "Technology Stack:")
			for _, category := range sortedKeys(techStack) {
				promptParts = append(promptParts, fmt.Sprintf("- %s: %v", category, techStack[category]))
			}
		}
	}

	if bc := state.BusinessContext; bc != nil {
		promptParts = append(promptParts,
			"",
			"BUSINESS CONTEXT:",
			fmt.Sprintf("Industry: %s", orNotSpecified(bc.Industry)),
			fmt.Sprintf("Company Size: %s", orNotSpecified(bc.CompanySize)),
			fmt.Sprintf("Budget: %s", orNotSpecified(bc.BudgetRange)),
		)
	}

	promptParts = append(promptParts,
		"",
		"Please provide detailed reasoning that explains:",
		"1. Why each architectural decision was made",
		"2. How decisions address specific requirements",
		"3. What alternatives were considered and why they were rejected",
		"4. What trade-offs were made and their implications",
		"5. How the design aligns with best practices",
		"6. What risks exist and how they're mitigated",
		"",
		fmt.Sprintf("Adapt the explanation depth and technical detail to %s level.", expertiseLevel),
	)

	return strings.Join(promptParts, "\n")
}

func (agent *WhyReasoningAgent) parseReasoning(response string) map[string]any {
	reasoning, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse reasoning response")
		return fallbackReasoning()
	}

	setDefault(reasoning, "architectural_decisions", []any{})
	setDefault(reasoning, "pattern_explanations", []any{})
	setDefault(reasoning, "technology_justifications", []any{})
	setDefault(reasoning, "design_principles", []any{})
	setDefault(reasoning, "scalability_reasoning", map[string]any{})
	setDefault(reasoning, "security_reasoning", map[string]any{})
	setDefault(reasoning, "educational_insights", []any{})
	setDefault(reasoning, "implementation_guidance", map[string]any{})
	setDefault(reasoning, "confidence_score", 0.9)

	return reasoning
}

// decisionRationale derives traceability links between requirements,
// research findings, and the chosen design.
func decisionRationale(requirements, researchData, architectureDesign map[string]any) map[string]any {
	rationale := map[string]any{
		"requirements_traceability": []any{},
		"research_influence":        []any{},
		"design_coherence":          []any{},
	}

	functionalReqs := toStringSlice(getSlice(requirements, "functional_requirements"))
	if len(functionalReqs) > 3 {
		functionalReqs = functionalReqs[:3]
	}

	components := getSlice(architectureDesign, "components")
	addressedBy := []any{}
	limit := len(components)
	if limit > 2 {
		limit = 2
	}
	for _, entry := range components[:limit] {
		if comp, ok := entry.(map[string]any); ok {
			addressedBy = append(addressedBy, getString(comp, "name"))
		}
	}

	traceability := []any{}
	for _, req := range functionalReqs {
		traceability = append(traceability, map[string]any{
			"requirement":  req,
			"addressed_by": addressedBy,
			"how":          "Component provides necessary functionality",
		})
	}
	rationale["requirements_traceability"] = traceability

	chosenPattern := strings.ToLower(getString(getMap(architectureDesign, "architecture_overview"), "pattern"))
	patterns := getSlice(researchData, "architecture_patterns")
	if len(patterns) > 2 {
		patterns = patterns[:2]
	}

	influence := []any{}
	for _, entry := range patterns {
		pattern, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := getString(pattern, "name")
		if name == "" || chosenPattern == "" || !strings.Contains(chosenPattern, strings.ToLower(name)) {
			continue
		}

		benefit := "Better design"
		if pros := toStringSlice(getSlice(pattern, "pros")); len(pros) > 0 {
			benefit = pros[0]
		}
		influence = append(influence, map[string]any{
			"research_finding": name,
			"influence":        "Pattern selection based on research recommendation",
			"benefit":          benefit,
		})
	}
	rationale["research_influence"] = influence

	return rationale
}

func fallbackReasoning() map[string]any {
	return map[string]any{
		"architectural_decisions": []any{
			map[string]any{
				"decision":               "Layered architecture pattern selection",
				"rationale":              "Chosen for its simplicity and clear separation of concerns, making it easier to understand and maintain",
				"requirements_addressed": []any{"Maintainability", "Team productivity", "Clear structure"},
				"trade_offs": map[string]any{
					"pros": []any{"Simple to understand", "Clear separation", "Easy to test"},
					"cons": []any{"Potential performance overhead", "Tight coupling between layers"},
				},
				"alternatives_considered": []any{
					map[string]any{
						"alternative":    "Microservices architecture",
						"why_not_chosen": "Too complex for current team size and requirements",
					},
				},
				"risk_factors":              []any{"Performance bottlenecks", "Monolithic deployment"},
				"implementation_complexity": "low",
				"business_impact":           "positive",
			},
			map[string]any{
				"decision":               "React for frontend technology",
				"rationale":              "Selected for its large ecosystem, component reusability, and team familiarity",
				"requirements_addressed": []any{"User experience", "Development speed", "Maintainability"},
				"trade_offs": map[string]any{
					"pros": []any{"Large ecosystem", "Component reusability", "Strong community"},
					"cons": []any{"Learning curve", "Frequent updates", "Bundle size"},
				},
				"alternatives_considered": []any{
					map[string]any{
						"alternative":    "Vue.js",
						"why_not_chosen": "Team has more experience with React",
					},
				},
				"risk_factors":              []any{"Technology churn", "Dependency management"},
				"implementation_complexity": "medium",
				"business_impact":           "positive",
			},
		},
		"pattern_explanations": []any{
			map[string]any{
				"pattern":          "Layered Architecture",
				"why_chosen":       "Provides clear separation of concerns and is well-understood by development teams",
				"use_case_fit":     "Perfect for applications with well-defined business logic and data access patterns",
				"learning_context": "One of the most fundamental architectural patterns, forming the basis for many enterprise applications",
			},
		},
		"technology_justifications": []any{
			map[string]any{
				"technology":         "PostgreSQL",
				"category":           "database",
				"selection_criteria": []any{"ACID compliance", "Performance", "Feature richness"},
				"why_best_fit":       "Provides robust data consistency and advanced features needed for complex business logic",
				"ecosystem_benefits": []any{"Excellent tooling", "Strong community", "Enterprise support"},
				"potential_concerns": []any{"Vertical scaling limits", "Complexity for simple use cases"},
			},
			map[string]any{
				"technology":         "Node.js",
				"category":           "backend",
				"selection_criteria": []any{"JavaScript ecosystem", "Performance", "Development speed"},
				"why_best_fit":       "Enables full-stack JavaScript development and has excellent performance for I/O operations",
				"ecosystem_benefits": []any{"NPM ecosystem", "Rapid development", "JSON handling"},
				"potential_concerns": []any{"Single-threaded limitations", "Callback complexity"},
			},
		},
		"design_principles": []any{
			map[string]any{
				"principle":   "Separation of Concerns",
				"application": "Each layer has distinct responsibilities - presentation, business logic, and data access",
				"importance":  "Reduces complexity and improves maintainability by isolating different aspects of the system",
				"examples":    []any{"UI components only handle presentation", "Business logic isolated in service layer"},
			},
			map[string]any{
				"principle":   "Single Responsibility",
				"application": "Each component and service has a single, well-defined purpose",
				"importance":  "Makes the system easier to understand, test, and modify",
				"examples":    []any{"Authentication service only handles auth", "Database layer only manages data access"},
			},
		},
		"scalability_reasoning": map[string]any{
			"approach":            "Horizontal scaling with load balancing",
			"justification":       "Allows the system to handle increased load by adding more instances rather than upgrading hardware",
			"growth_scenarios":    []any{"Increased user base", "Higher transaction volume"},
			"bottleneck_analysis": []any{"Database connections", "Memory usage", "Network I/O"},
		},
		"security_reasoning": map[string]any{
			"security_model":            "JWT-based authentication with role-based authorization",
			"threat_analysis":           []any{"Unauthorized access", "Data breaches", "Session hijacking"},
			"mitigation_strategies":     []any{"Token expiration", "HTTPS encryption", "Input validation"},
			"compliance_considerations": []any{"Data privacy", "Access logging", "Audit trails"},
		},
		"educational_insights": []any{
			map[string]any{
				"topic":           "Layered Architecture Benefits",
				"explanation":     "Layered architecture provides clear separation between different concerns of the application",
				"why_important":   "Understanding this pattern is fundamental to building maintainable enterprise applications",
				"further_reading": []any{"Clean Architecture by Robert Martin", "Patterns of Enterprise Application Architecture"},
			},
			map[string]any{
				"topic":           "Database Selection Criteria",
				"explanation":     "Choosing the right database depends on data structure, consistency requirements, and scalability needs",
				"why_important":   "Database choice significantly impacts application performance and scalability",
				"further_reading": []any{"Designing Data-Intensive Applications", "Database design fundamentals"},
			},
		},
		"implementation_guidance": map[string]any{
			"critical_path":          []any{"Set up development environment", "Implement core data models", "Build API layer", "Create frontend components"},
			"success_factors":        []any{"Clear requirements", "Good testing strategy", "Regular code reviews"},
			"common_pitfalls":        []any{"Over-engineering", "Insufficient testing", "Poor error handling"},
			"validation_checkpoints": []any{"Unit tests passing", "Integration tests working", "Performance benchmarks met"},
		},
		"decision_rationale": map[string]any{
			"requirements_traceability": []any{
				map[string]any{
					"requirement":  "User authentication and authorization",
					"addressed_by": []any{"Authentication Service", "API Gateway"},
					"how":          "JWT tokens provide secure authentication with role-based access control",
				},
			},
			"research_influence": []any{
				map[string]any{
					"research_finding": "Layered architecture pattern",
					"influence":        "Pattern selection based on team expertise and project complexity",
					"benefit":          "Reduced development time and improved maintainability",
				},
			},
			"design_coherence": []any{
				"All components follow consistent design patterns",
				"Technology choices complement each other",
				"Architecture supports both current and future requirements",
			},
		},
		"confidence_score": 0.85,
	}
}
