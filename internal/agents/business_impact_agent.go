package agents

import (
	"context"
	"fmt"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// BusinessImpactAgent quantifies the business implications of the proposed
// architecture: costs, savings, risks, and value realization timeline.
type BusinessImpactAgent struct {
	baseAgent
}

func NewBusinessImpactAgent(model Completer, log *logger.Logger) *BusinessImpactAgent {
	return &BusinessImpactAgent{baseAgent: newBaseAgent(models.StepBusinessImpact, model, log)}
}

const businessImpactSystemPrompt = `You are the Business Impact Agent for the Agentic Architect platform. Your role is to analyze and quantify the business implications of architectural decisions, helping stakeholders understand the value and risks of proposed solutions.

BUSINESS ANALYSIS OBJECTIVES:
1. Quantify business value and ROI of architectural decisions
2. Identify cost implications and resource requirements
3. Assess risk factors and mitigation strategies
4. Analyze time-to-market and competitive advantages
5. Evaluate operational and maintenance impacts
6. Consider scalability and future business growth

ANALYSIS METHODOLOGY:
- Evaluate direct and indirect costs of implementation
- Assess revenue impact and business value creation
- Analyze operational efficiency improvements
- Consider risk factors and their business implications
- Evaluate competitive positioning and market advantages
- Assess long-term strategic alignment

OUTPUT FORMAT:
Return a JSON object with:
{
  "executive_summary": {
    "overall_impact": "positive|neutral|negative",
    "key_benefits": ["benefit_1", "benefit_2", "benefit_3"],
    "main_risks": ["risk_1", "risk_2", "risk_3"],
    "recommendation": "proceed|proceed_with_caution|reconsider"
  },
  "financial_impact": {
    "implementation_cost": {
      "development": "estimated_cost_range",
      "infrastructure": "estimated_cost_range",
      "training": "estimated_cost_range",
      "total_estimated": "total_cost_range"
    },
    "operational_cost": {
      "annual_infrastructure": "yearly_cost_estimate",
      "maintenance": "yearly_maintenance_cost",
      "support": "yearly_support_cost"
    },
    "cost_savings": [
      {
        "area": "cost_saving_area",
        "annual_savings": "estimated_savings",
        "description": "how_savings_achieved"
      }
    ],
    "revenue_impact": [
      {
        "opportunity": "revenue_opportunity",
        "potential_value": "estimated_value",
        "timeframe": "when_realized"
      }
    ]
  },
  "operational_impact": {
    "efficiency_gains": [
      {
        "process": "business_process",
        "improvement": "efficiency_improvement",
        "quantification": "measurable_benefit"
      }
    ],
    "resource_requirements": [
      {
        "resource_type": "human|technical|financial",
        "requirement": "specific_requirement",
        "timeline": "when_needed"
      }
    ],
    "workflow_changes": [
      {
        "area": "affected_area",
        "change": "required_change",
        "impact": "business_impact"
      }
    ]
  },
  "strategic_impact": {
    "competitive_advantages": [
      {
        "advantage": "competitive_benefit",
        "significance": "high|medium|low",
        "sustainability": "how_long_advantage_lasts"
      }
    ],
    "market_positioning": {
      "current_position": "current_market_position",
      "target_position": "desired_position",
      "architecture_contribution": "how_architecture_helps"
    },
    "innovation_enablement": [
      {
        "capability": "new_capability_enabled",
        "business_value": "value_to_business",
        "timeline": "when_available"
      }
    ]
  },
  "risk_analysis": {
    "technical_risks": [
      {
        "risk": "technical_risk",
        "probability": "high|medium|low",
        "business_impact": "impact_on_business",
        "mitigation": "risk_mitigation_strategy",
        "cost_of_mitigation": "mitigation_cost"
      }
    ],
    "business_risks": [
      {
        "risk": "business_risk",
        "probability": "high|medium|low",
        "financial_impact": "potential_financial_loss",
        "mitigation": "business_mitigation_strategy"
      }
    ],
    "opportunity_costs": [
      {
        "alternative": "alternative_approach",
        "foregone_benefit": "what_is_given_up",
        "justification": "why_current_choice_better"
      }
    ]
  },
  "timeline_impact": {
    "time_to_market": "estimated_delivery_time",
    "business_value_realization": [
      {
        "milestone": "business_milestone",
        "value_delivered": "value_at_milestone",
        "timeline": "when_achieved"
      }
    ],
    "critical_path_items": ["item_1", "item_2", "item_3"]
  },
  "scalability_business_impact": {
    "growth_enablement": "how_architecture_supports_growth",
    "scaling_costs": "cost_implications_of_scaling",
    "revenue_scalability": "revenue_scaling_potential",
    "operational_scalability": "operational_scaling_benefits"
  },
  "stakeholder_impact": [
    {
      "stakeholder_group": "affected_group",
      "impact_type": "positive|negative|neutral",
      "specific_impacts": ["impact_1", "impact_2"],
      "required_actions": ["action_1", "action_2"]
    }
  ],
  "success_metrics": [
    {
      "metric": "business_metric",
      "current_baseline": "current_value",
      "target_value": "target_after_implementation",
      "measurement_method": "how_to_measure"
    }
  ],
  "confidence_score": 0.0-1.0
}

Provide practical, actionable business insights that help stakeholders make informed decisions about architectural investments.`

func (agent *BusinessImpactAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Analyzing business impact")

	response, err := agent.queryRaw(ctx, agent.buildPrompt(state), businessImpactSystemPrompt, state)
	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
		}).Error("Business impact analysis failed")
		return fallbackBusinessImpact(), nil
	}

	impact := agent.parseImpact(response)
	impact["roi_analysis"] = roiEstimates(state.BusinessContext)

	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
		"impact_areas":    len(getSlice(impact, "impact_areas")),
	}).Info("Business impact analysis completed")

	return impact, nil
}

func (agent *BusinessImpactAgent) buildPrompt(state *models.WorkflowState) string {
	promptParts := []string{
		fmt.Sprintf("Analyze the business impact of the proposed architecture for: %s", state.UserQuery),
		"",
		"BUSINESS CONTEXT:",
	}

	if bc := state.BusinessContext; bc != nil {
		promptParts = append(promptParts,
			fmt.Sprintf("Industry: %s", orNotSpecified(bc.Industry)),
			fmt.Sprintf("Company Size: %s", orNotSpecified(bc.CompanySize)),
			fmt.Sprintf("Budget Range: %s", orNotSpecified(bc.BudgetRange)),
			fmt.Sprintf("Timeline: %s", orNotSpecified(bc.Timeline)),
		)
	}

	if businessReqs := toStringSlice(getSlice(state.RequirementsAnalysis, "business_requirements")); len(businessReqs) > 0 {
		promptParts = append(promptParts, "\nBUSINESS REQUIREMENTS:")
		for _, req := range businessReqs {
			promptParts = append(promptParts, fmt.Sprintf("- %s", req))
		}
	}

	if len(state.ArchitectureDesign) > 0 {
		promptParts = append(promptParts, "\nPROPOSED ARCHITECTURE:")

		if overview := getMap(state.ArchitectureDesign, "architecture_overview"); len(overview) > 0 {
			promptParts = append(promptParts,
				fmt.Sprintf("Pattern: %s", getStringDefault(overview, "pattern", "Not specified")),
				fmt.Sprintf("Description: %s", getStringDefault(overview, "description", "Not specified")),
			)
		}

		if techStack := getMap(state.ArchitectureDesign, "technology_stack"); len(techStack) > 0 {
			promptParts = append(promptParts, "Technology Stack:")
			for _, category := range sortedKeys(techStack) {
				promptParts = append(promptParts, fmt.Sprintf("- %s: %v", category, techStack[category]))
			}
		}

		if phases := getSlice(state.ArchitectureDesign, "implementation_phases"); len(phases) > 0 {
			promptParts = append(promptParts, "Implementation Phases:")
			if len(phases) > 3 {
				phases = phases[:3]
			}
			for _, entry := range phases {
				if phase, ok := entry.(map[string]any); ok {
					promptParts = append(promptParts, fmt.Sprintf("- Phase %v: %s (%s)",
						phase["phase"], getString(phase, "name"), getString(phase, "duration")))
				}
			}
		}
	}

	if decisions := getSlice(state.WhyReasoning, "architectural_decisions"); len(decisions) > 0 {
		promptParts = append(promptParts, "\nKEY ARCHITECTURAL DECISIONS:")
		if len(decisions) > 3 {
			decisions = decisions[:3]
		}
		for _, entry := range decisions {
			if decision, ok := entry.(map[string]any); ok {
				promptParts = append(promptParts,
					fmt.Sprintf("- %s", getString(decision, "decision")),
					fmt.Sprintf("  Rationale: %s", getString(decision, "rationale")),
				)
			}
		}
	}

	promptParts = append(promptParts,
		"",
		"Please provide comprehensive business impact analysis including:",
		"1. Financial implications (costs, savings, ROI)",
		"2. Operational impact and efficiency gains",
		"3. Strategic advantages and competitive positioning",
		"4. Risk analysis and mitigation strategies",
		"5. Timeline and business value realization",
		"6. Stakeholder impact and change management needs",
		"",
		"Focus on quantifiable business metrics and actionable insights for decision-makers.",
	)

	return strings.Join(promptParts, "\n")
}

func (agent *BusinessImpactAgent) parseImpact(response string) map[string]any {
	impact, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse impact response")
		return fallbackBusinessImpact()
	}

	setDefault(impact, "executive_summary", map[string]any{})
	setDefault(impact, "financial_impact", map[string]any{})
	setDefault(impact, "operational_impact", map[string]any{})
	setDefault(impact, "strategic_impact", map[string]any{})
	setDefault(impact, "risk_analysis", map[string]any{})
	setDefault(impact, "timeline_impact", map[string]any{})
	setDefault(impact, "scalability_business_impact", map[string]any{})
	setDefault(impact, "stakeholder_impact", []any{})
	setDefault(impact, "success_metrics", []any{})
	setDefault(impact, "confidence_score", 0.85)

	return impact
}

// roiEstimates produces the ROI framework appended to every impact analysis,
// with extra considerations keyed to company size.
func roiEstimates(businessContext *models.BusinessContext) map[string]any {
	roiAnalysis := map[string]any{
		"investment_summary": map[string]any{
			"total_investment": "To be determined based on detailed estimates",
			"payback_period":   "12-24 months (estimated)",
			"roi_percentage":   "15-25% annually (estimated)",
		},
		"value_drivers": []any{
			"Operational efficiency improvements",
			"Reduced maintenance costs",
			"Faster time-to-market for new features",
			"Improved scalability reducing future costs",
		},
		"cost_categories": []any{
			"Development and implementation",
			"Infrastructure and hosting",
			"Training and change management",
			"Ongoing maintenance and support",
		},
		"assumptions": []any{
			"Team productivity improvements of 20-30%",
			"Reduced system downtime by 50%",
			"Faster feature delivery by 25%",
			"Lower infrastructure costs through optimization",
		},
	}

	if businessContext != nil {
		switch businessContext.CompanySize {
		case "startup":
			roiAnalysis["startup_considerations"] = []any{
				"Focus on rapid development and iteration",
				"Minimize upfront infrastructure costs",
				"Prioritize scalability for growth",
			}
		case "enterprise":
			roiAnalysis["enterprise_considerations"] = []any{
				"Emphasis on security and compliance",
				"Integration with existing systems",
				"Long-term maintenance and support",
			}
		}
	}

	return roiAnalysis
}

func fallbackBusinessImpact() map[string]any {
	return map[string]any{
		"executive_summary": map[string]any{
			"overall_impact": "positive",
			"key_benefits": []any{
				"Improved system scalability and performance",
				"Reduced long-term maintenance costs",
				"Enhanced development team productivity",
			},
			"main_risks": []any{
				"Implementation complexity and timeline",
				"Initial learning curve for team",
				"Integration challenges with existing systems",
			},
			"recommendation": "proceed",
		},
		"financial_impact": map[string]any{
			"implementation_cost": map[string]any{
				"development":     "$50,000 - $150,000",
				"infrastructure":  "$10,000 - $30,000",
				"training":        "$5,000 - $15,000",
				"total_estimated": "$65,000 - $195,000",
			},
			"operational_cost": map[string]any{
				"annual_infrastructure": "$12,000 - $36,000",
				"maintenance":           "$20,000 - $40,000",
				"support":               "$15,000 - $25,000",
			},
			"cost_savings": []any{
				map[string]any{
					"area":           "Reduced system downtime",
					"annual_savings": "$25,000 - $50,000",
					"description":    "Improved reliability reduces business disruption",
				},
				map[string]any{
					"area":           "Development efficiency",
					"annual_savings": "$30,000 - $60,000",
					"description":    "Faster development cycles and reduced debugging time",
				},
			},
			"revenue_impact": []any{
				map[string]any{
					"opportunity":     "Faster time-to-market for new features",
					"potential_value": "$100,000 - $300,000",
					"timeframe":       "12-18 months",
				},
			},
		},
		"operational_impact": map[string]any{
			"efficiency_gains": []any{
				map[string]any{
					"process":        "Software development lifecycle",
					"improvement":    "25% faster development cycles",
					"quantification": "Reduced time from concept to deployment",
				},
				map[string]any{
					"process":        "System maintenance and support",
					"improvement":    "40% reduction in maintenance overhead",
					"quantification": "Fewer production issues and easier troubleshooting",
				},
			},
			"resource_requirements": []any{
				map[string]any{
					"resource_type": "human",
					"requirement":   "2-3 developers for 3-6 months",
					"timeline":      "Implementation phase",
				},
				map[string]any{
					"resource_type": "technical",
					"requirement":   "Cloud infrastructure and development tools",
					"timeline":      "Ongoing",
				},
			},
			"workflow_changes": []any{
				map[string]any{
					"area":   "Development process",
					"change": "Adoption of new architecture patterns and tools",
					"impact": "Initial learning curve, then improved productivity",
				},
			},
		},
		"strategic_impact": map[string]any{
			"competitive_advantages": []any{
				map[string]any{
					"advantage":      "Faster feature delivery and innovation",
					"significance":   "high",
					"sustainability": "Long-term with proper maintenance",
				},
				map[string]any{
					"advantage":      "Better scalability for business growth",
					"significance":   "medium",
					"sustainability": "Supports multi-year growth plans",
				},
			},
			"market_positioning": map[string]any{
				"current_position":          "Competitive but constrained by technical limitations",
				"target_position":           "Technology leader with superior product capabilities",
				"architecture_contribution": "Enables rapid innovation and superior user experience",
			},
			"innovation_enablement": []any{
				map[string]any{
					"capability":     "Real-time data processing and analytics",
					"business_value": "Better customer insights and personalization",
					"timeline":       "6-12 months post-implementation",
				},
			},
		},
		"risk_analysis": map[string]any{
			"technical_risks": []any{
				map[string]any{
					"risk":               "Implementation complexity leading to delays",
					"probability":        "medium",
					"business_impact":    "Delayed time-to-market and increased costs",
					"mitigation":         "Phased implementation with regular checkpoints",
					"cost_of_mitigation": "$10,000 - $20,000",
				},
			},
			"business_risks": []any{
				map[string]any{
					"risk":             "Team resistance to new technologies",
					"probability":      "low",
					"financial_impact": "Reduced productivity during transition",
					"mitigation":       "Comprehensive training and change management",
				},
			},
			"opportunity_costs": []any{
				map[string]any{
					"alternative":      "Maintaining current architecture",
					"foregone_benefit": "Continued technical debt and scaling limitations",
					"justification":    "New architecture provides better long-term value",
				},
			},
		},
		"timeline_impact": map[string]any{
			"time_to_market": "3-6 months for initial implementation",
			"business_value_realization": []any{
				map[string]any{
					"milestone":       "Core system deployment",
					"value_delivered": "Improved system reliability and performance",
					"timeline":        "3-4 months",
				},
				map[string]any{
					"milestone":       "Full feature implementation",
					"value_delivered": "Complete business value realization",
					"timeline":        "6-8 months",
				},
			},
			"critical_path_items": []any{
				"Team training and onboarding",
				"Core architecture implementation",
				"Data migration and integration testing",
			},
		},
		"scalability_business_impact": map[string]any{
			"growth_enablement":       "Architecture supports 10x growth in users and data volume",
			"scaling_costs":           "Linear cost scaling with usage, avoiding expensive rewrites",
			"revenue_scalability":     "Enables new revenue streams through better performance",
			"operational_scalability": "Reduced operational overhead as system grows",
		},
		"stakeholder_impact": []any{
			map[string]any{
				"stakeholder_group": "Development team",
				"impact_type":       "positive",
				"specific_impacts":  []any{"Improved productivity", "Better development experience"},
				"required_actions":  []any{"Training on new technologies", "Process adaptation"},
			},
			map[string]any{
				"stakeholder_group": "Business users",
				"impact_type":       "positive",
				"specific_impacts":  []any{"Better system performance", "New feature capabilities"},
				"required_actions":  []any{"User training on new features", "Feedback collection"},
			},
		},
		"success_metrics": []any{
			map[string]any{
				"metric":             "System uptime",
				"current_baseline":   "95%",
				"target_value":       "99.5%",
				"measurement_method": "Automated monitoring and alerting",
			},
			map[string]any{
				"metric":             "Feature delivery time",
				"current_baseline":   "4-6 weeks",
				"target_value":       "2-3 weeks",
				"measurement_method": "Development cycle tracking",
			},
			map[string]any{
				"metric":             "Customer satisfaction",
				"current_baseline":   "7.5/10",
				"target_value":       "8.5/10",
				"measurement_method": "Regular customer surveys",
			},
		},
		"roi_analysis": map[string]any{
			"investment_summary": map[string]any{
				"total_investment": "$65,000 - $195,000",
				"payback_period":   "12-18 months",
				"roi_percentage":   "20-30% annually",
			},
			"value_drivers": []any{
				"Operational efficiency improvements",
				"Reduced maintenance costs",
				"Faster time-to-market for new features",
				"Improved scalability reducing future costs",
			},
		},
		"confidence_score": 0.8,
	}
}
