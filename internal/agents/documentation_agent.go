package agents

import (
	"context"
	"fmt"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// DocumentationAgent assembles the outputs of every preceding step into a
// structured design document with multiple export formats.
type DocumentationAgent struct {
	baseAgent
}

func NewDocumentationAgent(model Completer, log *logger.Logger) *DocumentationAgent {
	return &DocumentationAgent{baseAgent: newBaseAgent(models.StepDocumentation, model, log)}
}

const documentationSystemPrompt = `You are the Documentation Agent for the Agentic Architect platform. Your role is to generate comprehensive, professional documentation that captures all aspects of the architectural design, decisions, and implementation guidance.

DOCUMENTATION OBJECTIVES:
1. Create comprehensive technical documentation for developers
2. Generate executive summaries for business stakeholders
3. Provide implementation guides and best practices
4. Document architectural decisions and rationale
5. Include deployment and operational guidance
6. Create user-friendly guides and tutorials

DOCUMENTATION STANDARDS:
- Clear, professional writing suitable for technical and business audiences
- Structured format with logical flow and clear sections
- Include diagrams, code examples, and practical guidance
- Provide both high-level overviews and detailed technical specifications
- Include troubleshooting guides and FAQ sections
- Ensure documentation is maintainable and updatable

OUTPUT FORMAT:
Return a JSON object with:
{
  "document_metadata": {
    "title": "document_title",
    "version": "1.0",
    "created_date": "current_date",
    "authors": ["Agentic Architect Platform"],
    "document_type": "Architecture Design Document",
    "classification": "Internal|Confidential|Public"
  },
  "executive_summary": {
    "overview": "high_level_project_overview",
    "key_benefits": ["benefit_1", "benefit_2", "benefit_3"],
    "investment_required": "investment_summary",
    "timeline": "implementation_timeline",
    "success_metrics": ["metric_1", "metric_2", "metric_3"],
    "recommendation": "executive_recommendation"
  },
  "sections": [
    {
      "section_id": "section_identifier",
      "title": "Section Title",
      "content": "detailed_section_content",
      "subsections": [
        {
          "title": "Subsection Title",
          "content": "subsection_content"
        }
      ],
      "diagrams": ["diagram_reference_1", "diagram_reference_2"],
      "code_examples": ["code_example_1", "code_example_2"]
    }
  ],
  "technical_specifications": {
    "architecture_overview": "technical_architecture_description",
    "component_specifications": [
      {
        "component": "component_name",
        "description": "component_description",
        "interfaces": ["interface_1", "interface_2"],
        "dependencies": ["dependency_1", "dependency_2"],
        "configuration": "configuration_details"
      }
    ],
    "data_models": [
      {
        "model": "data_model_name",
        "description": "model_description",
        "fields": ["field_1", "field_2"],
        "relationships": ["relationship_1", "relationship_2"]
      }
    ],
    "api_specifications": [
      {
        "endpoint": "api_endpoint",
        "method": "HTTP_method",
        "description": "endpoint_description",
        "parameters": ["param_1", "param_2"],
        "responses": ["response_1", "response_2"]
      }
    ]
  },
  "implementation_guide": {
    "prerequisites": ["prerequisite_1", "prerequisite_2"],
    "setup_instructions": ["step_1", "step_2", "step_3"],
    "configuration_guide": "configuration_instructions",
    "deployment_steps": ["deploy_step_1", "deploy_step_2"],
    "testing_strategy": "testing_approach",
    "rollback_procedures": "rollback_instructions"
  },
  "operational_guide": {
    "monitoring_setup": "monitoring_configuration",
    "logging_strategy": "logging_approach",
    "backup_procedures": "backup_instructions",
    "security_considerations": ["security_1", "security_2"],
    "performance_tuning": "performance_optimization_guide",
    "troubleshooting": [
      {
        "issue": "common_issue",
        "symptoms": ["symptom_1", "symptom_2"],
        "resolution": "resolution_steps"
      }
    ]
  },
  "decision_log": [
    {
      "decision": "architectural_decision",
      "date": "decision_date",
      "rationale": "decision_reasoning",
      "alternatives": ["alternative_1", "alternative_2"],
      "impact": "decision_impact",
      "status": "approved|pending|rejected"
    }
  ],
  "appendices": {
    "glossary": [
      {
        "term": "technical_term",
        "definition": "term_definition"
      }
    ],
    "references": ["reference_1", "reference_2"],
    "change_log": [
      {
        "version": "version_number",
        "date": "change_date",
        "changes": ["change_1", "change_2"]
      }
    ]
  },
  "confidence_score": 0.0-1.0
}

Create documentation that is comprehensive, professional, and serves both technical and business stakeholders effectively.`

func (agent *DocumentationAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Generating documentation")

	response, err := agent.queryRaw(ctx, agent.buildPrompt(state), documentationSystemPrompt, state)
	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
		}).Error("Documentation generation failed")
		return fallbackDocumentation(), nil
	}

	documentation := agent.parseDocumentation(response)
	documentation["export_formats"] = exportFormats(documentation, state.ArchitectureDesign, state.BusinessImpact)

	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
		"sections_count":  len(getSlice(documentation, "sections")),
	}).Info("Documentation generated")

	return documentation, nil
}

func (agent *DocumentationAgent) buildPrompt(state *models.WorkflowState) string {
	promptParts := []string{
		fmt.Sprintf("Generate comprehensive documentation for the architecture project: %s", state.UserQuery),
		"",
		"CONTEXT FOR DOCUMENTATION:",
	}

	if bc := state.BusinessContext; bc != nil {
		promptParts = append(promptParts,
			"PROJECT CONTEXT:",
			fmt.Sprintf("Industry: %s", orNotSpecified(bc.Industry)),
			fmt.Sprintf("Company Size: %s", orNotSpecified(bc.CompanySize)),
			fmt.Sprintf("Timeline: %s", orNotSpecified(bc.Timeline)),
			fmt.Sprintf("Budget: %s", orNotSpecified(bc.BudgetRange)),
		)
	}

	if len(state.RequirementsAnalysis) > 0 {
		promptParts = append(promptParts, "\nREQUIREMENTS SUMMARY:")
		if functional := toStringSlice(getSlice(state.RequirementsAnalysis, "functional_requirements")); len(functional) > 0 {
			promptParts = append(promptParts, "Functional Requirements:")
			if len(functional) > 5 {
				functional = functional[:5]
			}
			for _, req := range functional {
				promptParts = append(promptParts, fmt.Sprintf("- %s", req))
			}
		}
		if nonFunctional := toStringSlice(getSlice(state.RequirementsAnalysis, "non_functional_requirements")); len(nonFunctional) > 0 {
			promptParts = append(promptParts, "Non-Functional Requirements:")
			if len(nonFunctional) > 5 {
				nonFunctional = nonFunctional[:5]
			}
			for _, req := range nonFunctional {
				promptParts = append(promptParts, fmt.Sprintf("- %s", req))
			}
		}
	}

	if len(state.ArchitectureDesign) > 0 {
		promptParts = append(promptParts, "\nARCHITECTURE OVERVIEW:")

		if overview := getMap(state.ArchitectureDesign, "architecture_overview"); len(overview) > 0 {
			promptParts = append(promptParts,
				fmt.Sprintf("Pattern: %s", getStringDefault(overview, "pattern", "Not specified")),
				fmt.Sprintf("Description: %s", getStringDefault(overview, "description", "Not specified")),
			)
		}

		if components := getSlice(state.ArchitectureDesign, "components"); len(components) > 0 {
			promptParts = append(promptParts, "Key Components:")
			if len(components) > 5 {
				components = components[:5]
			}
			for _, entry := range components {
				if component, ok := entry.(map[string]any); ok {
					promptParts = append(promptParts, fmt.Sprintf("- %s: %s",
						getString(component, "name"), getString(component, "description")))
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

	if len(state.BusinessImpact) > 0 {
		promptParts = append(promptParts, "\nBUSINESS IMPACT SUMMARY:")
		if execSummary := getMap(state.BusinessImpact, "executive_summary"); len(execSummary) > 0 {
			promptParts = append(promptParts, fmt.Sprintf("Overall Impact: %s",
				getStringDefault(execSummary, "overall_impact", "Not specified")))
			if benefits := toStringSlice(getSlice(execSummary, "key_benefits")); len(benefits) > 0 {
				promptParts = append(promptParts, "Key Benefits:")
				if len(benefits) > 3 {
					benefits = benefits[:3]
				}
				for _, benefit := range benefits {
					promptParts = append(promptParts, fmt.Sprintf("- %s", benefit))
				}
			}
		}
	}

	promptParts = append(promptParts,
		"",
		"Please generate comprehensive documentation that includes:",
		"1. Executive summary for business stakeholders",
		"2. Technical specifications and architecture details",
		"3. Implementation and deployment guides",
		"4. Operational procedures and troubleshooting",
		"5. Decision log with rationale",
		"6. Appendices with glossary and references",
		"",
		"Ensure the documentation is professional, comprehensive, and suitable for both technical and business audiences.",
	)

	return strings.Join(promptParts, "\n")
}

func (agent *DocumentationAgent) parseDocumentation(response string) map[string]any {
	documentation, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse documentation response")
		return fallbackDocumentation()
	}

	setDefault(documentation, "document_metadata", map[string]any{})
	setDefault(documentation, "executive_summary", map[string]any{})
	setDefault(documentation, "sections", []any{})
	setDefault(documentation, "technical_specifications", map[string]any{})
	setDefault(documentation, "implementation_guide", map[string]any{})
	setDefault(documentation, "operational_guide", map[string]any{})
	setDefault(documentation, "decision_log", []any{})
	setDefault(documentation, "appendices", map[string]any{})
	setDefault(documentation, "confidence_score", 0.9)

	return documentation
}

func exportFormats(documentation, architectureDesign, businessImpact map[string]any) map[string]any {
	return map[string]any{
		"markdown":            markdownFormat(documentation, architectureDesign),
		"pdf_ready":           pdfReadyFormat(documentation),
		"confluence":          confluenceFormat(documentation),
		"word_document":       wordFormat(documentation),
		"presentation_slides": presentationFormat(documentation, businessImpact),
	}
}

func markdownFormat(documentation, architectureDesign map[string]any) string {
	metadata := getMap(documentation, "document_metadata")
	execSummary := getMap(documentation, "executive_summary")

	authors := toStringSlice(getSlice(metadata, "authors"))
	if len(authors) == 0 {
		authors = []string{"Agentic Architect Platform"}
	}

	markdownParts := []string{
		fmt.Sprintf("# %s", getStringDefault(metadata, "title", "Architecture Design Document")),
		"",
		fmt.Sprintf("**Version:** %s  ", getStringDefault(metadata, "version", "1.0")),
		fmt.Sprintf("**Created:** %s  ", getStringDefault(metadata, "created_date", "Current Date")),
		fmt.Sprintf("**Authors:** %s", strings.Join(authors, ", ")),
		"",
		"## Executive Summary",
		"",
		getStringDefault(execSummary, "overview", "Project overview not available"),
		"",
		"### Key Benefits",
		"",
	}

	for _, benefit := range toStringSlice(getSlice(execSummary, "key_benefits")) {
		markdownParts = append(markdownParts, fmt.Sprintf("- %s", benefit))
	}

	markdownParts = append(markdownParts,
		"",
		"### Investment Required",
		getStringDefault(execSummary, "investment_required", "Investment details not available"),
		"",
		"### Timeline",
		getStringDefault(execSummary, "timeline", "Timeline not available"),
		"",
	)

	for _, entry := range getSlice(documentation, "sections") {
		section, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		markdownParts = append(markdownParts,
			fmt.Sprintf("## %s", getStringDefault(section, "title", "Section")),
			"",
			getStringDefault(section, "content", "Content not available"),
			"",
		)
		for _, sub := range getSlice(section, "subsections") {
			subsection, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			markdownParts = append(markdownParts,
				fmt.Sprintf("### %s", getStringDefault(subsection, "title", "Subsection")),
				"",
				getStringDefault(subsection, "content", "Content not available"),
				"",
			)
		}
	}

	if vizData := getMap(architectureDesign, "visualization_data"); len(vizData) > 0 {
		if diagrams := getMap(vizData, "mermaid_diagrams"); len(diagrams) > 0 {
			if diagram := getString(diagrams, "system_overview"); diagram != "" {
				markdownParts = append(markdownParts,
					"## Architecture Diagram",
					"",
					"```mermaid",
					diagram,
					"```",
					"",
				)
			}
		}
	}

	return strings.Join(markdownParts, "\n")
}

func pdfReadyFormat(documentation map[string]any) map[string]any {
	metadata := getMap(documentation, "document_metadata")
	return map[string]any{
		"title_page": map[string]any{
			"title":    getStringDefault(metadata, "title", "Architecture Design Document"),
			"subtitle": "Comprehensive Architecture Documentation",
			"version":  getStringDefault(metadata, "version", "1.0"),
			"date":     getStringDefault(metadata, "created_date", "Current Date"),
		},
		"table_of_contents": true,
		"page_numbering":    true,
		"header_footer":     true,
		"styling": map[string]any{
			"font_family":  "Arial, sans-serif",
			"font_size":    "11pt",
			"line_spacing": "1.2",
			"margins":      "1 inch",
		},
	}
}

func confluenceFormat(documentation map[string]any) map[string]any {
	metadata := getMap(documentation, "document_metadata")
	return map[string]any{
		"page_title":  getStringDefault(metadata, "title", "Architecture Design Document"),
		"labels":      []any{"architecture", "design", "documentation"},
		"macros_used": []any{"info", "note", "warning", "code", "expand"},
		"attachments": []any{"architecture_diagram.png", "component_diagram.png"},
		"page_properties": map[string]any{
			"version": getStringDefault(metadata, "version", "1.0"),
			"status":  "Draft",
			"owner":   "Architecture Team",
		},
	}
}

func wordFormat(documentation map[string]any) map[string]any {
	metadata := getMap(documentation, "document_metadata")
	authors := toStringSlice(getSlice(metadata, "authors"))
	if len(authors) == 0 {
		authors = []string{"Agentic Architect Platform"}
	}
	return map[string]any{
		"document_properties": map[string]any{
			"title":    getStringDefault(metadata, "title", "Architecture Design Document"),
			"author":   strings.Join(authors, ", "),
			"subject":  "System Architecture Documentation",
			"keywords": "architecture, design, documentation, system",
		},
		"styles": map[string]any{
			"heading_1": "Arial, 16pt, Bold",
			"heading_2": "Arial, 14pt, Bold",
			"heading_3": "Arial, 12pt, Bold",
			"body_text": "Arial, 11pt, Normal",
			"code":      "Courier New, 10pt, Normal",
		},
		"page_setup": map[string]any{
			"orientation":    "Portrait",
			"margins":        "1 inch all sides",
			"page_numbering": "Bottom center",
		},
	}
}

func presentationFormat(documentation, businessImpact map[string]any) map[string]any {
	metadata := getMap(documentation, "document_metadata")
	execSummary := getMap(documentation, "executive_summary")

	slides := []any{
		map[string]any{
			"slide_number": 1,
			"type":         "title",
			"title":        getStringDefault(metadata, "title", "Architecture Design Document"),
			"subtitle":     "Executive Presentation",
		},
		map[string]any{
			"slide_number": 2,
			"type":         "content",
			"title":        "Executive Summary",
			"content":      getStringDefault(execSummary, "overview", "Project overview"),
		},
		map[string]any{
			"slide_number": 3,
			"type":         "bullet_points",
			"title":        "Key Benefits",
			"bullets":      getSlice(execSummary, "key_benefits"),
		},
	}

	if len(businessImpact) > 0 {
		impactSummary := getMap(businessImpact, "executive_summary")
		slides = append(slides, map[string]any{
			"slide_number": 4,
			"type":         "content",
			"title":        "Business Impact",
			"content":      getStringDefault(impactSummary, "overall_impact", "Positive business impact expected"),
		})
	}

	return map[string]any{
		"slides":       slides,
		"template":     "Professional Business Template",
		"color_scheme": "Blue and White",
		"font_scheme":  "Arial/Calibri",
	}
}

func fallbackDocumentation() map[string]any {
	return map[string]any{
		"document_metadata": map[string]any{
			"title":           "Architecture Design Document",
			"version":         "1.0",
			"created_date":    "2024-01-01",
			"authors":         []any{"Agentic Architect Platform"},
			"document_type":   "Architecture Design Document",
			"classification":  "Internal",
		},
		"executive_summary": map[string]any{
			"overview": "This document outlines the proposed architecture for a scalable, maintainable system that addresses current business requirements while providing a foundation for future growth.",
			"key_benefits": []any{
				"Improved system scalability and performance",
				"Enhanced maintainability and development productivity",
				"Reduced operational costs and complexity",
				"Better security and compliance posture",
			},
			"investment_required": "Initial investment of $65,000 - $195,000 with ongoing operational costs",
			"timeline":            "3-6 months for initial implementation, with full benefits realized within 12 months",
			"success_metrics": []any{
				"99.5% system uptime",
				"25% faster feature delivery",
				"40% reduction in maintenance overhead",
			},
			"recommendation": "Proceed with implementation as outlined in this document",
		},
		"sections": []any{
			map[string]any{
				"section_id": "introduction",
				"title":      "Introduction",
				"content":    "This architecture design document provides a comprehensive overview of the proposed system architecture, including technical specifications, implementation guidance, and operational procedures.",
				"subsections": []any{
					map[string]any{
						"title":   "Purpose",
						"content": "Define the architecture for a scalable, maintainable system that meets current and future business needs.",
					},
					map[string]any{
						"title":   "Scope",
						"content": "This document covers the complete system architecture including frontend, backend, database, and infrastructure components.",
					},
				},
				"diagrams":      []any{"system_overview_diagram"},
				"code_examples": []any{},
			},
			map[string]any{
				"section_id": "architecture_overview",
				"title":      "Architecture Overview",
				"content":    "The proposed architecture follows a layered pattern with clear separation of concerns, providing a solid foundation for scalable application development.",
				"subsections": []any{
					map[string]any{
						"title":   "Architecture Pattern",
						"content": "Layered architecture with presentation, business logic, and data access layers.",
					},
					map[string]any{
						"title":   "Key Components",
						"content": "Frontend application, API gateway, backend services, and database layer.",
					},
				},
				"diagrams":      []any{"architecture_diagram", "component_diagram"},
				"code_examples": []any{"api_example", "database_schema"},
			},
		},
		"technical_specifications": map[string]any{
			"architecture_overview": "Layered architecture with React frontend, Node.js backend, and PostgreSQL database",
			"component_specifications": []any{
				map[string]any{
					"component":     "Frontend Application",
					"description":   "React-based user interface with responsive design",
					"interfaces":    []any{"REST API", "WebSocket"},
					"dependencies":  []any{"API Gateway", "Authentication Service"},
					"configuration": "Environment-specific configuration files",
				},
				map[string]any{
					"component":     "Backend Service",
					"description":   "Node.js application with Express framework",
					"interfaces":    []any{"REST API", "Database Connection"},
					"dependencies":  []any{"Database", "External APIs"},
					"configuration": "Environment variables and configuration files",
				},
			},
			"data_models": []any{
				map[string]any{
					"model":         "User",
					"description":   "User account and profile information",
					"fields":        []any{"id", "email", "name", "created_at"},
					"relationships": []any{"has_many conversations"},
				},
			},
			"api_specifications": []any{
				map[string]any{
					"endpoint":    "/api/users",
					"method":      "GET",
					"description": "Retrieve user information",
					"parameters":  []any{"user_id"},
					"responses":   []any{"200 OK", "404 Not Found"},
				},
			},
		},
		"implementation_guide": map[string]any{
			"prerequisites": []any{
				"Node.js 18+ installed",
				"PostgreSQL 13+ database",
				"Git version control",
				"Development environment setup",
			},
			"setup_instructions": []any{
				"Clone the repository",
				"Install dependencies with npm install",
				"Configure environment variables",
				"Run database migrations",
				"Start the development server",
			},
			"configuration_guide": "Configure environment variables for database connection, API keys, and application settings",
			"deployment_steps": []any{
				"Build production assets",
				"Deploy to staging environment",
				"Run integration tests",
				"Deploy to production",
				"Monitor deployment",
			},
			"testing_strategy":    "Unit tests, integration tests, and end-to-end testing with automated CI/CD pipeline",
			"rollback_procedures": "Automated rollback using deployment scripts and database migration rollbacks",
		},
		"operational_guide": map[string]any{
			"monitoring_setup":  "Application performance monitoring with logging and alerting",
			"logging_strategy":  "Centralized logging with structured log format and log aggregation",
			"backup_procedures": "Automated daily database backups with point-in-time recovery",
			"security_considerations": []any{
				"HTTPS encryption for all communications",
				"JWT token-based authentication",
				"Input validation and sanitization",
				"Regular security updates",
			},
			"performance_tuning": "Database query optimization, caching strategies, and load balancing",
			"troubleshooting": []any{
				map[string]any{
					"issue":      "Application slow response times",
					"symptoms":   []any{"High response times", "User complaints"},
					"resolution": "Check database performance, review slow queries, optimize caching",
				},
			},
		},
		"decision_log": []any{
			map[string]any{
				"decision":     "Use React for frontend framework",
				"date":         "2024-01-01",
				"rationale":    "Team expertise, large ecosystem, component reusability",
				"alternatives": []any{"Vue.js", "Angular"},
				"impact":       "Faster development, better maintainability",
				"status":       "approved",
			},
			map[string]any{
				"decision":     "Use PostgreSQL for primary database",
				"date":         "2024-01-01",
				"rationale":    "ACID compliance, advanced features, performance",
				"alternatives": []any{"MySQL", "MongoDB"},
				"impact":       "Better data consistency, advanced query capabilities",
				"status":       "approved",
			},
		},
		"appendices": map[string]any{
			"glossary": []any{
				map[string]any{
					"term":       "API",
					"definition": "Application Programming Interface - a set of protocols and tools for building software applications",
				},
				map[string]any{
					"term":       "REST",
					"definition": "Representational State Transfer - an architectural style for designing networked applications",
				},
			},
			"references": []any{
				"Clean Architecture by Robert Martin",
				"Designing Data-Intensive Applications by Martin Kleppmann",
				"React Documentation - https://reactjs.org/docs/",
				"PostgreSQL Documentation - https://www.postgresql.org/docs/",
			},
			"change_log": []any{
				map[string]any{
					"version": "1.0",
					"date":    "2024-01-01",
					"changes": []any{"Initial document creation", "Architecture design completed"},
				},
			},
		},
		"export_formats": map[string]any{
			"markdown": "# Architecture Design Document\n\n## Executive Summary\n\nThis document outlines the proposed architecture...",
			"pdf_ready": map[string]any{
				"title_page": map[string]any{
					"title":    "Architecture Design Document",
					"subtitle": "Comprehensive Architecture Documentation",
					"version":  "1.0",
					"date":     "2024-01-01",
				},
			},
		},
		"confidence_score": 0.9,
	}
}
