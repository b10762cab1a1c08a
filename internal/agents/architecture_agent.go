package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// ArchitectureAgent designs the system architecture, enhancing any design
// carried over from earlier turns of the conversation instead of starting
// fresh.
type ArchitectureAgent struct {
	baseAgent
}

func NewArchitectureAgent(model Completer, log *logger.Logger) *ArchitectureAgent {
	return &ArchitectureAgent{baseAgent: newBaseAgent(models.StepArchitecture, model, log)}
}

const architectureSystemPrompt = `You are the Architecture Agent for the Agentic Architect platform. Your role is to design world-class, enterprise-grade system architectures with intelligent layer separation for optimal visualization and stakeholder communication.

CRITICAL: When enhancing existing architectures, you MUST:
- PRESERVE all existing components and their relationships
- ADD new components to fulfill new requirements
- MAINTAIN architectural consistency and integration
- BUILD UPON rather than replace the existing design

ARCHITECTURE DESIGN PRINCIPLES:
1. Design for scalability, maintainability, and performance
2. Follow established architecture patterns and best practices
3. Consider security, reliability, and operational concerns
4. Adapt complexity to user expertise level
5. Provide clear rationale for all design decisions
6. Generate layer-specific intelligent data for world-class visualization
7. Ensure seamless integration when enhancing existing systems

DESIGN METHODOLOGY:
- Analyze functional and non-functional requirements thoroughly
- Select appropriate architecture patterns (microservices, event-driven, etc.)
- Design comprehensive system components and their interactions
- Include ALL necessary infrastructure components (load balancers, caches, monitoring)
- Define data flow and communication patterns with protocols
- Specify complete technology stack and infrastructure
- Consider deployment, scaling, and operational aspects
- Create detailed business capability mappings
- Design infrastructure zones and security boundaries
- Include observability, security, and resilience patterns

COMPREHENSIVE COMPONENT COVERAGE:
For user-facing systems, ALWAYS include frontend/UI components (web apps, mobile apps, dashboards, admin panels) and user-facing interfaces.

For complex systems, ensure inclusion of:
- Load Balancers & API Gateways for traffic management
- Caching layers (Redis, CDN) for performance
- Monitoring & Observability (metrics, logging, tracing)
- Security components (auth, authorization, encryption)
- Message brokers for async communication
- Multiple data stores (primary DB, cache, search)
- Cloud services and infrastructure components
- DevOps tooling (CI/CD, deployment, scaling)

VISUALIZATION LAYERS:
1. SYSTEM OVERVIEW: Business capabilities, core systems, data domains, external integrations
2. DEPLOYMENT ARCHITECTURE: Infrastructure zones, container clusters, network topology, security boundaries

OUTPUT FORMAT:
Return a JSON object with:
{
  "architecture_overview": {
    "pattern": "microservices|monolithic|serverless|hybrid",
    "description": "high_level_description",
    "key_principles": ["principle_1", "principle_2"]
  },
  "components": [
    {
      "id": "component_id",
      "name": "Component Name",
      "type": "service|database|gateway|cache|queue|frontend|external",
      "description": "component_description",
      "responsibilities": ["responsibility_1", "responsibility_2"],
      "technology": "recommended_technology",
      "scalability": "horizontal|vertical|auto",
      "dependencies": ["component_id_1", "component_id_2"],
      "visualization_metadata": {
        "layer_assignments": {
          "system_overview": "core_system|external_integration|data_component",
          "deployment": "dmz|application|data|management"
        },
        "business_criticality": "high|medium|low",
        "visual_importance": 1-10,
        "icon_category": "frontend|backend|database|infrastructure|external",
        "technology_badges": ["react", "nodejs", "postgresql"],
        "health_indicators": {
          "monitoring_required": true,
          "performance_critical": true,
          "availability_target": "99.9%"
        }
      }
    }
  ],
  "connections": [
    {
      "from_component": "component_id",
      "to_component": "component_id",
      "connection_type": "http|grpc|message_queue|database|websocket",
      "description": "connection_purpose",
      "data_flow": "request_response|event_driven|streaming",
      "visualization_metadata": {
        "protocol_display": "HTTPS/REST|gRPC|WebSocket|Database|Message Queue",
        "traffic_volume": "high|medium|low",
        "latency_requirement": "real_time|near_real_time|batch",
        "security_level": "high|medium|low",
        "dependency_strength": "critical|important|optional",
        "line_style": "solid|dashed|dotted",
        "animation_type": "bidirectional|unidirectional|pulsing"
      }
    }
  ],
  "data_architecture": {
    "storage_strategy": "centralized|distributed|hybrid",
    "databases": [
      {
        "name": "database_name",
        "type": "relational|nosql|cache|search",
        "purpose": "primary_data|analytics|cache|search",
        "technology": "postgresql|mongodb|redis|elasticsearch"
      }
    ],
    "data_flow": "description_of_data_movement"
  },
  "security_architecture": {
    "authentication": "jwt|oauth|saml",
    "authorization": "rbac|abac|custom",
    "data_protection": ["encryption", "access_control"],
    "network_security": ["firewall", "vpc", "ssl_tls"]
  },
  "system_overview": {
    "business_capabilities": [
      {
        "capability": "capability_name",
        "components": ["component_id_1", "component_id_2"],
        "business_value": "value_description",
        "complexity": "low|medium|high",
        "priority": "high|medium|low"
      }
    ],
    "core_systems": [
      {
        "system": "system_name",
        "components": ["component_id_1", "component_id_2"],
        "purpose": "system_purpose",
        "criticality": "high|medium|low",
        "user_facing": true
      }
    ],
    "external_integrations": [
      {
        "system": "external_system_name",
        "type": "third_party|internal|saas",
        "data_flow": "inbound|outbound|bidirectional",
        "security_level": "high|medium|low",
        "dependency_level": "critical|important|optional"
      }
    ],
    "data_domains": [
      {
        "domain": "domain_name",
        "components": ["component_id_1", "component_id_2"],
        "sensitivity": "high|medium|low",
        "data_types": ["customer_data", "transaction_data"]
      }
    ]
  },
  "deployment_architecture": {
    "strategy": "containers|serverless|vm|hybrid",
    "orchestration": "kubernetes|docker_swarm|none",
    "environments": ["development", "staging", "production"],
    "ci_cd": "github_actions|jenkins|gitlab_ci",
    "infrastructure_zones": [
      {
        "zone": "zone_name",
        "components": ["component_id_1", "component_id_2"],
        "security_level": "high|medium|low",
        "network_access": "public|private|isolated",
        "zone_type": "dmz|application|data|management"
      }
    ],
    "container_clusters": [
      {
        "cluster": "cluster_name",
        "components": ["component_id_1", "component_id_2"],
        "scaling": "auto|manual|none",
        "replicas": "min-max",
        "resource_requirements": "high|medium|low"
      }
    ],
    "network_topology": {
      "load_balancers": [
        {
          "name": "lb_name",
          "type": "application|network",
          "targets": ["component_id_1"]
        }
      ],
      "security_groups": [
        {
          "name": "sg_name",
          "components": ["component_id_1"],
          "rules": ["rule_description"]
        }
      ]
    }
  },
  "scalability_strategy": {
    "horizontal_scaling": ["component_1", "component_2"],
    "vertical_scaling": ["component_3"],
    "auto_scaling": "enabled|disabled",
    "load_balancing": "application|network|database"
  },
  "monitoring_observability": {
    "logging": "centralized|distributed",
    "metrics": "application|infrastructure|business",
    "tracing": "distributed|local",
    "alerting": "proactive|reactive"
  },
  "technology_stack": {
    "frontend": "react|vue|angular",
    "backend": "node|python|java|go",
    "database": "postgresql|mysql|mongodb",
    "infrastructure": "aws|azure|gcp|on_premise",
    "additional_tools": ["tool_1", "tool_2"]
  },
  "implementation_phases": [
    {
      "phase": 1,
      "name": "phase_name",
      "duration": "estimated_weeks",
      "components": ["component_1", "component_2"],
      "deliverables": ["deliverable_1", "deliverable_2"]
    }
  ],
  "risks_mitigations": [
    {
      "risk": "identified_risk",
      "impact": "high|medium|low",
      "probability": "high|medium|low",
      "mitigation": "mitigation_strategy"
    }
  ],
  "confidence_score": 0.0-1.0
}

Design architectures that are practical, implementable, and aligned with the user's expertise level and business constraints.`

const complexityAnalysisSystemPrompt = "You are an expert system architect. Analyze requirements intelligently based on context and intent, not just keywords."

func (agent *ArchitectureAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Generating architecture design")

	existing := agent.extractExistingArchitecture(state)

	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Analyzing system complexity with LLM")
	complexityAnalysis := agent.analyzeSystemComplexity(ctx, state, existing)

	agent.logger.WithFields(logger.Fields{
		"conversation_id":  state.ConversationID,
		"complexity_level": complexityAnalysis["complexity_level"],
		"criticality":      complexityAnalysis["criticality_level"],
	}).Info("Complexity analysis completed")

	prompt := agent.buildDesignPrompt(state, complexityAnalysis, existing)

	response, err := agent.queryRaw(ctx, prompt, architectureSystemPrompt, state)
	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
		}).Error("Architecture generation failed")
		if len(getSlice(existing, "components")) > 0 {
			return existing, nil
		}
		return fallbackArchitecture(), nil
	}

	design := agent.parseDesign(response, existing)
	design["visualization_data"] = generateVisualizationData(design)

	agent.logger.WithFields(logger.Fields{
		"conversation_id":  state.ConversationID,
		"components_count": len(getSlice(design, "components")),
	}).Info("Architecture design completed")

	return design, nil
}

// extractExistingArchitecture looks for a prior design, preferring the
// current state slot, then scanning the conversation history newest-first
// for an architecture update with components.
func (agent *ArchitectureAgent) extractExistingArchitecture(state *models.WorkflowState) map[string]any {
	if len(state.ArchitectureDesign) > 0 {
		agent.logger.WithFields(logger.Fields{
			"conversation_id":  state.ConversationID,
			"components_count": len(getSlice(state.ArchitectureDesign, "components")),
		}).Info("Found existing architecture in current state")
		return state.ArchitectureDesign
	}

	for i := len(state.ConversationHistory) - 1; i >= 0; i-- {
		msg := state.ConversationHistory[i]
		if msg.MessageType != models.MessageTypeArchitectureUpdate {
			continue
		}

		agentResponse := getMap(msg.Metadata, "agentResponse")
		architectureUpdate := getMap(agentResponse, "architectureUpdate")
		if len(getSlice(architectureUpdate, "components")) > 0 {
			agent.logger.WithFields(logger.Fields{
				"conversation_id":  state.ConversationID,
				"components_count": len(getSlice(architectureUpdate, "components")),
			}).Info("Found existing architecture in conversation history")
			return architectureUpdate
		}
	}

	return map[string]any{}
}

func (agent *ArchitectureAgent) analyzeSystemComplexity(ctx context.Context, state *models.WorkflowState, existing map[string]any) map[string]any {
	var prompt string
	if len(getSlice(existing, "components")) > 0 {
		prompt = fmt.Sprintf(`Analyze this user request for system architecture requirements, considering there is an EXISTING ARCHITECTURE that should be enhanced:

User Request: "%s"

EXISTING ARCHITECTURE:
- Components: %d components
- Component Types: %s
- Previous Architecture Summary: %s

IMPORTANT: This is an ENHANCEMENT request, not a new architecture. Analyze complexity for ADDING to the existing system.

Provide a JSON analysis with:
{
  "complexity_level": "simple|moderate|high|enterprise",
  "criticality_level": "standard|important|critical|mission_critical",
  "performance_requirements": "basic|optimized|high_performance|ultra_high_performance",
  "scale_requirements": "small|medium|large|massive",
  "domain_type": "web_app|mobile_app|enterprise|fintech|healthcare|gaming|iot|ai_ml|ecommerce|other",
  "architecture_patterns_suggested": ["microservices", "event_driven", "serverless", "etc"],
  "required_components_count": "4-6|6-10|10-15|15+",
  "infrastructure_needs": ["load_balancing", "caching", "monitoring", "security", "etc"],
  "reasoning": "Brief explanation of the analysis"
}

Focus on understanding the TRUE intent and requirements, not just keywords.`,
			state.UserQuery,
			len(getSlice(existing, "components")),
			strings.Join(componentTypes(existing), ", "),
			getStringDefault(getMap(existing, "metadata"), "description", "Previous architecture design"))
	} else {
		prompt = fmt.Sprintf(`Analyze this user request for system architecture requirements:
"%s"

Provide a JSON analysis with:
{
  "complexity_level": "simple|moderate|high|enterprise",
  "criticality_level": "standard|important|critical|mission_critical",
  "performance_requirements": "basic|optimized|high_performance|ultra_high_performance",
  "scale_requirements": "small|medium|large|massive",
  "domain_type": "web_app|mobile_app|enterprise|fintech|healthcare|gaming|iot|ai_ml|ecommerce|other",
  "architecture_patterns_suggested": ["microservices", "event_driven", "serverless", "etc"],
  "required_components_count": "4-6|6-10|10-15|15+",
  "infrastructure_needs": ["load_balancing", "caching", "monitoring", "security", "etc"],
  "reasoning": "Brief explanation of the analysis"
}

Focus on understanding the TRUE intent and requirements, not just keywords.`, state.UserQuery)
	}

	response, err := agent.queryRaw(ctx, prompt, complexityAnalysisSystemPrompt, state)
	if err == nil {
		if analysis, parseErr := ExtractJSON(response); parseErr == nil {
			return analysis
		} else {
			err = parseErr
		}
	}

	agent.logger.WithError(err).Warn("Failed to analyze system complexity")
	return map[string]any{
		"complexity_level":                "moderate",
		"criticality_level":               "important",
		"performance_requirements":        "optimized",
		"scale_requirements":              "medium",
		"domain_type":                     "web_app",
		"architecture_patterns_suggested": []any{"layered"},
		"required_components_count":       "6-10",
		"infrastructure_needs":            []any{"load_balancing", "caching"},
		"reasoning":                       "Default analysis due to parsing error",
	}
}

// componentTypes returns the distinct component types in a design, sorted
// for stable prompt text.
func componentTypes(design map[string]any) []string {
	seen := map[string]bool{}
	for _, entry := range getSlice(design, "components") {
		comp, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		componentType := getString(comp, "type")
		if componentType == "" {
			componentType = "unknown"
		}
		seen[componentType] = true
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

const maxExistingComponentsListed = 10

func (agent *ArchitectureAgent) buildDesignPrompt(state *models.WorkflowState, complexityAnalysis, existing map[string]any) string {
	expertiseLevel := string(state.UserProfile.ExpertiseLevel)
	if expertiseLevel == "" {
		expertiseLevel = "intermediate"
	}

	existingComponents := getSlice(existing, "components")
	isEnhancement := len(existingComponents) > 0

	var promptParts []string
	if isEnhancement {
		promptParts = []string{
			fmt.Sprintf("ENHANCE the existing architecture by adding: %s", state.UserQuery),
			fmt.Sprintf("User expertise level: %s", expertiseLevel),
			"",
			"EXISTING ARCHITECTURE TO ENHANCE:",
			fmt.Sprintf("Current Components: %d", len(existingComponents)),
			fmt.Sprintf("Current Types: %s", strings.Join(componentTypes(existing), ", ")),
			"",
			"EXISTING COMPONENTS:",
		}

		listed := existingComponents
		if len(listed) > maxExistingComponentsListed {
			listed = listed[:maxExistingComponentsListed]
		}
		for _, entry := range listed {
			comp, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			name := getString(comp, "name")
			if name == "" {
				name = "Unknown"
			}
			componentType := getString(comp, "type")
			if componentType == "" {
				componentType = "unknown"
			}
			promptParts = append(promptParts, fmt.Sprintf("- %s (%s)", name, componentType))
		}
		if len(existingComponents) > maxExistingComponentsListed {
			promptParts = append(promptParts, fmt.Sprintf("... and %d more components", len(existingComponents)-maxExistingComponentsListed))
		}

		promptParts = append(promptParts,
			"",
			"ENHANCEMENT REQUIREMENTS:",
			"- PRESERVE all existing components and their relationships",
			"- ADD new components to fulfill the new requirements",
			"- EXTEND existing components if they can be enhanced",
			"- MAINTAIN architectural consistency and patterns",
			"- INTEGRATE new functionality seamlessly with existing system",
			"",
			"INTELLIGENT SYSTEM ANALYSIS FOR ENHANCEMENT:",
		)
	} else {
		promptParts = []string{
			fmt.Sprintf("Design a comprehensive, production-ready architecture for: %s", state.UserQuery),
			fmt.Sprintf("User expertise level: %s", expertiseLevel),
			"",
			"INTELLIGENT SYSTEM ANALYSIS:",
		}
	}

	promptParts = append(promptParts,
		fmt.Sprintf("Complexity Level: %s", getStringDefault(complexityAnalysis, "complexity_level", "moderate")),
		fmt.Sprintf("Criticality Level: %s", getStringDefault(complexityAnalysis, "criticality_level", "important")),
		fmt.Sprintf("Performance Requirements: %s", getStringDefault(complexityAnalysis, "performance_requirements", "optimized")),
		fmt.Sprintf("Scale Requirements: %s", getStringDefault(complexityAnalysis, "scale_requirements", "medium")),
		fmt.Sprintf("Domain Type: %s", getStringDefault(complexityAnalysis, "domain_type", "web_app")),
		fmt.Sprintf("Suggested Component Count: %s", getStringDefault(complexityAnalysis, "required_components_count", "6-10")),
		fmt.Sprintf("Infrastructure Needs: %s", strings.Join(stringsOrDefault(complexityAnalysis, "infrastructure_needs", []string{"basic"}), ", ")),
		fmt.Sprintf("Analysis Reasoning: %s", getStringDefault(complexityAnalysis, "reasoning", "Standard system requirements")),
		"",
	)

	complexityLevel := getStringDefault(complexityAnalysis, "complexity_level", "moderate")
	if complexityLevel == "high" || complexityLevel == "enterprise" {
		promptParts = append(promptParts,
			"HIGH COMPLEXITY ARCHITECTURE REQUIREMENTS:",
			"- Include comprehensive infrastructure components (load balancers, caches, monitoring)",
			"- Design for horizontal scaling and distributed architecture",
			"- Implement proper service mesh and API gateway patterns",
			"- Add observability stack (metrics, logging, tracing)",
			"- Include security layers and authentication services",
			"",
		)
	}

	criticalityLevel := getStringDefault(complexityAnalysis, "criticality_level", "important")
	if criticalityLevel == "critical" || criticalityLevel == "mission_critical" {
		promptParts = append(promptParts,
			"MISSION-CRITICAL SYSTEM REQUIREMENTS:",
			"- Implement circuit breakers and fallback mechanisms",
			"- Design for high availability and disaster recovery",
			"- Add comprehensive monitoring, alerting, and health checks",
			"- Include audit logging and compliance considerations",
			"- Plan for zero-downtime deployments and auto-recovery",
			"",
		)
	}

	performanceReq := getStringDefault(complexityAnalysis, "performance_requirements", "optimized")
	if performanceReq == "high_performance" || performanceReq == "ultra_high_performance" {
		promptParts = append(promptParts,
			"HIGH PERFORMANCE REQUIREMENTS:",
			"- Include multiple caching layers (in-memory, distributed, CDN)",
			"- Design for minimal latency with edge computing considerations",
			"- Implement async processing and event-driven patterns",
			"- Add performance monitoring and real-time optimization",
			"",
		)
	}

	promptParts = append(promptParts,
		"ARCHITECTURE COMPONENT GUIDANCE:",
		fmt.Sprintf("- Target component count: %s", getStringDefault(complexityAnalysis, "required_components_count", "6-10")),
		fmt.Sprintf("- Include infrastructure needs: %s", strings.Join(stringsOrDefault(complexityAnalysis, "infrastructure_needs", []string{"load_balancing", "caching"}), ", ")),
		fmt.Sprintf("- Apply patterns: %s", strings.Join(stringsOrDefault(complexityAnalysis, "architecture_patterns_suggested", []string{"layered"}), ", ")),
		"",
		"REQUIREMENTS ANALYSIS:",
	)

	requirements := state.RequirementsAnalysis
	if functionalReqs := toStringSlice(getSlice(requirements, "functional_requirements")); len(functionalReqs) > 0 {
		promptParts = append(promptParts, "Functional Requirements:")
		for _, req := range functionalReqs {
			promptParts = append(promptParts, fmt.Sprintf("- %s", req))
		}
	}
	if nonFunctionalReqs := toStringSlice(getSlice(requirements, "non_functional_requirements")); len(nonFunctionalReqs) > 0 {
		promptParts = append(promptParts, "Non-Functional Requirements:")
		for _, req := range nonFunctionalReqs {
			promptParts = append(promptParts, fmt.Sprintf("- %s", req))
		}
	}
	if businessReqs := toStringSlice(getSlice(requirements, "business_requirements")); len(businessReqs) > 0 {
		promptParts = append(promptParts, "Business Requirements:")
		for _, req := range businessReqs {
			promptParts = append(promptParts, fmt.Sprintf("- %s", req))
		}
	}

	if len(state.ResearchData) > 0 {
		promptParts = append(promptParts, "\nRESEARCH INSIGHTS:")

		if patterns := getSlice(state.ResearchData, "architecture_patterns"); len(patterns) > 0 {
			promptParts = append(promptParts, "Recommended Architecture Patterns:")
			if len(patterns) > 3 {
				patterns = patterns[:3]
			}
			for _, entry := range patterns {
				if pattern, ok := entry.(map[string]any); ok {
					promptParts = append(promptParts, fmt.Sprintf("- %s: %s", getString(pattern, "name"), getString(pattern, "description")))
				}
			}
		}

		if techRecs := getSlice(state.ResearchData, "technology_recommendations"); len(techRecs) > 0 {
			promptParts = append(promptParts, "Technology Recommendations:")
			if len(techRecs) > 5 {
				techRecs = techRecs[:5]
			}
			for _, entry := range techRecs {
				if tech, ok := entry.(map[string]any); ok {
					promptParts = append(promptParts, fmt.Sprintf("- %s: %s - %s",
						getString(tech, "category"), getString(tech, "technology"), getString(tech, "rationale")))
				}
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
			fmt.Sprintf("Timeline: %s", orNotSpecified(bc.Timeline)),
		)
	}

	promptParts = append(promptParts,
		"",
		"Please design a comprehensive architecture that:",
		"1. Addresses all functional and non-functional requirements",
		"2. Incorporates research insights and best practices",
		"3. Is appropriate for the user's expertise level",
		"4. Considers business constraints and context",
		"5. Provides clear implementation guidance",
		"",
		"CRITICAL CONNECTION REQUIREMENTS:",
		"- EVERY component MUST be connected to at least one other component",
		"- Frontend components MUST connect through API Gateway/Load Balancer",
		"- Services MUST connect to databases they use",
		"- All components MUST have realistic, complete data flow connections",
		"- NO isolated/disconnected components are acceptable",
		"- Create connections between related services (e.g., auth service and user data)",
		"",
		"ENHANCEMENT FEATURES GUIDANCE:",
		"- Multi-tenant: Add tenant service, tenant database, tenant middleware",
		"- Scheduling: Add scheduler service, job queue, notification service",
		"- SEO: Add SEO service, content optimization, sitemap generation",
		"- Email: Add email service, template engine, delivery tracking",
		"",
		"Include detailed component design, data architecture, security considerations, and deployment strategy.",
	)

	return strings.Join(promptParts, "\n")
}

func (agent *ArchitectureAgent) parseDesign(response string, existing map[string]any) map[string]any {
	design, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse architecture response")
		if len(getSlice(existing, "components")) > 0 {
			agent.logger.Info("Returning existing architecture due to parsing failure")
			return existing
		}
		return fallbackArchitecture()
	}

	agent.validateDesign(design, existing)
	return design
}

func (agent *ArchitectureAgent) validateDesign(design, existing map[string]any) {
	setDefault(design, "architecture_overview", map[string]any{})
	setDefault(design, "components", []any{})
	setDefault(design, "connections", []any{})
	setDefault(design, "system_overview", map[string]any{})
	setDefault(design, "data_architecture", map[string]any{})
	setDefault(design, "security_architecture", map[string]any{})
	setDefault(design, "deployment_architecture", map[string]any{})
	setDefault(design, "scalability_strategy", map[string]any{})
	setDefault(design, "monitoring_observability", map[string]any{})
	setDefault(design, "technology_stack", map[string]any{})
	setDefault(design, "implementation_phases", []any{})
	setDefault(design, "risks_mitigations", []any{})
	setDefault(design, "confidence_score", 0.85)

	if len(getSlice(design, "components")) == 0 {
		agent.logger.Warn("No components found in architecture design, using fallback")
		source := existing
		if len(getSlice(source, "components")) == 0 {
			source = fallbackArchitecture()
		}
		design["components"] = source["components"]
		design["connections"] = source["connections"]
	}

	for _, entry := range getSlice(design, "components") {
		component, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, exists := component["visualization_metadata"]; !exists {
			component["visualization_metadata"] = map[string]any{
				"layer_assignments": map[string]any{
					"system_overview": "core_system",
					"deployment":      "application",
				},
				"business_criticality": "medium",
				"visual_importance":    5,
				"icon_category":        "backend",
				"technology_badges":    []any{},
				"health_indicators": map[string]any{
					"monitoring_required":  true,
					"performance_critical": false,
					"availability_target":  "99%",
				},
			}
		}
	}

	for _, entry := range getSlice(design, "connections") {
		connection, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, exists := connection["visualization_metadata"]; !exists {
			connection["visualization_metadata"] = map[string]any{
				"protocol_display":    "HTTP/REST",
				"traffic_volume":      "medium",
				"latency_requirement": "near_real_time",
				"security_level":      "medium",
				"dependency_strength": "important",
				"line_style":          "solid",
				"animation_type":      "unidirectional",
			}
		}
	}
}

func getStringDefault(m map[string]any, key, fallback string) string {
	if value := getString(m, key); value != "" {
		return value
	}
	return fallback
}

func stringsOrDefault(m map[string]any, key string, fallback []string) []string {
	if values := toStringSlice(getSlice(m, key)); len(values) > 0 {
		return values
	}
	return fallback
}
