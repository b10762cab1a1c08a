package agents

import (
	"context"
	"fmt"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// ResearchAgent gathers architecture patterns, technology recommendations,
// and external sources relevant to the query.
type ResearchAgent struct {
	baseAgent
	search  Searcher
	fetcher PageFetcher
}

func NewResearchAgent(model Completer, search Searcher, fetcher PageFetcher, log *logger.Logger) *ResearchAgent {
	return &ResearchAgent{
		baseAgent: newBaseAgent(models.StepResearch, model, log),
		search:    search,
		fetcher:   fetcher,
	}
}

const maxSearchQueries = 3
const maxResultsPerQuery = 2
const maxPagesToFetch = 3

const researchSystemPrompt = `You are the Research Agent for the Agentic Architect platform. Your role is to gather comprehensive information about architecture patterns, technologies, and best practices relevant to the user's requirements.

RESEARCH OBJECTIVES:
1. Identify relevant architecture patterns and design principles
2. Research appropriate technologies and frameworks
3. Find industry best practices and case studies
4. Gather performance and scalability insights
5. Identify potential challenges and solutions

RESEARCH METHODOLOGY:
- Analyze requirements to determine research focus areas
- Identify key architecture patterns (microservices, serverless, monolithic, etc.)
- Research technology stacks and their trade-offs
- Find relevant case studies and implementation examples
- Gather performance benchmarks and scalability data

OUTPUT FORMAT:
Return a JSON object with:
{
  "architecture_patterns": [
    {
      "name": "pattern_name",
      "description": "detailed_description",
      "use_cases": ["use_case_1", "use_case_2"],
      "pros": ["advantage_1", "advantage_2"],
      "cons": ["limitation_1", "limitation_2"],
      "complexity": "low|medium|high"
    }
  ],
  "technology_recommendations": [
    {
      "category": "database|backend|frontend|infrastructure",
      "technology": "technology_name",
      "rationale": "why_recommended",
      "alternatives": ["alt_1", "alt_2"],
      "maturity": "experimental|stable|mature"
    }
  ],
  "best_practices": [
    {
      "area": "security|performance|scalability|maintainability",
      "practice": "best_practice_description",
      "implementation": "how_to_implement"
    }
  ],
  "case_studies": [
    {
      "company": "company_name",
      "scenario": "similar_use_case",
      "solution": "architecture_approach",
      "outcomes": "results_achieved"
    }
  ],
  "search_queries": ["query_1", "query_2"],
  "confidence_score": 0.0-1.0
}

Focus on practical, actionable insights that will help in architecture design decisions.`

func (agent *ResearchAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Conducting research")

	response, err := agent.queryModel(ctx, agent.buildPrompt(state), state, researchSystemPrompt)
	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
		}).Error("Research failed")
		return agent.fallbackResearch(), nil
	}

	researchData := agent.parseResearch(response)
	agent.enrichWithSources(ctx, state, researchData)

	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
		"patterns_found":  len(getSlice(researchData, "architecture_patterns")),
	}).Info("Research completed")

	return researchData, nil
}

// enrichWithSources runs the model-suggested search queries through Tavily
// and attaches the top hits, with fetched page excerpts for the first few.
// Search and fetch failures degrade to model knowledge only.
func (agent *ResearchAgent) enrichWithSources(ctx context.Context, state *models.WorkflowState, researchData map[string]any) {
	queries := toStringSlice(getSlice(researchData, "search_queries"))
	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}
	if len(queries) == 0 || agent.search == nil {
		return
	}

	var externalSources []any
	var sourceURLs []string
	for _, query := range queries {
		results, err := agent.search.Search(ctx, query, maxResultsPerQuery)
		if err != nil {
			agent.logger.WithError(err).WithFields(logger.Fields{
				"conversation_id": state.ConversationID,
				"query":           query,
			}).Warn("Search failed, continuing with model knowledge")
			continue
		}
		state.ProcessingStats.SearchesCount++

		if len(results) > maxResultsPerQuery {
			results = results[:maxResultsPerQuery]
		}
		for _, result := range results {
			externalSources = append(externalSources, map[string]any{
				"title":   result.Title,
				"url":     result.URL,
				"content": result.Content,
				"score":   result.Score,
			})
			sourceURLs = append(sourceURLs, result.URL)
		}
	}

	if len(externalSources) > 0 {
		researchData["external_sources"] = externalSources
	}

	if agent.fetcher == nil || len(sourceURLs) == 0 {
		return
	}
	if len(sourceURLs) > maxPagesToFetch {
		sourceURLs = sourceURLs[:maxPagesToFetch]
	}

	var excerpts []any
	for _, page := range agent.fetcher.FetchPages(ctx, sourceURLs) {
		if page == nil || !page.Success || page.Text == "" {
			continue
		}
		excerpts = append(excerpts, map[string]any{
			"url":     page.URL,
			"title":   page.Title,
			"excerpt": page.Text,
		})
	}
	if len(excerpts) > 0 {
		researchData["source_excerpts"] = excerpts
	}
}

func (agent *ResearchAgent) buildPrompt(state *models.WorkflowState) string {
	expertiseLevel := string(state.UserProfile.ExpertiseLevel)
	if expertiseLevel == "" {
		expertiseLevel = "intermediate"
	}

	promptParts := []string{
		fmt.Sprintf("Research architecture solutions for: %s", state.UserQuery),
		fmt.Sprintf("User expertise level: %s", expertiseLevel),
		"",
		"REQUIREMENTS CONTEXT:",
	}

	if functionalReqs := toStringSlice(getSlice(state.RequirementsAnalysis, "functional_requirements")); len(functionalReqs) > 0 {
		promptParts = append(promptParts, "Functional Requirements:")
		if len(functionalReqs) > 5 {
			functionalReqs = functionalReqs[:5]
		}
		for _, req := range functionalReqs {
			promptParts = append(promptParts, fmt.Sprintf("- %s", req))
		}
	}

	if nonFunctionalReqs := toStringSlice(getSlice(state.RequirementsAnalysis, "non_functional_requirements")); len(nonFunctionalReqs) > 0 {
		promptParts = append(promptParts, "Non-Functional Requirements:")
		if len(nonFunctionalReqs) > 5 {
			nonFunctionalReqs = nonFunctionalReqs[:5]
		}
		for _, req := range nonFunctionalReqs {
			promptParts = append(promptParts, fmt.Sprintf("- %s", req))
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
		"Please provide comprehensive research covering architecture patterns, technology recommendations, best practices, and relevant case studies.",
		"Focus on solutions that match the expertise level and business context.",
	)

	return strings.Join(promptParts, "\n")
}

func orNotSpecified(value string) string {
	if value == "" {
		return "Not specified"
	}
	return value
}

func (agent *ResearchAgent) parseResearch(response string) map[string]any {
	researchData, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse research response")
		return agent.fallbackResearch()
	}

	setDefault(researchData, "architecture_patterns", []any{})
	setDefault(researchData, "technology_recommendations", []any{})
	setDefault(researchData, "best_practices", []any{})
	setDefault(researchData, "case_studies", []any{})
	setDefault(researchData, "search_queries", []any{})
	setDefault(researchData, "confidence_score", 0.8)

	return researchData
}

func (agent *ResearchAgent) fallbackResearch() map[string]any {
	return map[string]any{
		"architecture_patterns": []any{
			map[string]any{
				"name":        "Microservices Architecture",
				"description": "Distributed architecture pattern with loosely coupled services",
				"use_cases":   []any{"Large scale applications", "Team autonomy", "Technology diversity"},
				"pros":        []any{"Scalability", "Technology flexibility", "Team independence"},
				"cons":        []any{"Complexity", "Network overhead", "Data consistency challenges"},
				"complexity":  "high",
			},
			map[string]any{
				"name":        "Layered Architecture",
				"description": "Traditional n-tier architecture with clear separation of concerns",
				"use_cases":   []any{"Enterprise applications", "Well-defined domains", "Team familiarity"},
				"pros":        []any{"Simplicity", "Clear structure", "Easy to understand"},
				"cons":        []any{"Tight coupling", "Performance overhead", "Limited scalability"},
				"complexity":  "low",
			},
		},
		"technology_recommendations": []any{
			map[string]any{
				"category":     "backend",
				"technology":   "Node.js with Express",
				"rationale":    "Fast development, JavaScript ecosystem, good performance",
				"alternatives": []any{"Python Django", "Java Spring Boot"},
				"maturity":     "mature",
			},
			map[string]any{
				"category":     "database",
				"technology":   "PostgreSQL",
				"rationale":    "ACID compliance, rich feature set, excellent performance",
				"alternatives": []any{"MySQL", "MongoDB"},
				"maturity":     "mature",
			},
		},
		"best_practices": []any{
			map[string]any{
				"area":           "security",
				"practice":       "Implement authentication and authorization at all layers",
				"implementation": "Use JWT tokens, role-based access control, input validation",
			},
			map[string]any{
				"area":           "performance",
				"practice":       "Implement caching strategies",
				"implementation": "Redis for session storage, CDN for static assets, database query optimization",
			},
		},
		"case_studies": []any{
			map[string]any{
				"company":  "Netflix",
				"scenario": "Large-scale video streaming platform",
				"solution": "Microservices with event-driven architecture",
				"outcomes": "Massive scale, high availability, rapid feature development",
			},
		},
		"search_queries": []any{
			"microservices architecture best practices",
			"scalable web application design patterns",
		},
		"confidence_score": 0.7,
	}
}
