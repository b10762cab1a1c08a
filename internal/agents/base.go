package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
	"architect-ai-pipeline/internal/services"
)

// Completer is the slice of the Gemini service the agents need.
type Completer interface {
	GenerateContent(ctx context.Context, req *services.GenerationRequest) (*services.GenerationResponse, error)
}

// Searcher is implemented by the Tavily service.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]services.SearchResult, error)
}

// PageFetcher is implemented by the fetcher service.
type PageFetcher interface {
	FetchPages(ctx context.Context, targets []string) []*services.PageContent
}

// Agent is one workflow step. Execute reads the accumulated state and
// returns this step's output slot.
type Agent interface {
	Name() string
	Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error)
}

type baseAgent struct {
	name   string
	model  Completer
	logger *logger.Logger
}

func newBaseAgent(name string, model Completer, log *logger.Logger) baseAgent {
	return baseAgent{name: name, model: model, logger: log}
}

func (agent *baseAgent) Name() string {
	return agent.name
}

var expertiseAdaptations = map[models.ExpertiseLevel]string{
	models.ExpertiseBeginner:     "Provide detailed explanations with basic concepts and avoid jargon.",
	models.ExpertiseIntermediate: "Provide clear explanations with some technical detail.",
	models.ExpertiseAdvanced:     "Focus on technical depth and advanced concepts.",
	models.ExpertiseExpert:       "Provide concise, highly technical analysis.",
}

// adaptSystemPrompt appends the expertise and role guidance to the agent's
// base system prompt.
func adaptSystemPrompt(basePrompt string, profile models.UserProfile) string {
	adaptation := expertiseAdaptations[profile.ExpertiseLevel]

	businessAdaptation := ""
	if profile.BusinessRole != "" {
		businessAdaptation = fmt.Sprintf("Consider the perspective of a %s.", profile.BusinessRole)
	}

	return strings.TrimSpace(fmt.Sprintf("%s\n\nUser Adaptation: %s %s", basePrompt, adaptation, businessAdaptation))
}

const maxHistoryMessages = 6
const maxHistoryContentLength = 300

// buildContextPrompt assembles the full context block that precedes every
// agent task prompt: query, profile, recent history, and the outputs of the
// steps that already ran.
func buildContextPrompt(prompt string, state *models.WorkflowState) string {
	contextParts := []string{
		fmt.Sprintf("User Query: %s", state.UserQuery),
		fmt.Sprintf("User Expertise: %s", state.UserProfile.ExpertiseLevel),
	}

	if state.UserProfile.BusinessRole != "" {
		contextParts = append(contextParts, fmt.Sprintf("Business Role: %s", state.UserProfile.BusinessRole))
	}

	if state.BusinessContext != nil {
		contextParts = append(contextParts, fmt.Sprintf("Business Context: %+v", *state.BusinessContext))
	}

	if len(state.ConversationHistory) > 0 {
		contextParts = append(contextParts, "\nPREVIOUS CONVERSATION CONTEXT:")

		recent := state.ConversationHistory
		if len(recent) > maxHistoryMessages {
			recent = recent[len(recent)-maxHistoryMessages:]
		}

		for _, msg := range recent {
			role := msg.Role
			if role == "" {
				role = "unknown"
			}

			content := msg.Content
			if runes := []rune(content); len(runes) > maxHistoryContentLength {
				content = string(runes[:maxHistoryContentLength]) + "..."
			}

			if msg.MessageType == models.MessageTypeArchitectureUpdate {
				contextParts = append(contextParts, fmt.Sprintf("- %s: [ARCHITECTURE UPDATE] %s", role, content))
			} else {
				contextParts = append(contextParts, fmt.Sprintf("- %s: %s", role, content))
			}
		}

		contextParts = append(contextParts, "NOTE: Build upon and enhance previous architectural decisions rather than replacing them completely.")
	}

	if len(state.RequirementsAnalysis) > 0 {
		contextParts = append(contextParts, fmt.Sprintf("Requirements: %v", state.RequirementsAnalysis))
	}

	if len(state.ResearchData) > 0 {
		contextParts = append(contextParts, fmt.Sprintf("Research: %v", state.ResearchData))
	}

	if len(state.ArchitectureDesign) > 0 {
		contextParts = append(contextParts, fmt.Sprintf("EXISTING ARCHITECTURE: %v", state.ArchitectureDesign))
		contextParts = append(contextParts, "IMPORTANT: Enhance and extend the existing architecture, don't create a completely new one.")
	}

	context := strings.Join(contextParts, "\n")
	return fmt.Sprintf("%s\n\nCurrent Task: %s", context, prompt)
}

// queryRaw runs one completion without injecting conversation context. Used
// for auxiliary calls whose prompts carry their own context.
func (agent *baseAgent) queryRaw(ctx context.Context, prompt, systemPrompt string, state *models.WorkflowState) (string, error) {
	startTime := time.Now()

	response, err := agent.model.GenerateContent(ctx, &services.GenerationRequest{
		Prompt:     prompt,
		SystemRole: systemPrompt,
	})

	elapsed := time.Since(startTime)

	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
			"agent":           agent.name,
			"failed_after_ms": elapsed.Milliseconds(),
		}).Error("LLM request failed")
		return "", err
	}

	state.ProcessingStats.APICallsCount++
	state.ProcessingStats.TokensUsed += response.TokensUsed

	agent.logger.LogAgent(state.ConversationID, agent.name, "llm_request", elapsed, map[string]interface{}{
		"response_length": len(response.Content),
		"tokens_used":     response.TokensUsed,
	}, nil)

	return response.Content, nil
}

// queryModel runs one completion with full conversation context. Errors are
// logged with elapsed time and returned untouched so the workflow aborts.
func (agent *baseAgent) queryModel(ctx context.Context, prompt string, state *models.WorkflowState, systemPrompt string) (string, error) {
	startTime := time.Now()

	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
		"agent":           agent.name,
		"prompt_length":   len(prompt),
	}).Info("LLM request start")

	contextPrompt := buildContextPrompt(prompt, state)

	response, err := agent.model.GenerateContent(ctx, &services.GenerationRequest{
		Prompt:     contextPrompt,
		SystemRole: adaptSystemPrompt(systemPrompt, state.UserProfile),
	})

	elapsed := time.Since(startTime)

	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
			"agent":           agent.name,
			"failed_after_ms": elapsed.Milliseconds(),
		}).Error("LLM request failed")
		return "", err
	}

	state.ProcessingStats.APICallsCount++
	state.ProcessingStats.TokensUsed += response.TokensUsed

	agent.logger.LogAgent(state.ConversationID, agent.name, "llm_request", elapsed, map[string]interface{}{
		"response_length": len(response.Content),
		"tokens_used":     response.TokensUsed,
	}, nil)

	return response.Content, nil
}
