package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"architect-ai-pipeline/internal/agents"
	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
	"architect-ai-pipeline/internal/services"
)

type Orchestrator struct {
	redisService   *services.RedisService
	geminiService  *services.GeminiService
	tavilyService  *services.TavilyService
	fetcherService *services.FetcherService

	agents map[string]agents.Agent

	config config.Config
	logger *logger.Logger

	activeWorkflows sync.Map // workflow_id -> *models.WorkflowState

	startTime time.Time
}

// ProgressPublisher receives per-step progress events.
// *services.RedisService implements it.
type ProgressPublisher interface {
	PublishAgentUpdate(ctx context.Context, conversationID string, update *models.AgentUpdate) error
}

type WorkflowExecutor struct {
	agents      map[string]agents.Agent
	progress    ProgressPublisher
	state       *models.WorkflowState
	stepTimeout time.Duration
	logger      *logger.Logger
}

var stepDescriptions = map[string]string{
	models.StepOrchestrator:   "Analyzing query and creating orchestration plan",
	models.StepRequirements:   "Analyzing and clarifying architectural requirements",
	models.StepResearch:       "Gathering current market and technical intelligence",
	models.StepArchitecture:   "Designing technical solutions and patterns",
	models.StepWhyReasoning:   "Providing comprehensive decision explanations",
	models.StepBusinessImpact: "Analyzing ROI, risks, and business implications",
	models.StepEducational:    "Creating adaptive learning content",
	models.StepDocumentation:  "Generating professional documentation",
}

func NewOrchestrator(
	redisService *services.RedisService,
	geminiService *services.GeminiService,
	tavilyService *services.TavilyService,
	fetcherService *services.FetcherService,
	cfg config.Config,
	log *logger.Logger) *Orchestrator {

	orchestrator := &Orchestrator{
		redisService:   redisService,
		geminiService:  geminiService,
		tavilyService:  tavilyService,
		fetcherService: fetcherService,
		agents: map[string]agents.Agent{
			models.StepOrchestrator:   agents.NewPlannerAgent(geminiService, log),
			models.StepRequirements:   agents.NewRequirementsAgent(geminiService, log),
			models.StepResearch:       agents.NewResearchAgent(geminiService, tavilyService, fetcherService, log),
			models.StepArchitecture:   agents.NewArchitectureAgent(geminiService, log),
			models.StepWhyReasoning:   agents.NewWhyReasoningAgent(geminiService, log),
			models.StepBusinessImpact: agents.NewBusinessImpactAgent(geminiService, log),
			models.StepEducational:    agents.NewEducationalAgent(geminiService, log),
			models.StepDocumentation:  agents.NewDocumentationAgent(geminiService, log),
		},
		config:          cfg,
		logger:          log,
		activeWorkflows: sync.Map{},
		startTime:       time.Now(),
	}

	log.Info("Workflow orchestrator initialized",
		"agents_configured", len(orchestrator.agents),
		"workflow_type", "SEQUENTIAL",
		"step_timeout", cfg.Workflow.StepTimeout.String())

	return orchestrator
}

func (orchestrator *Orchestrator) ExecuteWorkflow(ctx context.Context, req *models.ProcessConversationRequest) (*models.WorkflowResult, error) {
	startTime := time.Now()

	requestID := models.GenerateRequestID()
	state := models.NewWorkflowState(req, requestID)

	if err := state.Validate(); err != nil {
		return nil, err
	}

	if max := orchestrator.config.Workflow.MaxActive; max > 0 && orchestrator.GetActiveWorkflowsCount() >= max {
		return nil, models.NewExternalError("TOO_MANY_WORKFLOWS",
			fmt.Sprintf("maximum of %d concurrent workflows reached", max))
	}

	orchestrator.logger.LogWorkflow(state.ID, state.ConversationID, "workflow_started", 0, nil)

	orchestrator.activeWorkflows.Store(state.ID, state)
	defer orchestrator.activeWorkflows.Delete(state.ID)

	state.MarkProcessing()

	if err := orchestrator.redisService.StoreWorkflowState(ctx, state); err != nil {
		orchestrator.logger.WithError(err).Error("Failed to store initial workflow state")
	}

	if err := orchestrator.publishWorkflowUpdate(ctx, state, models.UpdateTypeWorkflowStarted, "Workflow started"); err != nil {
		orchestrator.logger.WithError(err).Error("Failed to publish workflow start update")
	}

	executor := &WorkflowExecutor{
		agents:      orchestrator.agents,
		progress:    orchestrator.redisService,
		state:       state,
		stepTimeout: orchestrator.config.Workflow.StepTimeout,
		logger:      orchestrator.logger,
	}

	if err := executor.run(ctx); err != nil {
		event := "workflow_failed"
		if state.IsCancelled() {
			event = "workflow_cancelled"
		} else {
			state.MarkFailed()
		}
		orchestrator.logger.LogWorkflow(state.ID, state.ConversationID, event, time.Since(startTime), err)

		if storeErr := orchestrator.redisService.StoreWorkflowState(ctx, state); storeErr != nil {
			orchestrator.logger.WithError(storeErr).Error("Failed to store failed workflow state")
		}

		if pubErr := orchestrator.publishWorkflowUpdate(ctx, state, models.UpdateTypeWorkflowError,
			fmt.Sprintf("Workflow failed: %s", err.Error())); pubErr != nil {
			orchestrator.logger.WithError(pubErr).Error("Failed to publish workflow error update")
		}

		return nil, err
	}

	if state.IsCancelled() {
		orchestrator.logger.LogWorkflow(state.ID, state.ConversationID, "workflow_cancelled", time.Since(startTime), nil)

		if err := orchestrator.redisService.StoreWorkflowState(ctx, state); err != nil {
			orchestrator.logger.WithError(err).Error("Failed to store cancelled workflow state")
		}

		return nil, models.ErrWorkflowCancelled.WithMetadata("workflow_id", state.ID)
	}

	state.MarkCompleted()
	orchestrator.logger.LogWorkflow(state.ID, state.ConversationID, "workflow_completed", time.Since(startTime), nil)

	if err := orchestrator.redisService.StoreWorkflowState(ctx, state); err != nil {
		orchestrator.logger.WithError(err).Error("Failed to store final workflow state")
	}

	if err := orchestrator.publishWorkflowUpdate(ctx, state, models.UpdateTypeWorkflowCompleted, "Workflow completed successfully"); err != nil {
		orchestrator.logger.WithError(err).Error("Failed to publish workflow completed update")
	}

	result := compileResult(state)

	if err := orchestrator.redisService.StoreWorkflowResult(ctx, state.ConversationID, result); err != nil {
		orchestrator.logger.WithError(err).Error("Failed to store workflow result")
	}

	return result, nil
}

func (executor *WorkflowExecutor) run(ctx context.Context) error {
	steps := models.SequentialSteps()

	for i, step := range steps {
		if executor.state.IsCancelled() {
			return models.ErrWorkflowCancelled.WithMetadata("workflow_id", executor.state.ID)
		}

		next := models.StepCompleted
		if i+1 < len(steps) {
			next = steps[i+1]
		}

		if err := executor.executeStep(ctx, step, next); err != nil {
			executor.logger.WithError(err).WithFields(logger.Fields{
				"conversation_id": executor.state.ConversationID,
				"workflow_id":     executor.state.ID,
				"current_step":    executor.state.CurrentStep,
				"completed_steps": executor.state.CompletedSteps,
				"elapsed":         executor.state.GetDuration().String(),
			}).Error("Workflow execution failed")
			return fmt.Errorf("%s step failed: %w", step, err)
		}
	}

	return nil
}

func (executor *WorkflowExecutor) executeStep(ctx context.Context, step, next string) error {
	startTime := time.Now()

	agent, exists := executor.agents[step]
	if !exists {
		return models.NewInternalError("UNKNOWN_STEP", fmt.Sprintf("no agent registered for step %s", step))
	}

	if err := executor.publishAgentUpdate(ctx, step, models.AgentStatusProcessing, stepDescriptions[step]); err != nil {
		executor.logger.WithError(err).Error("Failed to publish agent start update")
	}

	stepCtx := ctx
	if timeout := executor.stepTimeout; timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	output, err := agent.Execute(stepCtx, executor.state)
	if err != nil {
		executor.state.UpdateAgentStats(step, models.AgentStats{
			Name:      step,
			Duration:  time.Since(startTime),
			Status:    string(models.AgentStatusFailed),
			StartTime: startTime,
			EndTime:   time.Now(),
		})

		update := executor.buildAgentUpdate(step, models.AgentStatusFailed, fmt.Sprintf("%s agent failed", step))
		update.Error = err.Error()
		update.ProcessingTime = time.Since(startTime)
		if pubErr := executor.progress.PublishAgentUpdate(ctx, executor.state.ConversationID, update); pubErr != nil {
			executor.logger.WithError(pubErr).Error("Failed to publish agent failure update")
		}

		return err
	}

	executor.assignOutput(step, output)
	executor.state.CompleteStep(step, next)

	executor.state.UpdateAgentStats(step, models.AgentStats{
		Name:      step,
		Duration:  time.Since(startTime),
		Status:    string(models.AgentStatusCompleted),
		StartTime: startTime,
		EndTime:   time.Now(),
	})

	if err := executor.publishAgentUpdate(ctx, step, models.AgentStatusCompleted, executor.completionMessage(step)); err != nil {
		executor.logger.WithError(err).Error("Failed to publish agent completion update")
	}

	executor.logger.LogAgent(executor.state.ConversationID, step, "step_completed", time.Since(startTime), map[string]interface{}{
		"workflow_id":  executor.state.ID,
		"current_step": executor.state.CurrentStep,
	}, nil)

	return nil
}

func (executor *WorkflowExecutor) assignOutput(step string, output map[string]any) {
	switch step {
	case models.StepOrchestrator:
		executor.state.OrchestratorPlan = output
	case models.StepRequirements:
		executor.state.RequirementsAnalysis = output
	case models.StepResearch:
		executor.state.ResearchData = output
	case models.StepArchitecture:
		executor.state.ArchitectureDesign = output
	case models.StepWhyReasoning:
		executor.state.WhyReasoning = output
	case models.StepBusinessImpact:
		executor.state.BusinessImpact = output
	case models.StepEducational:
		executor.state.EducationalContent = output
	case models.StepDocumentation:
		executor.state.Documentation = output
	}
}

func (executor *WorkflowExecutor) completionMessage(step string) string {
	state := executor.state

	switch step {
	case models.StepOrchestrator:
		return fmt.Sprintf("Planned %v workflow with %d agents",
			state.OrchestratorPlan["workflow_type"], len(sliceValue(state.OrchestratorPlan, "agents_required")))
	case models.StepRequirements:
		return fmt.Sprintf("Captured %d functional and %d non-functional requirements",
			len(sliceValue(state.RequirementsAnalysis, "functional_requirements")),
			len(sliceValue(state.RequirementsAnalysis, "non_functional_requirements")))
	case models.StepResearch:
		return fmt.Sprintf("Found %d architectural patterns and %d technology recommendations",
			len(sliceValue(state.ResearchData, "architectural_patterns")),
			len(sliceValue(state.ResearchData, "technology_recommendations")))
	case models.StepArchitecture:
		return fmt.Sprintf("Designed %d components with %d connections",
			len(sliceValue(state.ArchitectureDesign, "components")),
			len(sliceValue(state.ArchitectureDesign, "connections")))
	case models.StepWhyReasoning:
		return fmt.Sprintf("Explained %d architectural decisions",
			len(sliceValue(state.WhyReasoning, "architectural_decisions")))
	case models.StepBusinessImpact:
		summary := mapValue(state.BusinessImpact, "executive_summary")
		return fmt.Sprintf("Business recommendation: %s", stringOr(summary, "recommendation", "proceed"))
	case models.StepEducational:
		return fmt.Sprintf("Prepared %d key concepts adapted to %s level",
			len(sliceValue(state.EducationalContent, "key_concepts")), state.UserProfile.ExpertiseLevel)
	case models.StepDocumentation:
		return fmt.Sprintf("Generated %d documentation sections",
			len(sliceValue(state.Documentation, "sections")))
	default:
		return fmt.Sprintf("%s step completed", step)
	}
}

func calculateStepProgress(step string, status models.AgentStatus) float64 {
	steps := models.SequentialSteps()

	stepIndex := -1
	for i, name := range steps {
		if name == step {
			stepIndex = i
			break
		}
	}

	if stepIndex == -1 {
		return 0.0
	}

	totalSteps := float64(len(steps))
	baseProgress := float64(stepIndex) / totalSteps

	switch status {
	case models.AgentStatusProcessing:
		return baseProgress + (0.5 / totalSteps)
	case models.AgentStatusCompleted:
		return float64(stepIndex+1) / totalSteps
	default:
		return baseProgress
	}
}

func (executor *WorkflowExecutor) buildAgentUpdate(step string, status models.AgentStatus, message string) *models.AgentUpdate {
	update := &models.AgentUpdate{
		WorkflowID: executor.state.ID,
		RequestID:  executor.state.RequestID,
		AgentName:  step,
		Status:     status,
		Message:    message,
		Progress:   calculateStepProgress(step, status),
		Data:       make(map[string]any),
		Timestamp:  time.Now(),
		Retryable:  status == models.AgentStatusFailed,
	}

	update.Data["workflow_type"] = "SEQUENTIAL"
	update.Data["agent_sequence"] = models.SequentialSteps()
	update.Data["total_agents"] = len(models.SequentialSteps())

	return update
}

func (executor *WorkflowExecutor) publishAgentUpdate(ctx context.Context, step string, status models.AgentStatus, message string) error {
	update := executor.buildAgentUpdate(step, status, message)
	return executor.progress.PublishAgentUpdate(ctx, executor.state.ConversationID, update)
}

func (orchestrator *Orchestrator) publishWorkflowUpdate(ctx context.Context, state *models.WorkflowState, updateType models.UpdateType, message string) error {
	update := &models.AgentUpdate{
		WorkflowID: state.ID,
		RequestID:  state.RequestID,
		AgentName:  string(updateType),
		Status:     models.AgentStatusCompleted,
		Message:    message,
		Progress:   1.0,
		Timestamp:  time.Now(),
	}

	return orchestrator.redisService.PublishAgentUpdate(ctx, state.ConversationID, update)
}

func (orchestrator *Orchestrator) GetWorkflowStatus(workflowID string) (*models.WorkflowState, error) {
	if workflow, exists := orchestrator.activeWorkflows.Load(workflowID); exists {
		return workflow.(*models.WorkflowState), nil
	}

	ctx := context.Background()
	return orchestrator.redisService.GetWorkflowState(ctx, workflowID)
}

func (orchestrator *Orchestrator) GetActiveWorkflowsCount() int {
	count := 0
	orchestrator.activeWorkflows.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}

func (orchestrator *Orchestrator) CancelWorkflow(workflowID string) error {
	if workflow, exists := orchestrator.activeWorkflows.Load(workflowID); exists {
		state := workflow.(*models.WorkflowState)
		state.MarkCancelled()

		// The running executor stops at the next step boundary and its
		// deferred cleanup removes the activeWorkflows entry, so the
		// MaxActive guard keeps counting this run until it unwinds.
		orchestrator.logger.LogWorkflow(workflowID, state.ConversationID, "cancellation_requested", 0, nil)
		return nil
	}

	return models.ErrWorkflowNotFound.WithMetadata("workflow_id", workflowID)
}

func (orchestrator *Orchestrator) HealthCheck(ctx context.Context) error {
	checks := map[string]func() error{
		"redis":   func() error { return orchestrator.redisService.HealthCheck(ctx) },
		"gemini":  func() error { return orchestrator.geminiService.HealthCheck(ctx) },
		"tavily":  func() error { return orchestrator.tavilyService.HealthCheck(ctx) },
		"fetcher": func() error { return orchestrator.fetcherService.HealthCheck(ctx) },
	}

	for serviceName, healthCheck := range checks {
		if err := healthCheck(); err != nil {
			return fmt.Errorf("service %s health check failed: %w", serviceName, err)
		}
	}

	return nil
}

func (orchestrator *Orchestrator) AgentNames() []string {
	return models.SequentialSteps()
}

func (orchestrator *Orchestrator) GetStats() map[string]interface{} {
	uptime := time.Since(orchestrator.startTime)

	return map[string]interface{}{
		"service":          "workflow_orchestrator",
		"uptime_seconds":   uptime.Seconds(),
		"active_workflows": orchestrator.GetActiveWorkflowsCount(),
		"max_active":       orchestrator.config.Workflow.MaxActive,
		"workflow_type":    "SEQUENTIAL",
		"agents":           models.SequentialSteps(),
		"gemini_usage":     orchestrator.geminiService.UsageStats(),
		"tavily_usage":     orchestrator.tavilyService.UsageStats(),
	}
}

func (orchestrator *Orchestrator) Close() error {
	orchestrator.logger.Info("Workflow orchestrator shutting down")

	timeout := time.After(orchestrator.config.Workflow.ShutdownTimeout)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			activeCount := orchestrator.GetActiveWorkflowsCount()
			if activeCount > 0 {
				orchestrator.logger.Warn("Timeout waiting for workflows to complete", "active_workflows", activeCount)
			}
			return nil
		case <-ticker.C:
			if orchestrator.GetActiveWorkflowsCount() == 0 {
				orchestrator.logger.Info("All workflows completed, orchestrator closed")
				return nil
			}
		}
	}
}
