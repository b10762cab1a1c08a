package models

import (
	"time"

	"github.com/google/uuid"
)

type ExpertiseLevel string

const (
	ExpertiseBeginner     ExpertiseLevel = "BEGINNER"
	ExpertiseIntermediate ExpertiseLevel = "INTERMEDIATE"
	ExpertiseAdvanced     ExpertiseLevel = "ADVANCED"
	ExpertiseExpert       ExpertiseLevel = "EXPERT"
)

func (level ExpertiseLevel) IsValid() bool {
	switch level {
	case ExpertiseBeginner, ExpertiseIntermediate, ExpertiseAdvanced, ExpertiseExpert:
		return true
	}
	return false
}

type UserProfile struct {
	ExpertiseLevel ExpertiseLevel `json:"expertise_level" binding:"required"`
	BusinessRole   string         `json:"business_role,omitempty"`
}

type BusinessContext struct {
	Industry               string   `json:"industry,omitempty"`
	CompanySize            string   `json:"company_size,omitempty"`
	BudgetRange            string   `json:"budget_range,omitempty"`
	Timeline               string   `json:"timeline,omitempty"`
	ComplianceRequirements []string `json:"compliance_requirements,omitempty"`
	ExistingTechnologies   []string `json:"existing_technologies,omitempty"`
}

const MessageTypeArchitectureUpdate = "ARCHITECTURE_UPDATE"

type ConversationMessage struct {
	Role        string         `json:"role"`
	Content     string         `json:"content"`
	MessageType string         `json:"messageType,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Agent step names in execution order.
const (
	StepOrchestrator   = "orchestrator"
	StepRequirements   = "requirements"
	StepResearch       = "research"
	StepArchitecture   = "architecture"
	StepWhyReasoning   = "why_reasoning"
	StepBusinessImpact = "business_impact"
	StepEducational    = "educational"
	StepDocumentation  = "documentation"
	StepCompleted      = "completed"
)

func SequentialSteps() []string {
	return []string{
		StepOrchestrator,
		StepRequirements,
		StepResearch,
		StepArchitecture,
		StepWhyReasoning,
		StepBusinessImpact,
		StepEducational,
		StepDocumentation,
	}
}

type WorkflowState struct {
	ID             string `json:"id"`
	RequestID      string `json:"request_id"`
	ConversationID string `json:"conversation_id"`
	UserQuery      string `json:"user_query"`

	UserProfile         UserProfile           `json:"user_profile"`
	BusinessContext     *BusinessContext      `json:"business_context,omitempty"`
	ConversationHistory []ConversationMessage `json:"conversation_history,omitempty"`

	OrchestratorPlan     map[string]any `json:"orchestrator_plan,omitempty"`
	RequirementsAnalysis map[string]any `json:"requirements_analysis,omitempty"`
	ResearchData         map[string]any `json:"research_data,omitempty"`
	ArchitectureDesign   map[string]any `json:"architecture_design,omitempty"`
	WhyReasoning         map[string]any `json:"why_reasoning,omitempty"`
	BusinessImpact       map[string]any `json:"business_impact,omitempty"`
	EducationalContent   map[string]any `json:"educational_content,omitempty"`
	Documentation        map[string]any `json:"documentation,omitempty"`

	CurrentStep    string   `json:"current_step"`
	CompletedSteps []string `json:"completed_steps"`

	Status    WorkflowStatus `json:"status"`
	StartTime time.Time      `json:"start_time"`
	EndTime   *time.Time     `json:"end_time,omitempty"`

	Metadata        map[string]any  `json:"metadata,omitempty"`
	ProcessingStats ProcessingStats `json:"processing_stats,omitempty"`
}

type ProcessingStats struct {
	TotalDuration time.Duration         `json:"total_duration"`
	AgentStats    map[string]AgentStats `json:"agent_stats"`
	APICallsCount int                   `json:"api_calls_count,omitempty"`
	SearchesCount int                   `json:"searches_count,omitempty"`
	TokensUsed    int                   `json:"tokens_used,omitempty"`
}

type AgentStats struct {
	Name      string        `json:"name"`
	Duration  time.Duration `json:"duration"`
	Status    string        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
}

type WorkflowStatus string

const (
	WorkflowStatusPending    WorkflowStatus = "pending"
	WorkflowStatusProcessing WorkflowStatus = "processing"
	WorkflowStatusCompleted  WorkflowStatus = "completed"
	WorkflowStatusFailed     WorkflowStatus = "failed"
	WorkflowStatusCancelled  WorkflowStatus = "cancelled"
)

type AgentStatus string

const (
	AgentStatusPending    AgentStatus = "pending"
	AgentStatusProcessing AgentStatus = "processing"
	AgentStatusCompleted  AgentStatus = "completed"
	AgentStatusFailed     AgentStatus = "failed"
)

type UpdateType string

const (
	UpdateTypeWorkflowStarted   UpdateType = "workflow_started"
	UpdateTypeWorkflowCompleted UpdateType = "workflow_completed"
	UpdateTypeWorkflowError     UpdateType = "workflow_error"
)

type AgentUpdate struct {
	WorkflowID     string         `json:"workflow_id"`
	RequestID      string         `json:"request_id"`
	AgentName      string         `json:"agent_name"`
	Status         AgentStatus    `json:"status"`
	Message        string         `json:"message"`
	Progress       float64        `json:"progress"`
	Data           map[string]any `json:"data,omitempty"`
	ProcessingTime time.Duration  `json:"processing_time,omitempty"`
	Error          string         `json:"error,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	Retryable      bool           `json:"retryable"`
}

type ProcessConversationRequest struct {
	ConversationID      string                `json:"conversation_id" binding:"required"`
	UserMessage         string                `json:"user_message" binding:"required"`
	ConversationHistory []ConversationMessage `json:"conversation_history,omitempty"`
	UserProfile         UserProfile           `json:"user_profile" binding:"required"`
	BusinessContext     *BusinessContext      `json:"business_context,omitempty"`
	Options             map[string]any        `json:"options,omitempty"`
}

type WorkflowResult struct {
	Success          bool                      `json:"success"`
	WorkflowType     string                    `json:"workflow_type"`
	ConversationID   string                    `json:"conversation_id"`
	FinalContent     string                    `json:"final_content"`
	NextQuestions    []string                  `json:"next_questions"`
	SuggestedActions []string                  `json:"suggested_actions"`
	CompletedSteps   []string                  `json:"completed_steps"`
	ConfidenceScore  float64                   `json:"confidence_score"`
	AgentOutputs     map[string]map[string]any `json:"agent_outputs"`
	Metadata         map[string]any            `json:"metadata"`
}

type ProcessConversationResponse struct {
	Success  bool            `json:"success"`
	Data     *WorkflowResult `json:"data,omitempty"`
	Error    map[string]any  `json:"error,omitempty"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

func NewWorkflowState(req *ProcessConversationRequest, requestID string) *WorkflowState {
	return &WorkflowState{
		ID:                  uuid.New().String(),
		RequestID:           requestID,
		ConversationID:      req.ConversationID,
		UserQuery:           req.UserMessage,
		UserProfile:         req.UserProfile,
		BusinessContext:     req.BusinessContext,
		ConversationHistory: req.ConversationHistory,
		CurrentStep:         StepOrchestrator,
		CompletedSteps:      []string{},
		Status:              WorkflowStatusPending,
		StartTime:           time.Now(),
		Metadata:            map[string]any{"options": req.Options},
		ProcessingStats: ProcessingStats{
			AgentStats: make(map[string]AgentStats),
		},
	}
}

// Validate checks the fields every workflow run depends on.
func (state *WorkflowState) Validate() error {
	if state.ConversationID == "" {
		return NewValidationError("MISSING_CONVERSATION_ID", "conversation_id is required")
	}
	if state.UserQuery == "" {
		return NewValidationError("MISSING_USER_QUERY", "user_query is required")
	}
	if !state.UserProfile.ExpertiseLevel.IsValid() {
		return NewValidationError("INVALID_EXPERTISE_LEVEL", "expertise_level must be one of BEGINNER, INTERMEDIATE, ADVANCED, EXPERT")
	}
	return nil
}

// CompleteStep records a finished step and advances the cursor.
func (state *WorkflowState) CompleteStep(step, next string) {
	state.CompletedSteps = append(state.CompletedSteps, step)
	state.CurrentStep = next
}

func (state *WorkflowState) MarkProcessing() {
	state.Status = WorkflowStatusProcessing
}

func (state *WorkflowState) MarkCompleted() {
	state.Status = WorkflowStatusCompleted
	now := time.Now()
	state.EndTime = &now
	state.ProcessingStats.TotalDuration = time.Since(state.StartTime)
}

func (state *WorkflowState) MarkFailed() {
	state.Status = WorkflowStatusFailed
	now := time.Now()
	state.EndTime = &now
	state.ProcessingStats.TotalDuration = time.Since(state.StartTime)
}

func (state *WorkflowState) MarkCancelled() {
	state.Status = WorkflowStatusCancelled
}

func (state *WorkflowState) IsCancelled() bool {
	return state.Status == WorkflowStatusCancelled
}

func (state *WorkflowState) UpdateAgentStats(agentName string, stats AgentStats) {
	if state.ProcessingStats.AgentStats == nil {
		state.ProcessingStats.AgentStats = make(map[string]AgentStats)
	}
	state.ProcessingStats.AgentStats[agentName] = stats
}

func (state *WorkflowState) GetDuration() time.Duration {
	if state.EndTime != nil {
		return state.EndTime.Sub(state.StartTime)
	}
	return time.Since(state.StartTime)
}

func (state *WorkflowState) IsCompleted() bool {
	return state.Status == WorkflowStatusCompleted
}

func (state *WorkflowState) IsFailed() bool {
	return state.Status == WorkflowStatusFailed
}

// AgentOutputs collects the populated output slots keyed by slot name.
func (state *WorkflowState) AgentOutputs() map[string]map[string]any {
	return map[string]map[string]any{
		"orchestrator_plan":     state.OrchestratorPlan,
		"requirements_analysis": state.RequirementsAnalysis,
		"research_data":         state.ResearchData,
		"architecture_design":   state.ArchitectureDesign,
		"why_reasoning":         state.WhyReasoning,
		"business_impact":       state.BusinessImpact,
		"educational_content":   state.EducationalContent,
		"documentation":         state.Documentation,
	}
}

func GenerateRequestID() string {
	return uuid.New().String()
}
