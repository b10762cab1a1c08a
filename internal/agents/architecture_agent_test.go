package agents

import (
	"context"
	"strings"
	"testing"

	"architect-ai-pipeline/internal/models"
)

func TestExtractExistingArchitectureFromState(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	state := testState()
	state.ArchitectureDesign = map[string]any{
		"components": []any{map[string]any{"id": "api", "name": "API Service"}},
	}

	existing := agent.extractExistingArchitecture(state)

	if len(getSlice(existing, "components")) != 1 {
		t.Errorf("Expected 1 component from state, got %d", len(getSlice(existing, "components")))
	}
}

func TestExtractExistingArchitectureFromHistory(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	state := testState()
	state.ConversationHistory = []models.ConversationMessage{
		{Role: "user", Content: "Please add a cache"},
		{
			Role:        "assistant",
			Content:     "Updated the design",
			MessageType: models.MessageTypeArchitectureUpdate,
			Metadata: map[string]any{
				"agentResponse": map[string]any{
					"architectureUpdate": map[string]any{
						"components": []any{
							map[string]any{"id": "api", "name": "API Service"},
							map[string]any{"id": "db", "name": "Database"},
						},
					},
				},
			},
		},
	}

	existing := agent.extractExistingArchitecture(state)

	if len(getSlice(existing, "components")) != 2 {
		t.Errorf("Expected 2 components from history, got %d", len(getSlice(existing, "components")))
	}
}

func TestExtractExistingArchitecturePicksMostRecentUpdate(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	state := testState()
	state.ConversationHistory = []models.ConversationMessage{
		{
			Role:        "assistant",
			Content:     "First design",
			MessageType: models.MessageTypeArchitectureUpdate,
			Metadata: map[string]any{
				"agentResponse": map[string]any{
					"architectureUpdate": map[string]any{
						"components": []any{
							map[string]any{"id": "monolith", "name": "Monolith"},
						},
					},
				},
			},
		},
		{
			Role:        "assistant",
			Content:     "Revised design",
			MessageType: models.MessageTypeArchitectureUpdate,
			Metadata: map[string]any{
				"agentResponse": map[string]any{
					"architectureUpdate": map[string]any{
						"components": []any{
							map[string]any{"id": "api", "name": "API Service"},
							map[string]any{"id": "db", "name": "Database"},
						},
					},
				},
			},
		},
		{
			Role:        "assistant",
			Content:     "Acknowledged",
			MessageType: models.MessageTypeArchitectureUpdate,
			Metadata: map[string]any{
				"agentResponse": map[string]any{
					"architectureUpdate": map[string]any{
						"components": []any{},
					},
				},
			},
		},
	}

	existing := agent.extractExistingArchitecture(state)

	components := getSlice(existing, "components")
	if len(components) != 2 {
		t.Fatalf("Expected the most recent non-empty update with 2 components, got %d", len(components))
	}
	if getString(components[0].(map[string]any), "id") != "api" {
		t.Errorf("Expected revised design selected, got %v", components[0])
	}
}

func TestExtractExistingArchitectureEmpty(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))

	existing := agent.extractExistingArchitecture(testState())

	if len(existing) != 0 {
		t.Errorf("Expected empty map without prior design, got %v", existing)
	}
}

func TestValidateDesignFillsVisualizationMetadata(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	design := map[string]any{
		"components": []any{
			map[string]any{"id": "api", "name": "API Service", "type": "service"},
		},
		"connections": []any{
			map[string]any{"from_component": "api", "to_component": "db"},
		},
	}

	agent.validateDesign(design, map[string]any{})

	component := getSlice(design, "components")[0].(map[string]any)
	vizMetadata := getMap(component, "visualization_metadata")
	if getString(vizMetadata, "business_criticality") != "medium" {
		t.Errorf("Expected default business_criticality medium, got %v", vizMetadata["business_criticality"])
	}

	connection := getSlice(design, "connections")[0].(map[string]any)
	connMetadata := getMap(connection, "visualization_metadata")
	if getString(connMetadata, "protocol_display") != "HTTP/REST" {
		t.Errorf("Expected default protocol_display HTTP/REST, got %v", connMetadata["protocol_display"])
	}

	if design["confidence_score"] != 0.85 {
		t.Errorf("Expected default confidence_score 0.85, got %v", design["confidence_score"])
	}
}

func TestValidateDesignPrefersExistingComponents(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	existing := map[string]any{
		"components":  []any{map[string]any{"id": "api", "name": "API Service"}},
		"connections": []any{},
	}
	design := map[string]any{}

	agent.validateDesign(design, existing)

	components := getSlice(design, "components")
	if len(components) != 1 {
		t.Fatalf("Expected existing components preserved, got %d", len(components))
	}
	if getString(components[0].(map[string]any), "id") != "api" {
		t.Errorf("Expected existing api component, got %v", components[0])
	}
}

func TestValidateDesignFallsBackWithoutComponents(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	design := map[string]any{}

	agent.validateDesign(design, map[string]any{})

	if len(getSlice(design, "components")) == 0 {
		t.Error("Expected fallback components for empty design")
	}
}

func TestParseDesignReturnsExistingOnParseFailure(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	existing := map[string]any{
		"components": []any{
			map[string]any{"id": "api", "name": "API Service"},
			map[string]any{"id": "db", "name": "Database"},
		},
		"connections": []any{
			map[string]any{"from_component": "api", "to_component": "db"},
		},
	}

	design := agent.parseDesign("the model rambled instead of returning JSON", existing)

	components := getSlice(design, "components")
	if len(components) != 2 {
		t.Fatalf("Expected existing architecture returned unchanged, got %d components", len(components))
	}
	if getString(components[0].(map[string]any), "id") != "api" {
		t.Errorf("Expected existing api component preserved, got %v", components[0])
	}
	if len(getSlice(design, "connections")) != 1 {
		t.Errorf("Expected existing connections preserved, got %v", design["connections"])
	}
}

func TestParseDesignFallsBackWithoutExisting(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))

	design := agent.parseDesign("no json here either", map[string]any{})

	if len(getSlice(design, "components")) == 0 {
		t.Error("Expected fallback components when nothing can be preserved")
	}
	if getString(getMap(design, "architecture_overview"), "pattern") != "layered" {
		t.Errorf("Expected layered fallback pattern, got %v", design["architecture_overview"])
	}
}

func TestBuildDesignPromptEnhanceMode(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	state := testState()
	state.UserQuery = "Add analytics"
	existing := map[string]any{
		"components": []any{
			map[string]any{"name": "Web Frontend", "type": "frontend"},
			map[string]any{"name": "Order Service", "type": "service"},
			map[string]any{"name": "Orders DB", "type": "database"},
			map[string]any{"name": "Payment Service", "type": "service"},
			map[string]any{"name": "Notification Queue", "type": "queue"},
		},
	}

	prompt := agent.buildDesignPrompt(state, map[string]any{}, existing)

	for _, want := range []string{
		"ENHANCE the existing architecture by adding: Add analytics",
		"Current Components: 5",
		"- Web Frontend (frontend)",
		"- Order Service (service)",
		"- Orders DB (database)",
		"- Payment Service (service)",
		"- Notification Queue (queue)",
		"- PRESERVE all existing components and their relationships",
		"- INTEGRATE new functionality seamlessly with existing system",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected enhancement prompt to contain %q", want)
		}
	}
}

func TestBuildDesignPromptNewMode(t *testing.T) {
	agent := NewArchitectureAgent(&mockCompleter{}, testLogger(t))
	state := testState()
	state.UserQuery = "I need a blog platform"

	prompt := agent.buildDesignPrompt(state, map[string]any{}, map[string]any{})

	if !strings.Contains(prompt, "Design a comprehensive, production-ready architecture for: I need a blog platform") {
		t.Error("Expected new-design framing in prompt")
	}
	if strings.Contains(prompt, "ENHANCE the existing architecture") {
		t.Error("Did not expect enhancement framing without an existing architecture")
	}
	if strings.Contains(prompt, "EXISTING ARCHITECTURE TO ENHANCE") {
		t.Error("Did not expect an existing-architecture listing without one")
	}
	if strings.Contains(prompt, "PRESERVE all existing components") {
		t.Error("Did not expect preservation instructions without an existing architecture")
	}
}

func TestAnalyzeSystemComplexityDefaultRecord(t *testing.T) {
	model := &mockCompleter{response: "not a json payload"}
	agent := NewArchitectureAgent(model, testLogger(t))

	analysis := agent.analyzeSystemComplexity(context.Background(), testState(), map[string]any{})

	if getString(analysis, "complexity_level") != "moderate" {
		t.Errorf("Expected moderate complexity default, got %v", analysis["complexity_level"])
	}
	if getString(analysis, "criticality_level") != "important" {
		t.Errorf("Expected important criticality default, got %v", analysis["criticality_level"])
	}
	if getString(analysis, "domain_type") != "web_app" {
		t.Errorf("Expected web_app domain default, got %v", analysis["domain_type"])
	}
}

func TestAnalyzeSystemComplexityEnhancementSummaryDefault(t *testing.T) {
	model := &mockCompleter{response: `{"complexity_level": "moderate"}`}
	agent := NewArchitectureAgent(model, testLogger(t))
	existing := map[string]any{
		"components": []any{
			map[string]any{"id": "api", "name": "API Service", "type": "service"},
		},
	}

	agent.analyzeSystemComplexity(context.Background(), testState(), existing)

	if len(model.requests) != 1 {
		t.Fatalf("Expected 1 model request, got %d", len(model.requests))
	}
	if !strings.Contains(model.requests[0].Prompt, "Previous Architecture Summary: Previous architecture design") {
		t.Error("Expected default architecture summary when metadata description is absent")
	}
}

func TestComplexityScoreBands(t *testing.T) {
	cases := []struct {
		components  int
		connections int
		want        int
	}{
		{2, 2, 1},
		{5, 7, 3},
		{9, 12, 5},
		{14, 20, 7},
		{30, 50, 10},
	}

	for _, tc := range cases {
		if got := complexityScore(tc.components, tc.connections); got != tc.want {
			t.Errorf("complexityScore(%d, %d) = %d, want %d", tc.components, tc.connections, got, tc.want)
		}
	}
}

func TestGenerateMermaidDiagramShapes(t *testing.T) {
	components := []any{
		map[string]any{"id": "api", "name": "API Service", "type": "service"},
		map[string]any{"id": "db", "name": "Database", "type": "database"},
		map[string]any{"id": "gw", "name": "Gateway", "type": "gateway"},
		map[string]any{"id": "q", "name": "Queue", "type": "queue"},
	}
	connections := []any{
		map[string]any{"from_component": "gw", "to_component": "api"},
		map[string]any{"from_component": "api", "to_component": "q", "connection_type": "message_queue"},
	}

	diagram := generateMermaidDiagram(components, connections)

	if !strings.HasPrefix(diagram, "graph TD") {
		t.Errorf("Expected graph TD header, got: %s", diagram)
	}
	for _, line := range []string{
		"api[API Service]",
		"db[(Database)]",
		"gw{Gateway}",
		"q>Queue]",
		"gw --> api",
		"api -.-> q",
	} {
		if !strings.Contains(diagram, line) {
			t.Errorf("Expected diagram to contain %q, got:\n%s", line, diagram)
		}
	}
}

func TestGenerateVisualizationData(t *testing.T) {
	design := map[string]any{
		"components": []any{
			map[string]any{"id": "api", "name": "API Service", "type": "service"},
			map[string]any{"id": "db", "name": "Database", "type": "database"},
		},
		"connections": []any{
			map[string]any{"from_component": "api", "to_component": "db", "connection_type": "database"},
		},
	}

	viz := generateVisualizationData(design)

	d3Data := getMap(viz, "d3_data")
	nodes := getSlice(d3Data, "nodes")
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}

	dbNode := nodes[1].(map[string]any)
	if dbNode["group"] != 2 {
		t.Errorf("Expected database group 2, got %v", dbNode["group"])
	}

	links := getSlice(d3Data, "links")
	if len(links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(links))
	}
	link := links[0].(map[string]any)
	if link["source"] != "api" || link["target"] != "db" {
		t.Errorf("Unexpected link endpoints: %v", link)
	}

	metadata := getMap(viz, "visualization_metadata")
	if metadata["complexity_score"] != 1 {
		t.Errorf("Expected complexity_score 1, got %v", metadata["complexity_score"])
	}

	mermaid := getMap(viz, "mermaid_diagrams")
	if !strings.Contains(getString(mermaid, "system_overview"), "db[(Database)]") {
		t.Errorf("Expected mermaid diagram with database shape, got %v", mermaid["system_overview"])
	}
}

func TestComponentGroupUnknownType(t *testing.T) {
	if got := componentGroup("blockchain"); got != 1 {
		t.Errorf("Expected unknown component type in group 1, got %d", got)
	}
}
