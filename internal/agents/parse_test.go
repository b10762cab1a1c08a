package agents

import (
	"reflect"
	"testing"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	response := "Here is the plan:\n```json\n{\"workflow_type\": \"SEQUENTIAL\"}\n```\nDone."

	parsed, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("Failed to extract JSON: %v", err)
	}

	if parsed["workflow_type"] != "SEQUENTIAL" {
		t.Errorf("Expected workflow_type SEQUENTIAL, got %v", parsed["workflow_type"])
	}
}

func TestExtractJSONBareBraces(t *testing.T) {
	response := "Some preamble {\"complexity_score\": 5} trailing text"

	parsed, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("Failed to extract JSON: %v", err)
	}

	if getFloat(parsed, "complexity_score", 0) != 5 {
		t.Errorf("Expected complexity_score 5, got %v", parsed["complexity_score"])
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	if _, err := ExtractJSON("plain text without any braces"); err == nil {
		t.Error("Expected error for response without JSON")
	}
}

func TestExtractJSONMalformed(t *testing.T) {
	if _, err := ExtractJSON("{not valid json}"); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestSetDefault(t *testing.T) {
	m := map[string]any{"existing": "value"}

	setDefault(m, "existing", "replaced")
	setDefault(m, "missing", "filled")

	if m["existing"] != "value" {
		t.Errorf("setDefault should not replace existing keys, got %v", m["existing"])
	}

	if m["missing"] != "filled" {
		t.Errorf("setDefault should fill absent keys, got %v", m["missing"])
	}
}

func TestGetFloat(t *testing.T) {
	m := map[string]any{
		"float_value": 0.85,
		"int_value":   3,
		"text_value":  "not a number",
	}

	if got := getFloat(m, "float_value", 0); got != 0.85 {
		t.Errorf("Expected 0.85, got %v", got)
	}

	if got := getFloat(m, "int_value", 0); got != 3 {
		t.Errorf("Expected 3, got %v", got)
	}

	if got := getFloat(m, "text_value", 0.5); got != 0.5 {
		t.Errorf("Expected fallback 0.5, got %v", got)
	}

	if got := getFloat(m, "absent", 0.7); got != 0.7 {
		t.Errorf("Expected fallback 0.7, got %v", got)
	}
}

func TestToStringSlice(t *testing.T) {
	values := []any{"one", 2, "three", nil}

	got := toStringSlice(values)
	want := []string{"one", "three"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]any{"frontend": "React", "backend": "Node.js", "database": "PostgreSQL"}

	got := sortedKeys(m)
	want := []string{"backend", "database", "frontend"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
