package agents

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ExtractJSON pulls a JSON object out of a model response. A fenced
// ```json block wins; otherwise the span from the first "{" to the last
// "}" is tried. Anything else is an error so callers can fall back.
func ExtractJSON(response string) (map[string]any, error) {
	candidate := extractJSONCandidate(response)
	if candidate == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return parsed, nil
}

func extractJSONCandidate(response string) string {
	if fenceStart := strings.Index(response, "```json"); fenceStart != -1 {
		rest := response[fenceStart+len("```json"):]
		if fenceEnd := strings.Index(rest, "```"); fenceEnd != -1 {
			return strings.TrimSpace(rest[:fenceEnd])
		}
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return response[start : end+1]
}

// setDefault fills a key only when it is absent.
func setDefault(m map[string]any, key string, value any) {
	if _, exists := m[key]; !exists {
		m[key] = value
	}
}

func getString(m map[string]any, key string) string {
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}

func getFloat(m map[string]any, key string, fallback float64) float64 {
	switch value := m[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	}
	return fallback
}

func getSlice(m map[string]any, key string) []any {
	if value, ok := m[key].([]any); ok {
		return value
	}
	return nil
}

func getMap(m map[string]any, key string) map[string]any {
	if value, ok := m[key].(map[string]any); ok {
		return value
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func toStringSlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
