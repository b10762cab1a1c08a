package config_test

import (
	"os"
	"testing"
	"time"

	"architect-ai-pipeline/internal/config"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("ENVIRONMENT", "test")
	os.Setenv("PORT", "9090")
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Setenv("TAVILY_API_KEY", "test-tavily-key")

	defer func() {
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("PORT")
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("TAVILY_API_KEY")
	}()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected environment 'test', got %s", cfg.Environment)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.HTTP.Port)
	}

	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("Expected Gemini API key 'test-key', got %s", cfg.Gemini.APIKey)
	}

	if cfg.Tavily.APIKey != "test-tavily-key" {
		t.Errorf("Expected Tavily API key 'test-tavily-key', got %s", cfg.Tavily.APIKey)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("ENVIRONMENT")
	os.Unsetenv("PORT")
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Setenv("TAVILY_API_KEY", "test-tavily-key")

	defer func() {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("TAVILY_API_KEY")
	}()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", cfg.Environment)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.HTTP.Port)
	}

	if cfg.HTTP.ReadTimeout != 30*time.Second {
		t.Errorf("Expected default read timeout 30s, got %v", cfg.HTTP.ReadTimeout)
	}

	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Expected default Gemini model 'gemini-2.0-flash', got %s", cfg.Gemini.Model)
	}

	if cfg.Workflow.StepTimeout != 120*time.Second {
		t.Errorf("Expected default step timeout 120s, got %v", cfg.Workflow.StepTimeout)
	}

	if cfg.Workflow.MaxActive != 10 {
		t.Errorf("Expected default max active workflows 10, got %d", cfg.Workflow.MaxActive)
	}
}

func TestValidateConfigMissingGeminiKey(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")
	os.Setenv("TAVILY_API_KEY", "test-tavily-key")

	defer os.Unsetenv("TAVILY_API_KEY")

	_, err := config.Load()
	if err == nil {
		t.Error("Expected error for missing Gemini API key")
	}
}

func TestValidateConfigMissingTavilyKey(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Unsetenv("TAVILY_API_KEY")

	defer os.Unsetenv("GEMINI_API_KEY")

	_, err := config.Load()
	if err == nil {
		t.Error("Expected error for missing Tavily API key")
	}
}

func TestRedisConfig(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Setenv("TAVILY_API_KEY", "test-tavily-key")
	os.Setenv("REDIS_STREAMS_URL", "redis://localhost:6378")
	os.Setenv("REDIS_MEMORY_URL", "redis://localhost:6380")

	defer func() {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("TAVILY_API_KEY")
		os.Unsetenv("REDIS_STREAMS_URL")
		os.Unsetenv("REDIS_MEMORY_URL")
	}()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Redis.StreamsURL != "redis://localhost:6378" {
		t.Errorf("Expected Redis streams URL 'redis://localhost:6378', got %s", cfg.Redis.StreamsURL)
	}

	if cfg.Redis.MemoryURL != "redis://localhost:6380" {
		t.Errorf("Expected Redis memory URL 'redis://localhost:6380', got %s", cfg.Redis.MemoryURL)
	}
}

func TestInvalidPort(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Setenv("TAVILY_API_KEY", "test-tavily-key")
	os.Setenv("PORT", "-1")

	defer func() {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("TAVILY_API_KEY")
		os.Unsetenv("PORT")
	}()

	_, err := config.Load()
	if err == nil {
		t.Error("Expected error for invalid port")
	}
}
