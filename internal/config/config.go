package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string

	HTTP     HTTPConfig
	Log      LogConfig
	Gemini   GeminiConfig
	Tavily   TavilyConfig
	Redis    RedisConfig
	Fetcher  FetcherConfig
	Workflow WorkflowConfig
}

type HTTPConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type GeminiConfig struct {
	APIKey            string
	Model             string
	MaxTokens         int
	Temperature       float64
	Timeout           time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerMinute int
}

type TavilyConfig struct {
	APIKey      string
	BaseURL     string
	MaxResults  int
	SearchDepth string
	Timeout     time.Duration
}

type RedisConfig struct {
	StreamsURL   string
	MemoryURL    string
	PoolSize     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
	StateTTL     time.Duration
}

type FetcherConfig struct {
	MaxConcurrency int
	RequestTimeout time.Duration
	RetryAttempts  int
}

type WorkflowConfig struct {
	StepTimeout     time.Duration
	MaxActive       int
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	// .env is optional, real deployments use the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		HTTP: HTTPConfig{
			Port:         getEnvInt("PORT", 8080),
			ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Gemini: GeminiConfig{
			APIKey:            os.Getenv("GEMINI_API_KEY"),
			Model:             getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			MaxTokens:         getEnvInt("GEMINI_MAX_TOKENS", 4000),
			Temperature:       getEnvFloat("GEMINI_TEMPERATURE", 0.3),
			Timeout:           getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),
			MaxRetries:        getEnvInt("GEMINI_MAX_RETRIES", 3),
			RetryDelay:        getEnvDuration("GEMINI_RETRY_DELAY", 2*time.Second),
			RequestsPerMinute: getEnvInt("GEMINI_RATE_LIMIT_PER_MINUTE", 30),
		},
		Tavily: TavilyConfig{
			APIKey:      os.Getenv("TAVILY_API_KEY"),
			BaseURL:     getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
			MaxResults:  getEnvInt("TAVILY_MAX_RESULTS", 10),
			SearchDepth: getEnv("TAVILY_SEARCH_DEPTH", "advanced"),
			Timeout:     getEnvDuration("TAVILY_TIMEOUT", 20*time.Second),
		},
		Redis: RedisConfig{
			StreamsURL:   getEnv("REDIS_STREAMS_URL", "redis://localhost:6379/0"),
			MemoryURL:    getEnv("REDIS_MEMORY_URL", "redis://localhost:6379/1"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 20),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			StateTTL:     getEnvDuration("REDIS_STATE_TTL", 6*time.Hour),
		},
		Fetcher: FetcherConfig{
			MaxConcurrency: getEnvInt("FETCHER_MAX_CONCURRENCY", 3),
			RequestTimeout: getEnvDuration("FETCHER_REQUEST_TIMEOUT", 30*time.Second),
			RetryAttempts:  getEnvInt("FETCHER_RETRY_ATTEMPTS", 2),
		},
		Workflow: WorkflowConfig{
			StepTimeout:     getEnvDuration("WORKFLOW_STEP_TIMEOUT", 120*time.Second),
			MaxActive:       getEnvInt("WORKFLOW_MAX_ACTIVE", 10),
			ShutdownTimeout: getEnvDuration("WORKFLOW_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	if cfg.Tavily.APIKey == "" {
		return fmt.Errorf("TAVILY_API_KEY is required")
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", cfg.HTTP.Port)
	}

	if cfg.Gemini.MaxRetries < 1 {
		return fmt.Errorf("GEMINI_MAX_RETRIES must be at least 1")
	}

	return nil
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == "production"
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
