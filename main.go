package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"architect-ai-pipeline/internal/config"
	"architect-ai-pipeline/internal/handlers"
	"architect-ai-pipeline/internal/pkg/logger"
	"architect-ai-pipeline/internal/services"
	"architect-ai-pipeline/internal/workflow"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting architecture consultation service",
		"environment", cfg.Environment,
		"port", cfg.HTTP.Port)

	redisService, err := services.NewRedisService(cfg.Redis, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize Redis service")
		os.Exit(1)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize Gemini service")
		os.Exit(1)
	}

	tavilyService, err := services.NewTavilyService(cfg.Tavily, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize Tavily service")
		os.Exit(1)
	}

	fetcherService, err := services.NewFetcherService(cfg.Fetcher, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize fetcher service")
		os.Exit(1)
	}

	orchestrator := workflow.NewOrchestrator(
		redisService,
		geminiService,
		tavilyService,
		fetcherService,
		*cfg,
		log,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	handlers.RegisterRoutes(router, orchestrator, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received, draining workflows")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Workflow.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	if err := orchestrator.Close(); err != nil {
		log.WithError(err).Error("Orchestrator shutdown failed")
	}

	if err := geminiService.Close(); err != nil {
		log.WithError(err).Error("Gemini service close failed")
	}

	if err := tavilyService.Close(); err != nil {
		log.WithError(err).Error("Tavily service close failed")
	}

	if err := fetcherService.Close(); err != nil {
		log.WithError(err).Error("Fetcher service close failed")
	}

	if err := redisService.Close(); err != nil {
		log.WithError(err).Error("Redis service close failed")
	}

	log.Info("Service stopped")
}
