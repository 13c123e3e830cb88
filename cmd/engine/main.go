package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"prompt-scrape-go/pkg/config"
	"prompt-scrape-go/pkg/engine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize engine and router
	eng := engine.New(engine.Config{
		DefaultPageLimit:  cfg.Engine.DefaultPageLimit,
		MaxPageLimit:      cfg.Engine.MaxPageLimit,
		HTTPTimeout:       time.Duration(cfg.Engine.HTTPTimeout) * time.Second,
		RequestsPerSecond: cfg.Engine.RequestsPerSecond,
		MaxConcurrent:     cfg.Engine.MaxConcurrent,
		Intent:            engine.NewOpenAIIntentModel(cfg.Engine.OpenAIAPIKey, cfg.Engine.OpenAIModel),
	}, logger)
	router := engine.NewRouter(eng, logger)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Engine.Host, cfg.Engine.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // jobs fetch remote pages inline
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("engine server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
