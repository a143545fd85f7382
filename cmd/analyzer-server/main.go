package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"yashubustudio/contextanalyzer/analyzer"
	"yashubustudio/contextanalyzer/internal/embedding"
	"yashubustudio/contextanalyzer/internal/metrics"
	"yashubustudio/contextanalyzer/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config.json or config.yaml (default: ./config.json)")
	envFile := flag.String("env", ".env", "Optional .env file loaded before reading the environment")
	addr := flag.String("addr", "", "Listen address (overrides config and ANALYZER_ADDR)")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if err := analyzer.LoadEnvFiles(*envFile); err != nil {
		logger.Printf("Warning: %v", err)
	}

	cfg, err := analyzer.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	cfg.ApplyEnv()
	if a := strings.TrimSpace(*addr); a != "" {
		cfg.Server.Addr = a
	}

	ctx := context.Background()
	stack, err := embedding.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init embedder: %v", err)
	}

	svc, err := analyzer.NewService(stack.Embedder, cfg, logger, analyzer.WithRecorder(metrics.Recorder{}))
	if err != nil {
		logger.Fatalf("init service: %v", err)
	}
	defer stack.Close()

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.NewRouter(&server.Container{
			Analyzer:       svc,
			Logger:         logger,
			Timeout:        timeout,
			AllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      timeout + 5*time.Second,
	}

	go func() {
		logger.Printf("Server starting on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited")
}
