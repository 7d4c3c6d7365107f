package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-blob-analyzer/internal/config"
	"pdf-blob-analyzer/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Wiring
	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg := container.GetConfig()

	// Router
	router := handler.NewRouter(
		container.BlobTriggerHandler,
		cfg.GetFunctionName(),
		cfg.GetCORSAllowedOrigins(),
	)

	// start server
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	go func() {
		container.Logger.Info("Custom handler listening", "address", server.Addr, "function", cfg.GetFunctionName())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetAnalysisTimeout())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Server shutdown did not complete", err)
	}

	container.Logger.Info("Server exited")
	if syncer, ok := container.Logger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
}
