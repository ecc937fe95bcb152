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

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/analysis"
	"github.com/ultrarslanoglu/gs-analytics/internal/archive"
	"github.com/ultrarslanoglu/gs-analytics/internal/collectors"
	"github.com/ultrarslanoglu/gs-analytics/internal/config"
	"github.com/ultrarslanoglu/gs-analytics/internal/notifications"
	"github.com/ultrarslanoglu/gs-analytics/internal/scheduler"
	"github.com/ultrarslanoglu/gs-analytics/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Galatasaray Analytics Platform")

	ctx := context.Background()

	// An unreachable backend at startup is the one fatal condition; every
	// later failure degrades to logs.
	store, err := storage.NewManager(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	logrus.Infof("Storage ready, backend: %s", store.BackendName())

	var blobArchive *archive.BlobArchive
	if cfg.StorageAccount != "" {
		blobArchive, err = archive.NewBlobArchive(cfg.StorageAccount, cfg.ArchiveContainer)
		if err != nil {
			logrus.Errorf("Report archive unavailable, continuing without it: %v", err)
			blobArchive = nil
		}
	}

	collection := collectors.NewOrchestrator(cfg)
	analyzer := analysis.NewOrchestrator(store)
	notifier := notifications.NewService(cfg)

	schedulerService := scheduler.NewService(cfg, collection, analyzer, notifier, blobArchive)
	if cfg.SchedulerEnabled {
		if err := schedulerService.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
		defer schedulerService.Stop()
	}

	srv := &server{
		config:     cfg,
		store:      store,
		collection: collection,
		analyzer:   analyzer,
		scheduler:  schedulerService,
	}

	router := mux.NewRouter()
	srv.registerRoutes(router)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
