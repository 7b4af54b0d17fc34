package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/syllabussync/syllabus-sync/internal/adapters/http"
	"github.com/syllabussync/syllabus-sync/internal/bootstrap"
	"github.com/syllabussync/syllabus-sync/internal/config"
	"github.com/syllabussync/syllabus-sync/internal/observability/logging"
	"github.com/syllabussync/syllabus-sync/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{
		LLMRecorder: func(operation string, duration time.Duration, err error) {
			httpMetrics.RecordLLMRequest("api", operation, duration, err)
		},
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		app.ParserUC,
		app.EstimatorUC,
		app.NarrationUC,
		app.Repo,
		app.Storage,
		app.Verifier,
		httpMetrics,
		logger,
		app.ScheduleCfg,
		app.GeminiConfigured,
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
}
