package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"summarylab/internal/auth"
	"summarylab/internal/config"
	"summarylab/internal/database"
	"summarylab/internal/feedback"
	"summarylab/internal/router"
	"summarylab/internal/server"
	"summarylab/internal/serving"
	"summarylab/internal/summarizer"

	"github.com/gin-gonic/gin"
	"github.com/openai/openai-go/v3/option"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	exp, err := config.LoadExperiment(cfg.ExperimentConfigPath, cfg.ServingToken)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load experiment config",
			"error", err,
			"path", cfg.ExperimentConfigPath)

		return
	}
	log.InfoContext(ctx, "Experiment config is loaded",
		"path", cfg.ExperimentConfigPath,
		"servingTokenSet", exp.ServingToken != "")

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	resolver, err := auth.NewJWTResolver(cfg.AuthSecret, cfg.AuthAudience, cfg.AuthorizedParties)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize auth",
			"error", err)

		return
	}

	scorer := serving.NewClient(exp.ServingToken, cfg.DownstreamTimeout, log)
	r := router.New(exp, scorer, initOpenAISummarizer(ctx, cfg, log), log)
	sink := feedback.NewSink(db, log)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(r, sink, resolver, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Server stopped unexpectedly",
				"error", err,
				"addr", cfg.ListenAddr)
			cancel()
		}
	}()
	log.InfoContext(ctx, "Server is started",
		"addr", cfg.ListenAddr,
		"downstreamTimeout", cfg.DownstreamTimeout.String())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Failed to shut down server",
			"error", err)
	}

	log.InfoContext(ctx, "Server is stopped",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initOpenAISummarizer(ctx context.Context, cfg config.Config, log *slog.Logger) summarizer.Summarizer {
	if cfg.OpenAIAPIKey == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so direct summarization is disabled",
			"envVar", "OPENAI_API_KEY")

		return nil
	}

	s, err := summarizer.NewOpenAISummarizer(
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		option.WithRequestTimeout(cfg.DownstreamTimeout),
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create OpenAI summarizer so direct summarization is disabled",
			"error", err,
			"envVar", "OPENAI_API_KEY")

		return nil
	}

	log.InfoContext(ctx, "OpenAI summarizer is initialized",
		"provider", "openai")

	return s
}
