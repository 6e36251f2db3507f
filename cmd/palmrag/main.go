package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/palmrag/internal/config"
	"github.com/kailas-cloud/palmrag/internal/domain/corpus"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
	"github.com/kailas-cloud/palmrag/internal/index"
	logpkg "github.com/kailas-cloud/palmrag/internal/logger"
	"github.com/kailas-cloud/palmrag/internal/metrics"
	chiTransport "github.com/kailas-cloud/palmrag/internal/transport/chi"
	answeruc "github.com/kailas-cloud/palmrag/internal/usecase/answer"
	"github.com/kailas-cloud/palmrag/internal/usecase/guardrail"
	healthuc "github.com/kailas-cloud/palmrag/internal/usecase/health"
	"github.com/kailas-cloud/palmrag/internal/usecase/stats"
	"github.com/kailas-cloud/palmrag/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting palmrag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("default_similarity", cfg.Retrieval.DefaultSimilarity),
		zap.Int("default_k", cfg.Retrieval.DefaultK),
	)

	// The corpus is compiled in; a bad corpus is a startup failure, never a silent empty index.
	docs, err := corpus.Load()
	if err != nil {
		logger.Fatal("Invalid corpus", zap.Error(err))
	}
	ix, err := index.Build(docs)
	if err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}
	logger.Info("Index built",
		zap.Int("documents", ix.Size()),
		zap.Int("vocabulary", ix.VocabularySize()),
	)

	gate := guardrail.NewGate(policyFromConfig(cfg.Guardrail))

	agg := stats.NewAggregator(cfg.HitThreshold()).
		WithObserver(metrics.NewPipeline(prometheus.DefaultRegisterer))

	answerSvc := answeruc.New(gate, ix, agg)
	healthSvc := healthuc.New(answerSvc)

	server := chiTransport.NewServer(answerSvc, agg, healthSvc, chiTransport.Defaults{
		K:          cfg.Retrieval.DefaultK,
		Similarity: mode.Mode(cfg.Retrieval.DefaultSimilarity),
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// policyFromConfig overlays configured tables on the built-in policy.
func policyFromConfig(c config.GuardrailConfig) guardrail.Policy {
	p := guardrail.DefaultPolicy()
	if len(c.DenyPhrases) > 0 {
		p.DenyPhrases = c.DenyPhrases
	}
	if len(c.DenyCombos) > 0 {
		p.DenyCombos = c.DenyCombos
	}
	if c.MaxWords > 0 {
		p.MaxWords = c.MaxWords
	}
	return p
}
