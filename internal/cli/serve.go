package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/llmetrics/llmetrics/infrastructure/judge"
	"github.com/llmetrics/llmetrics/infrastructure/llm"
	"github.com/llmetrics/llmetrics/infrastructure/metrics"
	"github.com/llmetrics/llmetrics/infrastructure/storage"
	"github.com/llmetrics/llmetrics/internal/application"
	"github.com/llmetrics/llmetrics/internal/domain"
	"github.com/llmetrics/llmetrics/internal/ports"
	"github.com/llmetrics/llmetrics/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the evaluation API server",
	Long: `Start the HTTP server exposing the evaluation API.

Examples:
  llmetrics serve                          # defaults, secrets from env
  llmetrics serve --config llmetrics.yaml  # explicit configuration file`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to YAML configuration file")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := application.LoadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	secrets, err := application.LoadSecrets()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(secrets.DatabaseURL, secrets.DatabaseAuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	store, err := storage.NewStore(ctx, db)
	if err != nil {
		return err
	}

	collector := metrics.NewPrometheusCollector()

	registry := llm.NewAdapterRegistry()
	for _, provider := range cfg.Providers {
		client, err := buildClient(provider.Provider, llm.ClientConfig{
			APIKey:  secrets.APIKeyFor(provider.Provider),
			Model:   provider.Model,
			BaseURL: provider.BaseURL,
		}, cfg, collector)
		if err != nil {
			return fmt.Errorf("failed to build client for %s: %w", provider.Name, err)
		}

		adapter, err := llm.NewChatAdapter(provider.Name, client)
		if err != nil {
			return err
		}
		registry.Register(adapter)
		logger.Info("model registered",
			"model", provider.Name,
			"provider", provider.Provider,
			"provider_model", provider.Model,
		)
	}

	judgeClient, err := buildClient(cfg.Judge.Provider, llm.ClientConfig{
		APIKey: secrets.APIKeyFor(cfg.Judge.Provider),
		Model:  cfg.Judge.Model,
	}, cfg, collector)
	if err != nil {
		return fmt.Errorf("failed to build judge client: %w", err)
	}
	evaluator, err := judge.New(judgeClient, judge.Config{
		Temperature: cfg.Judge.Temperature,
		MaxTokens:   cfg.Judge.MaxTokens,
	}, logger)
	if err != nil {
		return err
	}

	rates := domain.DefaultRateTable().Merge(cfg.Pricing)

	orchestrator, err := application.NewOrchestrator(
		registry, evaluator, rates, store, collector, logger)
	if err != nil {
		return err
	}

	router := web.NewServer(orchestrator, store, logger).Router()
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr, "models", registry.Models())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildClient assembles the middleware chain shared by every provider
// client: timeout outermost, then rate limiting, tracing, and metrics
// closest to the wire.
func buildClient(providerType string, config llm.ClientConfig, cfg application.Config, collector *metrics.PrometheusCollector) (ports.LLMClient, error) {
	var middleware []llm.Middleware
	if timeout := cfg.RequestTimeout.Std(); timeout > 0 {
		middleware = append(middleware, llm.TimeoutMiddleware(timeout))
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		middleware = append(middleware, llm.RateLimitMiddleware(rate.Limit(cfg.RateLimit), burst))
	}
	middleware = append(middleware,
		llm.TracingMiddleware("llmetrics"),
		llm.MetricsMiddleware(providerType, collector),
	)

	config.Timeout = cfg.RequestTimeout.Std()
	config.Middleware = middleware
	return llm.NewClient(providerType, config)
}
