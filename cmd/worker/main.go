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

	"go.uber.org/zap"

	"github.com/lasttime-service/internal/bootstrap"
	"github.com/lasttime-service/internal/config"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/metrics"
	"github.com/lasttime-service/internal/pkg/logger"
	"github.com/lasttime-service/internal/publisher"
	redisRepo "github.com/lasttime-service/internal/repository/redis"
	"github.com/lasttime-service/internal/worker"
	"github.com/lasttime-service/internal/worker/lasttime"
)

const initTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lasttime-worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Worker.Enabled {
		fmt.Fprintln(os.Stderr, "worker is disabled, set WORKER_ENABLED=true to enable")
		return nil
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting Last Time Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("publisher", cfg.Worker.Publisher))

	// Redis нужен всегда: из него читается очередь запросов
	initCtx, cancelInit := context.WithTimeout(context.Background(), initTimeout)
	infra, err := bootstrap.New(initCtx, cfg, log, true)
	cancelInit()
	if err != nil {
		return fmt.Errorf("init infrastructure: %w", err)
	}
	defer infra.Close()

	engine, err := infra.NewEngine()
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	streams := redisRepo.NewStreamRepository(infra.Redis.Client(), log,
		redisRepo.WithReadBlock(cfg.Worker.StreamReadTimeout))

	results, err := newPublisher(cfg, streams, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := results.Close(); err != nil {
			log.Error("Failed to close publisher", zap.Error(err))
		}
	}()

	if cfg.Metrics.Enabled {
		srv := serveMetrics(cfg.GetServerAddr(), infra.Metrics, log)
		defer srv.Close()
	}

	manager := worker.NewWorkerManager(log)
	manager.Register(lasttime.NewLastTimeWorker(
		streams,
		results,
		engine,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
		infra.Metrics,
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	case <-manager.Done():
		log.Warn("Workers exited before shutdown signal")
	}

	if err := manager.Stop(); err != nil {
		return fmt.Errorf("stop workers: %w", err)
	}

	log.Info("Worker shutdown complete")
	return nil
}

func newPublisher(cfg *config.Config, streams repository.StreamRepository, log *zap.Logger) (repository.ResultPublisher, error) {
	if cfg.Worker.Publisher == "nats" {
		p, err := publisher.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, log)
		if err != nil {
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		return p, nil
	}
	return publisher.NewStreamPublisher(streams), nil
}

// serveMetrics отдает /metrics отдельным net/http сервером: у воркера нет Fiber приложения
func serveMetrics(addr string, m *metrics.Collector, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()
	log.Info("Metrics endpoint started", zap.String("addr", addr))
	return srv
}
