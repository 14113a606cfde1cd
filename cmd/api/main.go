package main

// @title Last Time Service API
// @version 1.0.0
// @description Сервис расчёта последних рейсов общественного транспорта Сеула и Кёнгидо по маршруту от планировщика.
// @description
// @description Для каждого участка маршрута возвращает время последнего рейса и крайнее время выхода из начальной точки.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/lasttime-service/docs"
	"github.com/lasttime-service/internal/bootstrap"
	"github.com/lasttime-service/internal/config"
	httpDelivery "github.com/lasttime-service/internal/delivery/http"
	"github.com/lasttime-service/internal/delivery/http/handler"
	"github.com/lasttime-service/internal/pkg/logger"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lasttime-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting Last Time Service",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.GetServerAddr()),
		zap.Int("max_concurrent_legs", cfg.Engine.MaxConcurrentLegs))

	initCtx, cancelInit := context.WithTimeout(context.Background(), initTimeout)
	infra, err := bootstrap.New(initCtx, cfg, log, false)
	cancelInit()
	if err != nil {
		return fmt.Errorf("init infrastructure: %w", err)
	}
	defer infra.Close()

	engine, err := infra.NewEngine()
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	server := httpDelivery.NewServer(cfg, log, infra.Metrics, infra.Health, handler.NewLastTimeHandler(engine, log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("Server stopped")
	return nil
}
