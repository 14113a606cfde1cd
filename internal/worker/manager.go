package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout - сколько Stop ждёт завершения воркеров
const shutdownTimeout = 30 * time.Second

// WorkerManager запускает воркеры в общей errgroup: падение одного воркера
// отменяет контекст остальных. Register вызывается до Start.
type WorkerManager struct {
	workers []Worker
	logger  *zap.Logger
	timeout time.Duration

	group *errgroup.Group
	done  chan struct{}
	err   error
}

func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	return &WorkerManager{
		logger:  logger,
		timeout: shutdownTimeout,
		done:    make(chan struct{}),
	}
}

func (m *WorkerManager) Register(w Worker) {
	m.workers = append(m.workers, w)
	m.logger.Debug("Worker registered", zap.String("worker", w.Name()))
}

// Start запускает все воркеры и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	if len(m.workers) == 0 {
		return fmt.Errorf("worker manager: nothing to start")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range m.workers {
		w := w
		g.Go(func() error {
			err := w.Start(gctx)
			if err != nil && gctx.Err() == nil {
				m.logger.Error("Worker exited with error", zap.String("worker", w.Name()), zap.Error(err))
				return fmt.Errorf("worker %s: %w", w.Name(), err)
			}
			return nil
		})
	}
	m.group = g

	go func() {
		m.err = g.Wait()
		close(m.done)
	}()

	m.logger.Info("Workers started", zap.Int("count", len(m.workers)))
	return nil
}

// Done закрывается, когда все воркеры завершились (по Stop, отмене ctx или ошибке)
func (m *WorkerManager) Done() <-chan struct{} {
	return m.done
}

// Stop сигналит воркерам и ждёт их не дольше shutdownTimeout; возвращает первую ошибку воркера
func (m *WorkerManager) Stop() error {
	for _, w := range m.workers {
		if err := w.Stop(); err != nil {
			m.logger.Warn("Worker stop failed", zap.String("worker", w.Name()), zap.Error(err))
		}
	}
	if m.group == nil {
		return nil
	}

	select {
	case <-m.done:
		m.logger.Info("Workers stopped")
		return m.err
	case <-time.After(m.timeout):
		return fmt.Errorf("workers did not stop within %v, unacked messages stay pending", m.timeout)
	}
}
