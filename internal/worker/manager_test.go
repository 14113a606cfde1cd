package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/worker"
)

type blockingWorker struct {
	*worker.BaseWorker
	started atomic.Bool
}

func (w *blockingWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	select {
	case <-w.StopChan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	w := &blockingWorker{BaseWorker: worker.NewBaseWorker("blocking", "stream:test", "group", zap.NewNop())}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, w.started.Load, time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, w.IsStopped())
	assert.Equal(t, "group", w.ConsumerGroup())
	assert.Equal(t, "stream:test", w.Stream())
}

type failingWorker struct {
	*worker.BaseWorker
}

func (w *failingWorker) Start(context.Context) error {
	return errors.New("consumer group missing")
}

func TestWorkerManager_FailureCancelsSiblings(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	sibling := &blockingWorker{BaseWorker: worker.NewBaseWorker("blocking", "stream:test", "group", zap.NewNop())}
	m.Register(sibling)
	m.Register(&failingWorker{BaseWorker: worker.NewBaseWorker("failing", "stream:test", "group", zap.NewNop())})

	require.NoError(t, m.Start(context.Background()))

	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not finish after worker failure")
	}

	err := m.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker failing")
}
