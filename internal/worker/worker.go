package worker

import "context"

// Worker - фоновый потребитель очереди под управлением WorkerManager.
// Start блокируется до Stop или отмены ctx; Stop можно вызывать повторно.
type Worker interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}
