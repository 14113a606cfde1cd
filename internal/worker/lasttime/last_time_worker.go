package lasttime

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/metrics"
	"github.com/lasttime-service/internal/pkg/validator"
	"github.com/lasttime-service/internal/worker"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second
	publishBackoff  = 200 * time.Millisecond
	// claimIdle - через сколько неподтверждённое сообщение забирается повторно
	claimIdle = time.Minute
)

// Engine - движок последних рейсов
type Engine interface {
	Invoke(ctx context.Context, itinerary domain.Itinerary) []*domain.LastTimeResult
}

// LastTimeWorker читает маршруты из stream:lasttime:request и публикует результаты
type LastTimeWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	publisher    repository.ResultPublisher
	engine       Engine
	metrics      *metrics.Collector
	consumerName string
	maxRetries   int
}

func NewLastTimeWorker(
	streamRepo repository.StreamRepository,
	publisher repository.ResultPublisher,
	engine Engine,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
	m *metrics.Collector,
) *LastTimeWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &LastTimeWorker{
		BaseWorker:   worker.NewBaseWorker("last-time", domain.StreamLastTimeRequest, consumerGroup, logger),
		streamRepo:   streamRepo,
		publisher:    publisher,
		engine:       engine,
		metrics:      m,
		consumerName: consumerName,
		maxRetries:   maxRetries,
	}
}

// Start запускает воркер
func (w *LastTimeWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting LastTimeWorker",
		zap.String("stream", w.Stream()),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.Stream(), w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.ProcessBatch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.Error("Failed to process batch", zap.Error(err))
				w.Sleep(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.Sleep(ctx, emptyQueueSleep)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает batch сообщений.
// Когда новых нет, забирает зависшие (например, после неудачной публикации).
// Возвращает количество прочитанных сообщений.
func (w *LastTimeWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		w.Stream(),
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		messages, err = w.streamRepo.ClaimStale(ctx, w.Stream(), w.ConsumerGroup(), w.consumerName, claimIdle, maxBatchSize)
		if err != nil {
			return 0, fmt.Errorf("failed to claim stale messages: %w", err)
		}
		if len(messages) == 0 {
			return 0, nil
		}
		w.metrics.ObserveStreamEvent("reclaimed")
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		if w.handleMessage(ctx, msg) {
			ackIDs = append(ackIDs, msg.ID)
		}
	}

	if len(ackIDs) > 0 {
		if err := w.streamRepo.AckMessages(ctx, w.Stream(), w.ConsumerGroup(), ackIDs); err != nil {
			// не критично - сообщения будут переобработаны
			logger.Error("Failed to ack messages", zap.Error(err))
		}
	}

	return len(messages), nil
}

// handleMessage обрабатывает одно событие; false - сообщение не подтверждается
func (w *LastTimeWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) bool {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	event, err := parseMessage(msg)
	if err != nil {
		// битое сообщение подтверждаем, чтобы не застревало
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		w.metrics.ObserveStreamEvent("malformed")
		return true
	}

	logger = logger.With(zap.String("request_id", event.RequestID.String()))
	done := &domain.LastTimeDoneEvent{RequestID: event.RequestID}
	status := "processed"

	if err := validator.Validate(&event.Itinerary); err != nil {
		logger.Warn("Invalid itinerary", zap.Error(err))
		done.Results = []*domain.LastTimeResult{}
		done.Error = err.Error()
		status = "invalid"
	} else {
		done.Results = w.engine.Invoke(ctx, event.Itinerary)
	}

	if err := w.publish(ctx, done); err != nil {
		logger.Error("Failed to publish done event", zap.Error(err))
		w.metrics.ObserveStreamEvent("publish_failed")
		return false
	}

	w.metrics.ObserveStreamEvent(status)
	return true
}

func (w *LastTimeWorker) publish(ctx context.Context, event *domain.LastTimeDoneEvent) error {
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = w.publisher.PublishDone(ctx, event); err == nil {
			return nil
		}
		if attempt < w.maxRetries {
			w.Sleep(ctx, publishBackoff*time.Duration(attempt))
		}
	}
	return fmt.Errorf("publish after %d attempts: %w", w.maxRetries, err)
}

// parseMessage парсит сообщение из стрима в LastTimeRequestEvent
func parseMessage(msg domain.StreamMessage) (*domain.LastTimeRequestEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.LastTimeRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.RequestID == uuid.Nil {
		return nil, fmt.Errorf("missing request_id")
	}

	return &event, nil
}
