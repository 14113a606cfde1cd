package repository

import (
	"context"
	"time"

	"github.com/lasttime-service/internal/domain"
)

// StreamRepository - очередь запросов поверх Redis Streams с consumer group
type StreamRepository interface {
	// CreateConsumerGroup создаёт группу и стрим; существующая группа не ошибка
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch читает до count новых сообщений; пустой результат - очередь пуста
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error)

	// ClaimStale забирает себе сообщения, не подтверждённые дольше minIdle
	ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]domain.StreamMessage, error)

	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error

	// PublishToStream кладёт JSON представление data в поле "data"
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// ResultPublisher доставляет готовые результаты потребителям (Redis Stream или NATS)
type ResultPublisher interface {
	PublishDone(ctx context.Context, event *domain.LastTimeDoneEvent) error
	Close() error
}
