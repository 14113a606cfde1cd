package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// streamMaxLen - приблизительный предел длины стримов сервиса
	streamMaxLen = 100000
	dataField    = "data"
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
	block  time.Duration
}

type Option func(*streamRepository)

// WithReadBlock - сколько ConsumeBatch ждёт новых сообщений; по умолчанию не ждёт
func WithReadBlock(d time.Duration) Option {
	return func(r *streamRepository) {
		if d > 0 {
			r.block = d
		}
	}
}

func NewStreamRepository(client *redis.Client, logger *zap.Logger, opts ...Option) repository.StreamRepository {
	r := &streamRepository{
		client: client,
		logger: logger.With(zap.String("component", "streams")),
		block:  -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	// "$": группа видит только сообщения, пришедшие после создания
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	switch {
	case err == nil:
		r.logger.Info("Consumer group created", zap.String("stream", stream), zap.String("group", group))
		return nil
	case strings.HasPrefix(err.Error(), "BUSYGROUP"):
		return nil
	default:
		return fmt.Errorf("xgroup create %s/%s: %w", stream, group, err)
	}
}

func (r *streamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    r.block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup %s: %w", stream, err)
	}

	var out []domain.StreamMessage
	for _, s := range streams {
		out = append(out, r.decode(s.Stream, s.Messages)...)
	}
	return out, nil
}

func (r *streamRepository) ClaimStale(
	ctx context.Context,
	stream, group, consumer string,
	minIdle time.Duration,
	count int64,
) ([]domain.StreamMessage, error) {
	claimed, _, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Start:    "0-0",
		Count:    count,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xautoclaim %s: %w", stream, err)
	}

	if len(claimed) > 0 {
		r.logger.Info("Claimed stale messages",
			zap.String("stream", stream),
			zap.String("consumer", consumer),
			zap.Int("count", len(claimed)))
	}
	return r.decode(stream, claimed), nil
}

// decode отдаёт сообщения без поля data с пустым Data, чтобы потребитель мог их подтвердить
func (r *streamRepository) decode(stream string, messages []redis.XMessage) []domain.StreamMessage {
	out := make([]domain.StreamMessage, 0, len(messages))
	for _, msg := range messages {
		data, ok := msg.Values[dataField].(string)
		if !ok {
			r.logger.Warn("Stream message without data field",
				zap.String("stream", stream),
				zap.String("message_id", msg.ID))
		}
		out = append(out, domain.StreamMessage{ID: msg.ID, Data: data})
	}
	return out
}

func (r *streamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	if err := r.client.XAck(ctx, stream, group, messageIDs...).Err(); err != nil {
		return fmt.Errorf("xack %s (%d ids): %w", stream, len(messageIDs), err)
	}
	return nil
}

func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", stream, err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{dataField: string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", stream, err)
	}

	r.logger.Debug("Message added", zap.String("stream", stream), zap.String("message_id", id))
	return nil
}
