package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/domain"
	redisRepo "github.com/lasttime-service/internal/repository/redis"
)

const (
	testStream = "test:stream:lasttime:request"
	testGroup  = "test-group"
)

func getTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	// повторное создание не ошибка
	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	messages, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 1)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	event := domain.LastTimeDoneEvent{
		RequestID: uuid.New(),
		Results:   []*domain.LastTimeResult{nil, {Mode: domain.ModeBus, LastTime: "23:00:00"}},
	}
	require.NoError(t, repo.PublishToStream(ctx, domain.StreamLastTimeDone, event))

	messages, err := client.XRange(ctx, domain.StreamLastTimeDone, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)

	var got domain.LastTimeDoneEvent
	require.NoError(t, json.Unmarshal([]byte(messages[0].Values["data"].(string)), &got))
	assert.Equal(t, event.RequestID, got.RequestID)
	require.Len(t, got.Results, 2)
	assert.Nil(t, got.Results[0])
	assert.Equal(t, "23:00:00", got.Results[1].LastTime)
}

func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	empty, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.PublishToStream(ctx, testStream, map[string]int{"n": i}))
	}
	// сообщение без поля data отдаётся с пустым Data
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: testStream,
		Values: map[string]interface{}{"other": "x"},
	}).Err())

	messages, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.JSONEq(t, `{"n":0}`, messages[0].Data)

	rest, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Empty(t, rest[1].Data)

	ids := []string{messages[0].ID, messages[1].ID, rest[0].ID}
	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, ids))
	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, nil))

	pending, err := client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

func TestStreamRepository_ClaimStale(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
	require.NoError(t, repo.PublishToStream(ctx, testStream, map[string]string{"hello": "world"}))

	// c1 читает, но не подтверждает
	read, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 10)
	require.NoError(t, err)
	require.Len(t, read, 1)

	none, err := repo.ClaimStale(ctx, testStream, testGroup, "c2", time.Hour, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	claimed, err := repo.ClaimStale(ctx, testStream, testGroup, "c2", 0, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, read[0].ID, claimed[0].ID)
	assert.JSONEq(t, `{"hello":"world"}`, claimed[0].Data)

	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, []string{claimed[0].ID}))
	pending, err := client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestStreamRepository_ReadBlock(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop(), redisRepo.WithReadBlock(50*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	start := time.Now()
	messages, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
