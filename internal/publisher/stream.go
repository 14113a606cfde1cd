package publisher

import (
	"context"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
)

type streamPublisher struct {
	streams repository.StreamRepository
	stream  string
}

// NewStreamPublisher публикует результаты в Redis Stream stream:lasttime:done
func NewStreamPublisher(streams repository.StreamRepository) repository.ResultPublisher {
	return &streamPublisher{streams: streams, stream: domain.StreamLastTimeDone}
}

func (p *streamPublisher) PublishDone(ctx context.Context, event *domain.LastTimeDoneEvent) error {
	return p.streams.PublishToStream(ctx, p.stream, event)
}

func (p *streamPublisher) Close() error {
	return nil
}
