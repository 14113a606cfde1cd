package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
)

type natsPublisher struct {
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewNATSPublisher публикует результаты в subject.<request_id>
func NewNATSPublisher(url, subject string, logger *zap.Logger) (repository.ResultPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("lasttime-worker"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	logger.Info("NATS connected", zap.String("url", url), zap.String("subject", subject))

	return &natsPublisher{nc: nc, subject: subject, logger: logger}, nil
}

func (p *natsPublisher) PublishDone(ctx context.Context, event *domain.LastTimeDoneEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal done event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.subject, subjectToken(event.RequestID.String()))
	if err := p.nc.Publish(subject, b); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug("Done event published", zap.String("subject", subject))
	return nil
}

func (p *natsPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}

// subjectToken заменяет символы, недопустимые в токене subject
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
