package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lasttime-service/internal/metrics"
	apperrors "github.com/lasttime-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// StatusError - ответ провайдера с HTTP статусом >= 400
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Client - общий HTTP клиент провайдеров расписаний: GET + JSON с повторами
type Client struct {
	httpClient   *http.Client
	provider     string
	maxAttempts  int
	retryBackoff time.Duration
	logger       *zap.Logger
	metrics      *metrics.Collector
}

// NewClient создает клиент для одного провайдера
func NewClient(provider string, timeout time.Duration, maxAttempts int, logger *zap.Logger, m *metrics.Collector) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		provider:     provider,
		maxAttempts:  maxAttempts,
		retryBackoff: 200 * time.Millisecond,
		logger:       logger.With(zap.String("provider", provider)),
		metrics:      m,
	}
}

// WithRetryBackoff меняет начальную паузу между повторами (используется в тестах)
func (c *Client) WithRetryBackoff(d time.Duration) *Client {
	c.retryBackoff = d
	return c
}

// GetJSON выполняет GET запрос и декодирует JSON ответ в out.
// Сбой транспорта оборачивается в ErrProviderUnavailable, нечитаемый ответ - в ErrServerData
func (c *Client) GetJSON(
	ctx context.Context,
	operation string,
	endpoint string,
	query url.Values,
	headers map[string]string,
	out interface{},
) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveProvider(c.provider, operation, time.Since(start), err)
	}()

	fullURL := endpoint
	if len(query) > 0 {
		fullURL = endpoint + "?" + query.Encode()
	}

	c.logger.Debug("Calling provider API",
		zap.String("operation", operation),
		zap.String("endpoint", endpoint))

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	})
	if err != nil {
		c.logger.Warn("Provider request failed",
			zap.String("operation", operation),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w: %w", c.provider, operation, err, apperrors.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.ErrServerData, "%s %s: decode response: %v", c.provider, operation, err)
	}

	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry повторяет сетевые ошибки и 429/5xx с экспоненциальной паузой
func (c *Client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := c.retryBackoff

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.maxAttempts {
			return nil, lastErr
		}

		c.logger.Debug("Retrying provider request",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
