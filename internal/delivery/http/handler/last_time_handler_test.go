package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/delivery/http/handler"
	"github.com/lasttime-service/internal/domain"
	apperrors "github.com/lasttime-service/internal/pkg/errors"
	"github.com/lasttime-service/internal/usecase/dto"
)

type MockLastTimeResolver struct {
	mock.Mock
}

func (m *MockLastTimeResolver) Resolve(ctx context.Context, req dto.LastTimeRequest) (*dto.LastTimeResponse, *dto.LastTimeMeta, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*dto.LastTimeResponse), args.Get(1).(*dto.LastTimeMeta), args.Error(2)
}

func newApp(resolver handler.LastTimeResolver) *fiber.App {
	app := fiber.New()
	h := handler.NewLastTimeHandler(resolver, zap.NewNop())
	app.Post("/api/v1/last-time", h.GetLastTime)
	return app
}

const itineraryBody = `{"itinerary": {"legs": [
	{"mode": "WALK", "section_time": 300},
	{"mode": "BUS", "route_info": "BUS:162", "section_time": 1800,
	 "start": {"id": "P-1", "name": "종로1가", "coordinate": {"lat": 37.57, "lon": 126.983}},
	 "end": {"name": "광화문", "coordinate": {"lat": 37.571, "lon": 126.976}}}
]}}`

func TestLastTimeHandler_GetLastTime(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		resolver := &MockLastTimeResolver{}
		resolver.On("Resolve", mock.Anything, mock.MatchedBy(func(req dto.LastTimeRequest) bool {
			return len(req.Itinerary.Legs) == 2 && req.RequestID == "3b241101-e2bb-4255-8caf-4136c566a962"
		})).Return(&dto.LastTimeResponse{
			RequestID: "3b241101-e2bb-4255-8caf-4136c566a962",
			Results: []*domain.LastTimeResult{nil, {
				Mode:        domain.ModeBus,
				Area:        domain.AreaSeoul,
				LastTime:    "23:30:00",
				TimeToBoard: "23:00:00",
				Direction:   domain.DirectionUnknown,
			}},
		}, &dto.LastTimeMeta{Legs: 2, Resolved: 1}, nil)

		req := httptest.NewRequest("POST", "/api/v1/last-time", strings.NewReader(itineraryBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "3b241101-e2bb-4255-8caf-4136c566a962")

		resp, err := newApp(resolver).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var out struct {
			Data struct {
				RequestID string                   `json:"request_id"`
				Results   []*domain.LastTimeResult `json:"results"`
			} `json:"data"`
			Meta struct {
				Total    int `json:"total"`
				Resolved int `json:"resolved"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(body, &out))

		require.Len(t, out.Data.Results, 2)
		assert.Nil(t, out.Data.Results[0])
		assert.Equal(t, "23:00:00", out.Data.Results[1].TimeToBoard)
		assert.Equal(t, 2, out.Meta.Total)
		assert.Equal(t, 1, out.Meta.Resolved)

		resolver.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resolver := &MockLastTimeResolver{}

		req := httptest.NewRequest("POST", "/api/v1/last-time", strings.NewReader(`{"itinerary": [`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(resolver).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("empty itinerary", func(t *testing.T) {
		resolver := &MockLastTimeResolver{}

		req := httptest.NewRequest("POST", "/api/v1/last-time", strings.NewReader(`{"itinerary": {"legs": []}}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(resolver).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "INVALID_REQUEST")
	})

	t.Run("use case error", func(t *testing.T) {
		resolver := &MockLastTimeResolver{}
		resolver.On("Resolve", mock.Anything, mock.Anything).
			Return(nil, nil, apperrors.Wrap(apperrors.ErrInvalidRequest, "request id"))

		req := httptest.NewRequest("POST", "/api/v1/last-time", strings.NewReader(itineraryBody))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(resolver).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
