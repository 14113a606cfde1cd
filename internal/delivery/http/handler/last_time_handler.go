package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/pkg/errors"
	"github.com/lasttime-service/internal/pkg/utils"
	"github.com/lasttime-service/internal/pkg/validator"
	"github.com/lasttime-service/internal/usecase/dto"
)

// LastTimeResolver - то, что нужно обработчику от движка последних рейсов
type LastTimeResolver interface {
	Resolve(ctx context.Context, req dto.LastTimeRequest) (*dto.LastTimeResponse, *dto.LastTimeMeta, error)
}

// LastTimeHandler - обработчик запросов на расчёт последних рейсов
type LastTimeHandler struct {
	lastTimeUC LastTimeResolver
	logger     *zap.Logger
}

func NewLastTimeHandler(lastTimeUC LastTimeResolver, logger *zap.Logger) *LastTimeHandler {
	return &LastTimeHandler{
		lastTimeUC: lastTimeUC,
		logger:     logger,
	}
}

// GetLastTime godoc
// @Summary Последние рейсы по маршруту
// @Description Для каждого участка маршрута возвращает время последнего рейса и крайнее время выхода. Пешие и неразрешимые участки дают null, длина results совпадает с числом участков.
// @Tags LastTime
// @Accept json
// @Produce json
// @Param request body dto.LastTimeRequest true "Маршрут от планировщика"
// @Success 200 {object} utils.SuccessResponse{data=dto.LastTimeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/last-time [post]
func (h *LastTimeHandler) GetLastTime(c *fiber.Ctx) error {
	var req dto.LastTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": err.Error(),
		}))
	}

	if req.RequestID == "" {
		req.RequestID = utils.RequestID(c)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, meta, err := h.lastTimeUC.Resolve(c.UserContext(), req)
	if err != nil {
		h.logger.Warn("Failed to resolve itinerary", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    meta.Legs,
		Resolved: meta.Resolved,
		TimeMSec: meta.TookMs,
	})
}
