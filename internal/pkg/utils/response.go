package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	apperrors "github.com/lasttime-service/internal/pkg/errors"
)

// HeaderRequestID - заголовок корреляции запроса
const HeaderRequestID = fiber.HeaderXRequestID

// requestIDLocal - ключ, под которым middleware requestid кладёт идентификатор
const requestIDLocal = "requestid"

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error     *apperrors.AppError `json:"error"`
	RequestID string              `json:"request_id,omitempty"`
}

// Meta - сводка по участкам маршрута
type Meta struct {
	Total    int     `json:"total"`
	Resolved int     `json:"resolved"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

// RequestID возвращает идентификатор, выданный middleware, или присланный клиентом заголовок
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDLocal).(string); ok && id != "" {
		return id
	}
	return c.Get(HeaderRequestID)
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{Data: data, Meta: meta})
}

// SendError отдает AppError как есть, все прочие ошибки скрываются за ErrInternalServer
func SendError(c *fiber.Ctx, err error) error {
	appErr := apperrors.ErrInternalServer
	var target *apperrors.AppError
	if errors.As(err, &target) {
		appErr = target
	}

	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Error:     appErr,
		RequestID: RequestID(c),
	})
}
