package errors

import "net/http"

const (
	CodeUnsupportedArea     = "UNSUPPORTED_AREA"
	CodeUnsupportedData     = "UNSUPPORTED_DATA"
	CodeServerData          = "SERVER_DATA"
	CodeScheduleLogic       = "SCHEDULE_LOGIC"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeUnknown             = "UNKNOWN"
)

// Отказы уровня участка маршрута. Никогда не выходят за пределы движка.
var (
	ErrUnsupportedArea = New(
		CodeUnsupportedArea,
		"Area has no transit data provider",
		http.StatusUnprocessableEntity,
	)

	ErrUnsupportedData = New(
		CodeUnsupportedData,
		"Leg is not supported by the provider",
		http.StatusUnprocessableEntity,
	)

	ErrServerData = New(
		CodeServerData,
		"Provider returned inconsistent data",
		http.StatusBadGateway,
	)

	ErrScheduleLogic = New(
		CodeScheduleLogic,
		"No last departure row matches the direction",
		http.StatusInternalServerError,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"Malformed input",
		http.StatusBadRequest,
	)
)

var (
	ErrProviderUnavailable = New(
		CodeProviderUnavailable,
		"Transit data provider is unavailable",
		http.StatusBadGateway,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
