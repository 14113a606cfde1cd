package dto

import "github.com/lasttime-service/internal/domain"

// LastTimeRequest - запрос на расчёт последних рейсов по маршруту
type LastTimeRequest struct {
	RequestID string           `json:"request_id,omitempty" validate:"omitempty,uuid"`
	Itinerary domain.Itinerary `json:"itinerary"`
}

// LastTimeResponse - результаты по участкам; null для пеших и неразрешимых
type LastTimeResponse struct {
	RequestID string                   `json:"request_id"`
	Results   []*domain.LastTimeResult `json:"results"`
}

// LastTimeMeta - сводка по расчёту
type LastTimeMeta struct {
	Legs     int     `json:"legs"`
	Resolved int     `json:"resolved"`
	TookMs   float64 `json:"took_ms"`
}
