package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamLastTimeRequest = "stream:lasttime:request"
	StreamLastTimeDone    = "stream:lasttime:done"
)

// LastTimeRequestEvent - входящее событие на расчёт последних рейсов
type LastTimeRequestEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Itinerary Itinerary `json:"itinerary"`
}

// LastTimeDoneEvent - результат расчёта; Results совпадает по длине с Itinerary.Legs
type LastTimeDoneEvent struct {
	RequestID uuid.UUID         `json:"request_id"`
	Results   []*LastTimeResult `json:"results"`
	Error     string            `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
