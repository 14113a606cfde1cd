package domain

import "strings"

// TransportMode - способ передвижения на участке маршрута
type TransportMode string

const (
	ModeWalk   TransportMode = "WALK"
	ModeBus    TransportMode = "BUS"
	ModeSubway TransportMode = "SUBWAY"
)

// ParseTransportMode нормализует режим, пришедший от планировщика маршрутов.
// Неизвестные режимы (EXPRESSBUS, TRAIN, AIRPLANE ...) возвращают ok=false.
func ParseTransportMode(s string) (TransportMode, bool) {
	switch TransportMode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeWalk:
		return ModeWalk, true
	case ModeBus:
		return ModeBus, true
	case ModeSubway:
		return ModeSubway, true
	default:
		return "", false
	}
}

// IsTransit - bus or subway
func (m TransportMode) IsTransit() bool {
	return m == ModeBus || m == ModeSubway
}

type Coordinate struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// Place - точка маршрута с человекочитаемым именем
type Place struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
}

// Station - остановка/станция в терминах планировщика маршрутов.
// ID принадлежит планировщику, а не провайдерам расписаний.
type Station struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
}

// Leg - один участок маршрута. Для пеших участков заполнены только Mode и SectionTime.
type Leg struct {
	Mode        string  `json:"mode" validate:"required"`
	Start       Station `json:"start"`
	End         Place   `json:"end"`
	RouteInfo   string  `json:"route_info,omitempty"` // "<label>:<line name>", например "BUS:162"
	RouteType   int     `json:"route_type,omitempty"` // номер линии метро / код типа маршрута
	SectionTime int     `json:"section_time"`         // секунды на участке
}

// Itinerary - упорядоченный список участков, полученный от планировщика
type Itinerary struct {
	Legs []Leg `json:"legs" validate:"required,min=1,dive"`
}
