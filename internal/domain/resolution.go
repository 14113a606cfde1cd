package domain

// UnknownID - значение id, которое ещё не подтверждено провайдером
const UnknownID = "0"

// ResolutionRequest - единица, которая проходит через конвейер одного участка.
// Каждый этап возвращает новое значение через With* и не меняет исходное.
type ResolutionRequest struct {
	Index                 int           `json:"index"`
	Mode                  TransportMode `json:"mode"`
	Area                  Area          `json:"area"`
	StationID             string        `json:"station_id"`
	PlannerStationID      string        `json:"planner_station_id"` // id станции у планировщика маршрутов
	StationName           string        `json:"station_name"`
	Coordinate            Coordinate    `json:"coordinate"`
	StationType           int           `json:"station_type"`
	RouteID               string        `json:"route_id"`
	RouteName             string        `json:"route_name"`
	Term                  int           `json:"term"`
	Destination           Place         `json:"destination"`
	DestinationStationID  string        `json:"destination_station_id"`
	SectionTime           int           `json:"section_time"`
	CumulativeSectionTime int           `json:"cumulative_section_time"`
}

func (r ResolutionRequest) WithStationID(id string) ResolutionRequest {
	r.StationID = id
	return r
}

func (r ResolutionRequest) WithDestinationStationID(id string) ResolutionRequest {
	r.DestinationStationID = id
	return r
}

// WithRouteID подставляет id маршрута; term > 0 заменяет интервал движения
func (r ResolutionRequest) WithRouteID(id string, term int) ResolutionRequest {
	r.RouteID = id
	if term > 0 {
		r.Term = term
	}
	return r
}

func (r ResolutionRequest) WithArea(area Area) ResolutionRequest {
	r.Area = area
	return r
}
