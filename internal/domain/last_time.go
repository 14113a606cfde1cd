package domain

// TransportStation - станция в результирующих списках
type TransportStation struct {
	StationName string `json:"station_name"`
	StationID   string `json:"station_id"`
}

// LastTimeResult - последний рейс для одного участка маршрута.
// TimeToBoard может быть отрицательным: участок уже недостижим.
type LastTimeResult struct {
	Mode                      TransportMode      `json:"mode"`
	Area                      Area               `json:"area"`
	LastTime                  string             `json:"last_time"`
	TimeToBoard               string             `json:"time_to_board"`
	DestinationStationName    string             `json:"destination_station_name"`
	StationsUntilStart        []TransportStation `json:"stations_until_start"`
	EnableDestinationStations []TransportStation `json:"enable_destination_stations"`
	Direction                 DirectionType      `json:"direction"`
	RouteID                   string             `json:"route_id"`
	Term                      int                `json:"term,omitempty"`
}
