package domain

// Модели ответов провайдеров расписаний, уже приведённые к доменным типам.

// SubwayStation - станция линии метро
type SubwayStation struct {
	StationName string `json:"station_name"`
	FrCode      string `json:"fr_code"` // порядковый код станции на линии
	StationCode string `json:"station_code"`
}

// SubwayLastTime - строка расписания последнего поезда
type SubwayLastTime struct {
	DestinationStationName string `json:"destination_station_name"`
	LeftTime               string `json:"left_time"` // HH:MM:SS
}

// SeoulBusStation - остановка из поиска по имени (ars id)
type SeoulBusStation struct {
	StationName string     `json:"station_name"`
	ArsID       string     `json:"ars_id"`
	Coordinate  Coordinate `json:"coordinate"`
}

// SeoulBusRoute - маршрут, проходящий через остановку
type SeoulBusRoute struct {
	BusRouteName string `json:"bus_route_name"`
	RouteID      string `json:"route_id"`
	Term         int    `json:"term"` // интервал движения, минуты
}

// SeoulBusLastTime - последний рейс на остановке; LastTime в упакованном виде HHMMSS
type SeoulBusLastTime struct {
	LastTime string `json:"last_time"`
}

type GyeonggiBusStation struct {
	StationID   string     `json:"station_id"`
	StationName string     `json:"station_name"`
	Coordinate  Coordinate `json:"coordinate"`
}

type GyeonggiBusRoute struct {
	BusName string `json:"bus_name"`
	RouteID string `json:"route_id"`
}

// GyeonggiBusLastTime - последние рейсы маршрута в обе стороны, формат HH:MM
type GyeonggiBusLastTime struct {
	UpLastTime   string `json:"up_last_time"`
	DownLastTime string `json:"down_last_time"`
}
