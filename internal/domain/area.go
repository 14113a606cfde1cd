package domain

import "strings"

// Area - регион, чей провайдер данных обслуживает остановку
type Area string

const (
	AreaSeoul       Area = "SEOUL"
	AreaGyeonggi    Area = "GYEONGGI"
	AreaUnsupported Area = "UNSUPPORTED"
)

// AreaFromCityDo определяет регион по названию города/провинции из обратного геокодирования
func AreaFromCityDo(cityDo string) Area {
	name := strings.TrimSpace(cityDo)
	switch {
	case strings.HasPrefix(name, "서울"), strings.EqualFold(name, "Seoul"):
		return AreaSeoul
	case strings.HasPrefix(name, "경기"), strings.EqualFold(name, "Gyeonggi-do"), strings.EqualFold(name, "Gyeonggi"):
		return AreaGyeonggi
	default:
		return AreaUnsupported
	}
}

// AddressType - тип адреса для обратного геокодирования
type AddressType string

const (
	AddressTypeLot  AddressType = "A04" // лотовый (지번) адрес
	AddressTypeRoad AddressType = "A03"
)

// Address - результат обратного геокодирования
type Address struct {
	CityDo string `json:"city_do"`
	GuGun  string `json:"gu_gun,omitempty"`
}
