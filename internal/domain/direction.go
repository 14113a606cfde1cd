package domain

// DirectionType - направление движения относительно линии/маршрута
type DirectionType string

const (
	DirectionUnknown DirectionType = "UNKNOWN"
	DirectionInner   DirectionType = "INNER"    // внутреннее кольцо (линия 2)
	DirectionOuter   DirectionType = "OUTER"    // внешнее кольцо (линия 2)
	DirectionToFirst DirectionType = "TO_FIRST" // к начальной станции
	DirectionToEnd   DirectionType = "TO_END"   // к конечной станции
)

// InOutTag возвращает код направления для сервиса последних поездов метро Сеула:
// "1" - 상행/내선, "2" - 하행/외선.
func (d DirectionType) InOutTag() string {
	switch d {
	case DirectionInner, DirectionToFirst:
		return "1"
	default:
		return "2"
	}
}

// WeekType - тип дня для расписания метро
type WeekType string

const (
	WeekTypeWeekday  WeekType = "WEEK"
	WeekTypeSaturday WeekType = "SATURDAY"
	WeekTypeHoliday  WeekType = "HOLIDAY"
)

// Tag - код дня недели в API метро Сеула
func (w WeekType) Tag() string {
	switch w {
	case WeekTypeSaturday:
		return "2"
	case WeekTypeHoliday:
		return "3"
	default:
		return "1"
	}
}
