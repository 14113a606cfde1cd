package usecase

import (
	"strings"
	"time"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/pkg/errors"
)

const (
	circleLine = 2

	// ответвление Сонсу - Синсольдон на линии 2
	circleBranchPrefix = "211-"

	// разница индексов, начиная с которой поездка против нумерации идёт по внутреннему кольцу
	circleIndexGap = 20
)

func onCircleBranch(stations []domain.SubwayStation, start, end int) bool {
	return strings.Contains(stations[start].FrCode, circleBranchPrefix) ||
		strings.Contains(stations[end].FrCode, circleBranchPrefix)
}

// classifySubwayDirection определяет направление по индексам станций в списке,
// отсортированном по FR_CODE
func classifySubwayDirection(line int, stations []domain.SubwayStation, start, end int) domain.DirectionType {
	if line != circleLine {
		if start < end {
			return domain.DirectionToEnd
		}
		return domain.DirectionToFirst
	}

	if start < end {
		if onCircleBranch(stations, start, end) {
			return domain.DirectionInner
		}
		return domain.DirectionOuter
	}

	if start-end >= circleIndexGap {
		return domain.DirectionInner
	}
	return domain.DirectionOuter
}

// stationCaseCorrection инвертирует правило выбора строки расписания.
// Применяется только к внешнему кольцу линии 2 при движении по возрастанию FR_CODE.
func stationCaseCorrection(
	line int,
	direction domain.DirectionType,
	stations []domain.SubwayStation,
	start, end int,
) bool {
	if line != circleLine || direction != domain.DirectionOuter {
		return false
	}
	return start < end && !onCircleBranch(stations, start, end)
}

// indexOfSubwayStation ищет станцию по имени; -1 если нет
func indexOfSubwayStation(stations []domain.SubwayStation, name string) int {
	for i, s := range stations {
		if s.StationName == name {
			return i
		}
	}
	return -1
}

// classifyBusDirection находит посадку и высадку на маршруте по id.
// Возвращает направление и индекс остановки посадки.
func classifyBusDirection(
	stations []domain.GyeonggiBusStation,
	startID, endID string,
) (domain.DirectionType, int, error) {
	start, end := -1, -1
	for i, s := range stations {
		if start == -1 && s.StationID == startID {
			start = i
		} else if end == -1 && s.StationID == endID {
			end = i
		}
	}

	if start == -1 || end == -1 {
		return domain.DirectionUnknown, -1, errors.Wrap(errors.ErrUnsupportedData,
			"stations %s/%s are not on the route", startID, endID)
	}

	if start < end {
		return domain.DirectionToEnd, start, nil
	}
	return domain.DirectionToFirst, start, nil
}

// towardsEnd - направление, для которого берётся upLastTime
func towardsEnd(d domain.DirectionType) bool {
	return d == domain.DirectionToEnd || d == domain.DirectionInner
}

// weekTypeOf - тип расписания метро для дня t
func weekTypeOf(t time.Time) domain.WeekType {
	switch t.Weekday() {
	case time.Saturday:
		return domain.WeekTypeSaturday
	case time.Sunday:
		return domain.WeekTypeHoliday
	default:
		return domain.WeekTypeWeekday
	}
}
