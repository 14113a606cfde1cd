package usecase

import (
	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/pkg/utils"
)

// closestSeoulBusStation возвращает arsId ближайшей остановки с точно таким же именем
// или domain.UnknownID, если подходящих нет
func closestSeoulBusStation(place domain.Place, stations []domain.SeoulBusStation) string {
	ids := make([]string, 0, len(stations))
	points := make([]domain.Coordinate, 0, len(stations))
	for _, s := range stations {
		if s.StationName != place.Name {
			continue
		}
		ids = append(ids, s.ArsID)
		points = append(points, s.Coordinate)
	}
	return nearestID(place.Coordinate, ids, points)
}

// closestGyeonggiBusStation - то же для остановок Кёнгидо
func closestGyeonggiBusStation(place domain.Place, stations []domain.GyeonggiBusStation) string {
	ids := make([]string, 0, len(stations))
	points := make([]domain.Coordinate, 0, len(stations))
	for _, s := range stations {
		if s.StationName != place.Name {
			continue
		}
		ids = append(ids, s.StationID)
		points = append(points, s.Coordinate)
	}
	return nearestID(place.Coordinate, ids, points)
}

func nearestID(ref domain.Coordinate, ids []string, points []domain.Coordinate) string {
	i := utils.NearestIndex(ref, points)
	if i < 0 || ids[i] == "" {
		return domain.UnknownID
	}
	return ids[i]
}
