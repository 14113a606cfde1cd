package utils

import (
	"github.com/lasttime-service/internal/domain"
)

// Целочисленная сетка: координаты смещаются относительно (127°E, 37°N),
// умножаются на 100000 и усекаются. Так расхождения провайдеров в
// последних знаках не влияют на сравнение.
const (
	gridOriginLon = 127.0
	gridOriginLat = 37.0
	gridScale     = 100_000
)

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// GridCell переводит координату в целочисленную ячейку сетки
func GridCell(c domain.Coordinate) (x, y int64) {
	x = int64((c.Lon - gridOriginLon) * gridScale)
	y = int64((c.Lat - gridOriginLat) * gridScale)
	return x, y
}

// SquaredGridDistance - квадрат евклидова расстояния в сетке, без корня
func SquaredGridDistance(a, b domain.Coordinate) int64 {
	ax, ay := GridCell(a)
	bx, by := GridCell(b)
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}

// NearestIndex возвращает индекс ближайшей к ref точки или -1 для пустого списка.
// При равенстве расстояний побеждает первая точка.
func NearestIndex(ref domain.Coordinate, points []domain.Coordinate) int {
	best := -1
	var bestDistance int64
	for i, p := range points {
		d := SquaredGridDistance(ref, p)
		if best == -1 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best
}
