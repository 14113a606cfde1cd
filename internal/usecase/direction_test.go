package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasttime-service/internal/domain"
	apperrors "github.com/lasttime-service/internal/pkg/errors"
)

// circleStations - 43 станции линии 2 с FR_CODE 201..243
func circleStations() []domain.SubwayStation {
	stations := make([]domain.SubwayStation, 43)
	for i := range stations {
		code := fmt.Sprintf("2%02d", i+1)
		stations[i] = domain.SubwayStation{StationName: "S" + code, FrCode: code, StationCode: "0" + code}
	}
	return stations
}

func TestClassifySubwayDirection_Circle(t *testing.T) {
	stations := circleStations()

	tests := []struct {
		name       string
		start, end int
		want       domain.DirectionType
		correction bool
	}{
		{"ascending is outer", 10, 40, domain.DirectionOuter, true},
		{"descending with large gap is inner", 40, 15, domain.DirectionInner, false},
		{"descending with small gap is outer", 25, 15, domain.DirectionOuter, false},
		{"gap of exactly 20 is inner", 30, 10, domain.DirectionInner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySubwayDirection(circleLine, stations, tt.start, tt.end)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.correction, stationCaseCorrection(circleLine, got, stations, tt.start, tt.end))
		})
	}
}

func TestClassifySubwayDirection_Branch(t *testing.T) {
	stations := circleStations()
	stations[12].FrCode = "211-1"

	got := classifySubwayDirection(circleLine, stations, 5, 12)
	assert.Equal(t, domain.DirectionInner, got)
	assert.False(t, stationCaseCorrection(circleLine, got, stations, 5, 12))
}

func TestClassifySubwayDirection_Linear(t *testing.T) {
	stations := []domain.SubwayStation{
		{StationName: "A", FrCode: "409"},
		{StationName: "B", FrCode: "410"},
		{StationName: "C", FrCode: "411"},
	}

	assert.Equal(t, domain.DirectionToEnd, classifySubwayDirection(4, stations, 0, 2))
	assert.Equal(t, domain.DirectionToFirst, classifySubwayDirection(4, stations, 2, 0))
	assert.False(t, stationCaseCorrection(4, domain.DirectionToEnd, stations, 0, 2))
}

func TestIndexOfSubwayStation(t *testing.T) {
	stations := []domain.SubwayStation{{StationName: "시청"}, {StationName: "을지로입구"}}

	assert.Equal(t, 1, indexOfSubwayStation(stations, "을지로입구"))
	assert.Equal(t, -1, indexOfSubwayStation(stations, "을지로입구역"))
}

func TestClassifyBusDirection(t *testing.T) {
	stations := []domain.GyeonggiBusStation{
		{StationID: "100"}, {StationID: "200"}, {StationID: "300"}, {StationID: "400"},
	}

	t.Run("towards end", func(t *testing.T) {
		dir, start, err := classifyBusDirection(stations, "200", "400")
		require.NoError(t, err)
		assert.Equal(t, domain.DirectionToEnd, dir)
		assert.Equal(t, 1, start)
		assert.True(t, towardsEnd(dir))
	})

	t.Run("towards first", func(t *testing.T) {
		dir, start, err := classifyBusDirection(stations, "300", "100")
		require.NoError(t, err)
		assert.Equal(t, domain.DirectionToFirst, dir)
		assert.Equal(t, 2, start)
		assert.False(t, towardsEnd(dir))
	})

	t.Run("destination not on route", func(t *testing.T) {
		_, _, err := classifyBusDirection(stations, "200", "999")
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedData)
	})
}

func TestTowardsEnd_Inner(t *testing.T) {
	assert.True(t, towardsEnd(domain.DirectionInner))
	assert.False(t, towardsEnd(domain.DirectionOuter))
}

func TestWeekTypeOf(t *testing.T) {
	// 2024-03-01 - пятница
	friday := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.WeekTypeWeekday, weekTypeOf(friday))
	assert.Equal(t, domain.WeekTypeSaturday, weekTypeOf(friday.AddDate(0, 0, 1)))
	assert.Equal(t, domain.WeekTypeHoliday, weekTypeOf(friday.AddDate(0, 0, 2)))
}

func TestClosestBusStation(t *testing.T) {
	place := domain.Place{Name: "종로1가", Coordinate: domain.Coordinate{Lat: 37.5700, Lon: 126.9800}}

	t.Run("nearest with the same name", func(t *testing.T) {
		stations := []domain.SeoulBusStation{
			{StationName: "종로1가", ArsID: "01001", Coordinate: domain.Coordinate{Lat: 37.5800, Lon: 126.9900}},
			{StationName: "종로1가", ArsID: "01002", Coordinate: domain.Coordinate{Lat: 37.5701, Lon: 126.9801}},
			{StationName: "종로2가", ArsID: "01003", Coordinate: place.Coordinate},
		}
		assert.Equal(t, "01002", closestSeoulBusStation(place, stations))
	})

	t.Run("tie keeps the first candidate", func(t *testing.T) {
		stations := []domain.GyeonggiBusStation{
			{StationName: "종로1가", StationID: "A", Coordinate: place.Coordinate},
			{StationName: "종로1가", StationID: "B", Coordinate: place.Coordinate},
		}
		assert.Equal(t, "A", closestGyeonggiBusStation(place, stations))
	})

	t.Run("no matching name", func(t *testing.T) {
		stations := []domain.SeoulBusStation{{StationName: "광화문", ArsID: "01004"}}
		assert.Equal(t, domain.UnknownID, closestSeoulBusStation(place, stations))
	})
}

func TestLineName(t *testing.T) {
	name, err := lineName("BUS:162")
	require.NoError(t, err)
	assert.Equal(t, "162", name)

	_, err = lineName("162")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
