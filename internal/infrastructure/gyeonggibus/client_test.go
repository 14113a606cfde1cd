package gyeonggibus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/config"
	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.ProvidersConfig{
		GyeonggiBus:    config.ProviderConfig{BaseURL: server.URL, Key: "gg-key"},
		RequestTimeout: time.Second,
		MaxAttempts:    1,
	}
	return NewBusClient(cfg, zap.NewNop(), nil).(*client)
}

func TestFlexString(t *testing.T) {
	var items []routeItem
	err := json.Unmarshal([]byte(`[{"routeId":234000016,"routeName":7770},{"routeId":"200000103","routeName":"M5107"}]`), &items)
	require.NoError(t, err)
	assert.Equal(t, flexString("234000016"), items[0].RouteID)
	assert.Equal(t, flexString("7770"), items[0].RouteName)
	assert.Equal(t, flexString("M5107"), items[1].RouteName)
}

func TestDecodeList(t *testing.T) {
	single, err := decodeList[routeItem](json.RawMessage(`{"routeId":1,"routeName":"1"}`))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	empty, err := decodeList[routeItem](json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestClient_GetGyeonggiBusStationID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/busstationservice/v2/getBusStationListv2", r.URL.Path)
		assert.Equal(t, "수원역", r.URL.Query().Get("keyword"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{"response":{"msgHeader":{"resultCode":0,"resultMessage":"정상적으로 처리되었습니다."},
			"msgBody":{"busStationList":[{"stationId":202000061,"stationName":"수원역","x":127.0,"y":37.25}]}}}`))
	})

	stations, err := c.GetGyeonggiBusStationID(context.Background(), "수원역")
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, domain.GyeonggiBusStation{
		StationID:   "202000061",
		StationName: "수원역",
		Coordinate:  domain.Coordinate{Lat: 37.25, Lon: 127.0},
	}, stations[0])
}

func TestClient_GetGyeonggiBusRoute_NoResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"msgHeader":{"resultCode":4,"resultMessage":"결과가 존재하지 않습니다."},"msgBody":null}}`))
	})

	routes, err := c.GetGyeonggiBusRoute(context.Background(), "202000061")
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestClient_GetGyeonggiBusLastTime(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "234000016", r.URL.Query().Get("routeId"))
		w.Write([]byte(`{"response":{"msgHeader":{"resultCode":0},
			"msgBody":{"busRouteInfoItem":{"routeId":234000016,"upLastTime":"23:10","downLastTime":"22:40"}}}}`))
	})

	rows, err := c.GetGyeonggiBusLastTime(context.Background(), "234000016")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.GyeonggiBusLastTime{UpLastTime: "23:10", DownLastTime: "22:40"}, rows[0])
}

func TestClient_GetGyeonggiBusRouteStations(t *testing.T) {
	t.Run("sorted by sequence", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":{"msgHeader":{"resultCode":0},
				"msgBody":{"busRouteStationList":[
					{"stationId":"3","stationName":"C","stationSeq":3},
					{"stationId":"1","stationName":"A","stationSeq":1},
					{"stationId":"2","stationName":"B","stationSeq":2}]}}}`))
		})

		stations, err := c.GetGyeonggiBusRouteStations(context.Background(), "234000016")
		require.NoError(t, err)
		require.Len(t, stations, 3)
		assert.Equal(t, "A", stations[0].StationName)
		assert.Equal(t, "C", stations[2].StationName)
	})

	t.Run("service error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":{"msgHeader":{"resultCode":30,"resultMessage":"등록되지 않은 서비스키"}}}`))
		})

		_, err := c.GetGyeonggiBusRouteStations(context.Background(), "1")
		assert.ErrorIs(t, err, errors.ErrProviderUnavailable)
	})
}
