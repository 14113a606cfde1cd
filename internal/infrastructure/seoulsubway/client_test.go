package seoulsubway

import (
	"context"
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
		SeoulSubway:    config.ProviderConfig{BaseURL: server.URL, Key: "test-key"},
		RequestTimeout: time.Second,
		MaxAttempts:    1,
	}
	return NewSubwayClient(cfg, zap.NewNop(), nil).(*client)
}

func TestLineName(t *testing.T) {
	assert.Equal(t, "02호선", LineName("2"))
	assert.Equal(t, "08호선", LineName("8"))
	assert.Equal(t, "경의선", LineName("경의선"))
}

func TestClient_GetSubwayStationCd(t *testing.T) {
	t.Run("picks row of requested line", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/test-key/json/SearchInfoBySubwayNameService/1/50/서울역", r.URL.Path)
			w.Write([]byte(`{"SearchInfoBySubwayNameService":{"list_total_count":2,
				"RESULT":{"CODE":"INFO-000","MESSAGE":"정상 처리되었습니다"},
				"row":[{"STATION_CD":"0150","STATION_NM":"서울역","LINE_NUM":"01호선","FR_CODE":"133"},
				       {"STATION_CD":"0426","STATION_NM":"서울역","LINE_NUM":"04호선","FR_CODE":"426"}]}}`))
		})

		cd, err := c.GetSubwayStationCd(context.Background(), "110", "서울역", 4)
		require.NoError(t, err)
		assert.Equal(t, "0426", cd)
	})

	t.Run("retries without station suffix", func(t *testing.T) {
		var paths []string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path == "/test-key/json/SearchInfoBySubwayNameService/1/50/강남역" {
				w.Write([]byte(`{"RESULT":{"CODE":"INFO-200","MESSAGE":"해당하는 데이터가 없습니다."}}`))
				return
			}
			w.Write([]byte(`{"SearchInfoBySubwayNameService":{"list_total_count":1,
				"RESULT":{"CODE":"INFO-000"},
				"row":[{"STATION_CD":"0222","STATION_NM":"강남","LINE_NUM":"02호선","FR_CODE":"222"}]}}`))
		})

		cd, err := c.GetSubwayStationCd(context.Background(), "1", "강남역", 2)
		require.NoError(t, err)
		assert.Equal(t, "0222", cd)
		assert.Len(t, paths, 2)
	})

	t.Run("not found returns empty code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"RESULT":{"CODE":"INFO-200","MESSAGE":"해당하는 데이터가 없습니다."}}`))
		})

		cd, err := c.GetSubwayStationCd(context.Background(), "1", "없는역", 2)
		require.NoError(t, err)
		assert.Empty(t, cd)
	})

	t.Run("invalid key", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"RESULT":{"CODE":"INFO-100","MESSAGE":"인증키가 유효하지 않습니다."}}`))
		})

		_, err := c.GetSubwayStationCd(context.Background(), "1", "시청", 1)
		assert.ErrorIs(t, err, errors.ErrProviderUnavailable)
	})
}

func TestClient_GetSubwayStations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/json/SearchSTNBySubwayLineInfo/1/1000/ / /02호선", r.URL.Path)
		w.Write([]byte(`{"SearchSTNBySubwayLineInfo":{"list_total_count":2,
			"RESULT":{"CODE":"INFO-000"},
			"row":[{"STATION_CD":"0202","STATION_NM":"을지로입구","LINE_NUM":"02호선","FR_CODE":"202"},
			       {"STATION_CD":"0201","STATION_NM":"시청","LINE_NUM":"02호선","FR_CODE":"201"}]}}`))
	})

	stations, err := c.GetSubwayStations(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, domain.SubwayStation{StationName: "을지로입구", FrCode: "202", StationCode: "0202"}, stations[0])
}

func TestClient_GetSubwayStationLastTime(t *testing.T) {
	t.Run("maps rows", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/test-key/json/SearchLastTrainTimeByIDService/1/50/0222/2/1", r.URL.Path)
			w.Write([]byte(`{"SearchLastTrainTimeByIDService":{"list_total_count":1,
				"RESULT":{"CODE":"INFO-000"},
				"row":[{"STATION_CD":"0222","STATION_NM":"강남","LEFTTIME":"00:12:30","SUBWAYSNAME":"성수","SUBWAYENAME":"성수"}]}}`))
		})

		rows, err := c.GetSubwayStationLastTime(context.Background(), "0222", domain.DirectionInner, domain.WeekTypeSaturday)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "성수", rows[0].DestinationStationName)
		assert.Equal(t, "00:12:30", rows[0].LeftTime)
	})

	t.Run("malformed rows", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"SearchLastTrainTimeByIDService":{"RESULT":{"CODE":"INFO-000"},"row":{"LEFTTIME":1}}}`))
		})

		_, err := c.GetSubwayStationLastTime(context.Background(), "0222", domain.DirectionOuter, domain.WeekTypeWeekday)
		assert.ErrorIs(t, err, errors.ErrServerData)
	})
}
