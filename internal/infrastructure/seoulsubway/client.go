package seoulsubway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lasttime-service/internal/config"
	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/infrastructure/httpx"
	"github.com/lasttime-service/internal/metrics"
	"github.com/lasttime-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	serviceStationByName = "SearchInfoBySubwayNameService"
	serviceLineStations  = "SearchSTNBySubwayLineInfo"
	serviceLastTrain     = "SearchLastTrainTimeByIDService"

	resultOK     = "INFO-000"
	resultNoData = "INFO-200"

	// пустой сегмент пути в API открытых данных Сеула
	blankSegment = " "
)

type client struct {
	http    *httpx.Client
	baseURL string
	key     string
	logger  *zap.Logger
}

// NewSubwayClient создает клиент открытого API метро Сеула (openapi.seoul.go.kr)
func NewSubwayClient(cfg *config.ProvidersConfig, logger *zap.Logger, m *metrics.Collector) repository.SubwayRepository {
	return &client{
		http:    httpx.NewClient("seoul_subway", cfg.RequestTimeout, cfg.MaxAttempts, logger, m),
		baseURL: strings.TrimRight(cfg.SeoulSubway.BaseURL, "/"),
		key:     cfg.SeoulSubway.Key,
		logger:  logger,
	}
}

type apiResult struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

type envelope struct {
	ListTotalCount int             `json:"list_total_count"`
	Result         apiResult       `json:"RESULT"`
	Row            json.RawMessage `json:"row"`
}

type stationRow struct {
	StationCd string `json:"STATION_CD"`
	StationNm string `json:"STATION_NM"`
	LineNum   string `json:"LINE_NUM"`
	FrCode    string `json:"FR_CODE"`
}

type lastTrainRow struct {
	StationCd   string `json:"STATION_CD"`
	StationNm   string `json:"STATION_NM"`
	LeftTime    string `json:"LEFTTIME"`
	SubwaySName string `json:"SUBWAYSNAME"`
	SubwayEName string `json:"SUBWAYENAME"`
}

// LineName переводит номер линии ("2") в обозначение провайдера ("02호선")
func LineName(line string) string {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return line
	}
	return fmt.Sprintf("%02d호선", n)
}

// GetSubwayStationCd ищет код станции по имени; пробует имя без суффикса "역"
func (c *client) GetSubwayStationCd(ctx context.Context, stationID, stationName string, line int) (string, error) {
	names := []string{stationName}
	if trimmed := strings.TrimSuffix(stationName, "역"); trimmed != stationName && trimmed != "" {
		names = append(names, trimmed)
	}

	wantLine := ""
	if line > 0 {
		wantLine = LineName(strconv.Itoa(line))
	}

	for _, name := range names {
		rows, err := fetch[stationRow](ctx, c, "station_code", serviceStationByName, "1", "50", name)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			if wantLine != "" && row.LineNum != wantLine {
				continue
			}
			return row.StationCd, nil
		}
	}

	c.logger.Debug("Subway station code not found",
		zap.String("station_id", stationID),
		zap.String("station_name", stationName),
		zap.Int("line", line))
	return "", nil
}

// GetSubwayStations возвращает станции линии; порядок провайдера не гарантирован
func (c *client) GetSubwayStations(ctx context.Context, lineName string) ([]domain.SubwayStation, error) {
	rows, err := fetch[stationRow](ctx, c, "line_stations", serviceLineStations,
		"1", "1000", blankSegment, blankSegment, LineName(lineName))
	if err != nil {
		return nil, err
	}

	stations := make([]domain.SubwayStation, 0, len(rows))
	for _, row := range rows {
		stations = append(stations, domain.SubwayStation{
			StationName: row.StationNm,
			FrCode:      row.FrCode,
			StationCode: row.StationCd,
		})
	}
	return stations, nil
}

// GetSubwayStationLastTime возвращает последние поезда со станции
func (c *client) GetSubwayStationLastTime(
	ctx context.Context,
	stationCd string,
	direction domain.DirectionType,
	week domain.WeekType,
) ([]domain.SubwayLastTime, error) {
	rows, err := fetch[lastTrainRow](ctx, c, "last_train", serviceLastTrain,
		"1", "50", stationCd, week.Tag(), direction.InOutTag())
	if err != nil {
		return nil, err
	}

	result := make([]domain.SubwayLastTime, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.SubwayLastTime{
			DestinationStationName: row.SubwayEName,
			LeftTime:               row.LeftTime,
		})
	}
	return result, nil
}

// fetch вызывает сервис вида {base}/{key}/json/{service}/{start}/{end}/{params...}
func fetch[T any](ctx context.Context, c *client, operation, service string, segments ...string) ([]T, error) {
	parts := []string{c.baseURL, url.PathEscape(c.key), "json", service}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	endpoint := strings.Join(parts, "/")

	var raw map[string]json.RawMessage
	if err := c.http.GetJSON(ctx, operation, endpoint, nil, nil, &raw); err != nil {
		return nil, err
	}

	// при отсутствии данных сервис отвечает только верхнеуровневым RESULT
	body, ok := raw[service]
	if !ok {
		var res apiResult
		if r, ok := raw["RESULT"]; ok {
			if err := json.Unmarshal(r, &res); err != nil {
				return nil, errors.Wrap(errors.ErrServerData, "%s: bad RESULT: %v", service, err)
			}
		}
		if res.Code == resultNoData {
			return []T{}, nil
		}
		return nil, errors.Wrap(errors.ErrProviderUnavailable, "%s: %s %s", service, res.Code, res.Message)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(errors.ErrServerData, "%s: bad envelope: %v", service, err)
	}

	switch env.Result.Code {
	case resultOK, "":
	case resultNoData:
		return []T{}, nil
	default:
		return nil, errors.Wrap(errors.ErrProviderUnavailable, "%s: %s %s", service, env.Result.Code, env.Result.Message)
	}

	if len(env.Row) == 0 || string(env.Row) == "null" {
		return []T{}, nil
	}

	var rows []T
	if err := json.Unmarshal(env.Row, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrServerData, "%s: bad rows: %v", service, err)
	}
	return rows, nil
}
