package seoulbus

import (
	"context"
	"encoding/json"
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
	headerOK       = "0"
	headerNoResult = "4"
)

type client struct {
	http    *httpx.Client
	baseURL string
	key     string
	logger  *zap.Logger
}

// NewBusClient создает клиент API автобусов Сеула (ws.bus.go.kr)
func NewBusClient(cfg *config.ProvidersConfig, logger *zap.Logger, m *metrics.Collector) repository.SeoulBusRepository {
	return &client{
		http:    httpx.NewClient("seoul_bus", cfg.RequestTimeout, cfg.MaxAttempts, logger, m),
		baseURL: strings.TrimRight(cfg.SeoulBus.BaseURL, "/"),
		key:     cfg.SeoulBus.Key,
		logger:  logger,
	}
}

type msgHeader struct {
	HeaderCd  string `json:"headerCd"`
	HeaderMsg string `json:"headerMsg"`
	ItemCount int    `json:"itemCount"`
}

type response struct {
	MsgHeader msgHeader `json:"msgHeader"`
	MsgBody   struct {
		ItemList json.RawMessage `json:"itemList"`
	} `json:"msgBody"`
}

type stationItem struct {
	ArsID string `json:"arsId"`
	StID  string `json:"stId"`
	StNm  string `json:"stNm"`
	TmX   string `json:"tmX"`
	TmY   string `json:"tmY"`
}

type routeItem struct {
	BusRouteID string `json:"busRouteId"`
	BusRouteNm string `json:"busRouteNm"`
	Term       string `json:"term"`
}

type busTimeItem struct {
	ArsID      string `json:"arsId"`
	BusRouteID string `json:"busRouteId"`
	FirstBusTm string `json:"firstBusTm"`
	LastBusTm  string `json:"lastBusTm"`
}

// GetSeoulBusStationArsID ищет остановки по имени
func (c *client) GetSeoulBusStationArsID(ctx context.Context, stationName string) ([]domain.SeoulBusStation, error) {
	items, err := fetch[stationItem](ctx, c, "station_by_name", "stationinfo/getStationByName",
		url.Values{"stSrch": {stationName}})
	if err != nil {
		return nil, err
	}

	stations := make([]domain.SeoulBusStation, 0, len(items))
	for _, it := range items {
		lon, errX := strconv.ParseFloat(it.TmX, 64)
		lat, errY := strconv.ParseFloat(it.TmY, 64)
		if errX != nil || errY != nil {
			c.logger.Warn("Skipping station with bad coordinates",
				zap.String("ars_id", it.ArsID),
				zap.String("tm_x", it.TmX),
				zap.String("tm_y", it.TmY))
			continue
		}
		stations = append(stations, domain.SeoulBusStation{
			StationName: it.StNm,
			ArsID:       it.ArsID,
			Coordinate:  domain.Coordinate{Lat: lat, Lon: lon},
		})
	}
	return stations, nil
}

// GetSeoulBusRoute возвращает маршруты, проходящие через остановку
func (c *client) GetSeoulBusRoute(ctx context.Context, arsID string) ([]domain.SeoulBusRoute, error) {
	items, err := fetch[routeItem](ctx, c, "routes_by_station", "stationinfo/getRouteByStation",
		url.Values{"arsId": {arsID}})
	if err != nil {
		return nil, err
	}

	routes := make([]domain.SeoulBusRoute, 0, len(items))
	for _, it := range items {
		term, _ := strconv.Atoi(strings.TrimSpace(it.Term))
		routes = append(routes, domain.SeoulBusRoute{
			BusRouteName: it.BusRouteNm,
			RouteID:      it.BusRouteID,
			Term:         term,
		})
	}
	return routes, nil
}

// GetSeoulBusLastTime возвращает последний рейс маршрута на остановке
func (c *client) GetSeoulBusLastTime(ctx context.Context, arsID, routeID string) ([]domain.SeoulBusLastTime, error) {
	items, err := fetch[busTimeItem](ctx, c, "bus_time", "stationinfo/getBustimeByStation",
		url.Values{"arsId": {arsID}, "busRouteId": {routeID}})
	if err != nil {
		return nil, err
	}

	result := make([]domain.SeoulBusLastTime, 0, len(items))
	for _, it := range items {
		result = append(result, domain.SeoulBusLastTime{
			LastTime: packedClock(it.LastBusTm),
		})
	}
	return result, nil
}

// packedClock оставляет от yyyyMMddHHmmss только HHmmss
func packedClock(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) == 14 {
		return raw[8:]
	}
	return raw
}

func fetch[T any](ctx context.Context, c *client, operation, path string, query url.Values) ([]T, error) {
	query.Set("serviceKey", c.key)
	query.Set("resultType", "json")

	var resp response
	if err := c.http.GetJSON(ctx, operation, c.baseURL+"/"+path, query, nil, &resp); err != nil {
		return nil, err
	}

	switch resp.MsgHeader.HeaderCd {
	case headerOK:
	case headerNoResult:
		return []T{}, nil
	default:
		return nil, errors.Wrap(errors.ErrProviderUnavailable, "%s: header %s %s",
			path, resp.MsgHeader.HeaderCd, resp.MsgHeader.HeaderMsg)
	}

	list := resp.MsgBody.ItemList
	if len(list) == 0 || string(list) == "null" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, errors.Wrap(errors.ErrServerData, "%s: bad itemList: %v", path, err)
	}
	return items, nil
}
