package gyeonggibus

import (
	"context"
	"net/url"
	"sort"
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
	resultOK       = 0
	resultNoResult = 4
)

type client struct {
	http    *httpx.Client
	baseURL string
	key     string
	logger  *zap.Logger
}

// NewBusClient создает клиент API автобусов Кёнгидо (apis.data.go.kr/6410000)
func NewBusClient(cfg *config.ProvidersConfig, logger *zap.Logger, m *metrics.Collector) repository.GyeonggiBusRepository {
	return &client{
		http:    httpx.NewClient("gyeonggi_bus", cfg.RequestTimeout, cfg.MaxAttempts, logger, m),
		baseURL: strings.TrimRight(cfg.GyeonggiBus.BaseURL, "/"),
		key:     cfg.GyeonggiBus.Key,
		logger:  logger,
	}
}

func (c *client) GetGyeonggiBusStationID(ctx context.Context, stationName string) ([]domain.GyeonggiBusStation, error) {
	items, err := fetch[stationItem](ctx, c, "station_by_name",
		"busstationservice/v2/getBusStationListv2", "busStationList",
		url.Values{"keyword": {stationName}})
	if err != nil {
		return nil, err
	}
	return toStations(items), nil
}

func (c *client) GetGyeonggiBusRoute(ctx context.Context, stationID string) ([]domain.GyeonggiBusRoute, error) {
	items, err := fetch[routeItem](ctx, c, "routes_by_station",
		"busstationservice/v2/getBusStationViaRouteListv2", "busRouteList",
		url.Values{"stationId": {stationID}})
	if err != nil {
		return nil, err
	}

	routes := make([]domain.GyeonggiBusRoute, 0, len(items))
	for _, it := range items {
		routes = append(routes, domain.GyeonggiBusRoute{
			BusName: string(it.RouteName),
			RouteID: string(it.RouteID),
		})
	}
	return routes, nil
}

func (c *client) GetGyeonggiBusLastTime(ctx context.Context, routeID string) ([]domain.GyeonggiBusLastTime, error) {
	items, err := fetch[routeInfoItem](ctx, c, "route_info",
		"busrouteservice/v2/getBusRouteInfoItemv2", "busRouteInfoItem",
		url.Values{"routeId": {routeID}})
	if err != nil {
		return nil, err
	}

	result := make([]domain.GyeonggiBusLastTime, 0, len(items))
	for _, it := range items {
		result = append(result, domain.GyeonggiBusLastTime{
			UpLastTime:   strings.TrimSpace(it.UpLastTime),
			DownLastTime: strings.TrimSpace(it.DownLastTime),
		})
	}
	return result, nil
}

// GetGyeonggiBusRouteStations возвращает остановки маршрута по порядку следования
func (c *client) GetGyeonggiBusRouteStations(ctx context.Context, routeID string) ([]domain.GyeonggiBusStation, error) {
	items, err := fetch[stationItem](ctx, c, "route_stations",
		"busrouteservice/v2/getBusRouteStationListv2", "busRouteStationList",
		url.Values{"routeId": {routeID}})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StationSeq < items[j].StationSeq
	})
	return toStations(items), nil
}

func toStations(items []stationItem) []domain.GyeonggiBusStation {
	stations := make([]domain.GyeonggiBusStation, 0, len(items))
	for _, it := range items {
		stations = append(stations, domain.GyeonggiBusStation{
			StationID:   string(it.StationID),
			StationName: it.StationName,
			Coordinate:  domain.Coordinate{Lat: it.Y, Lon: it.X},
		})
	}
	return stations
}

func fetch[T any](ctx context.Context, c *client, operation, path, listField string, query url.Values) ([]T, error) {
	query.Set("serviceKey", c.key)
	query.Set("format", "json")

	var resp response
	if err := c.http.GetJSON(ctx, operation, c.baseURL+"/"+path, query, nil, &resp); err != nil {
		return nil, err
	}

	header := resp.Response.MsgHeader
	switch header.ResultCode {
	case resultOK:
	case resultNoResult:
		return []T{}, nil
	default:
		return nil, errors.Wrap(errors.ErrProviderUnavailable, "%s: result %d %s",
			path, header.ResultCode, header.ResultMessage)
	}

	items, err := decodeList[T](resp.Response.MsgBody[listField])
	if err != nil {
		return nil, errors.Wrap(errors.ErrServerData, "%s: bad %s: %v", path, listField, err)
	}
	return items, nil
}
