package usecase

import (
	"context"
	"strings"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	minSubwayLine = 1
	maxSubwayLine = 8

	// маркер маршрутов мауль-бас, которых нет в API Кёнгидо
	villageBusMarker = "마을"
)

// StationResolver переводит станции и маршруты планировщика в id провайдеров
type StationResolver struct {
	routeRepo repository.RouteRepository
	logger    *zap.Logger
}

func NewStationResolver(routeRepo repository.RouteRepository, logger *zap.Logger) *StationResolver {
	return &StationResolver{
		routeRepo: routeRepo,
		logger:    logger,
	}
}

// ResolveArea определяет регион по координате. Любая ошибка геокодирования
// означает неподдерживаемый регион.
func (r *StationResolver) ResolveArea(ctx context.Context, coordinate domain.Coordinate) domain.Area {
	addr, err := r.routeRepo.ReverseGeocoding(ctx, coordinate, domain.AddressTypeLot)
	if err != nil {
		r.logger.Info("Reverse geocoding failed, area is unsupported",
			zap.Float64("lat", coordinate.Lat),
			zap.Float64("lon", coordinate.Lon),
			zap.String("code", errors.Code(err)),
			zap.Error(err))
		return domain.AreaUnsupported
	}
	return domain.AreaFromCityDo(addr.CityDo)
}

// ResolveStationID - этап station-id
func (r *StationResolver) ResolveStationID(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionRequest, error) {
	switch req.Mode {
	case domain.ModeSubway:
		return r.resolveSubwayStationID(ctx, req)
	case domain.ModeBus:
		switch req.Area {
		case domain.AreaSeoul:
			return r.resolveSeoulBusStationID(ctx, req)
		case domain.AreaGyeonggi:
			return r.resolveGyeonggiBusStationID(ctx, req)
		default:
			return req, errors.Wrap(errors.ErrUnsupportedArea, "bus stop %q", req.StationName)
		}
	default:
		return req, errors.Wrap(errors.ErrUnsupportedData, "mode %q", req.Mode)
	}
}

// ResolveRouteID - этап route-id; метро проходит без изменений
func (r *StationResolver) ResolveRouteID(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionRequest, error) {
	if req.Mode != domain.ModeBus {
		return req, nil
	}

	switch req.Area {
	case domain.AreaSeoul:
		return r.resolveSeoulBusRouteID(ctx, req)
	case domain.AreaGyeonggi:
		return r.resolveGyeonggiBusRouteID(ctx, req)
	default:
		return req, errors.Wrap(errors.ErrUnsupportedArea, "route %q", req.RouteName)
	}
}

func (r *StationResolver) resolveSubwayStationID(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionRequest, error) {
	if req.StationType < minSubwayLine || req.StationType > maxSubwayLine {
		return req, errors.Wrap(errors.ErrUnsupportedData, "subway line %d", req.StationType)
	}

	stationCd, err := r.routeRepo.GetSubwayStationCd(ctx, req.PlannerStationID, req.StationName, req.StationType)
	if err != nil {
		return req, err
	}
	if stationCd == "" {
		return req, errors.Wrap(errors.ErrServerData, "no station code for %q", req.StationName)
	}

	return req.WithStationID(stationCd), nil
}

func (r *StationResolver) resolveSeoulBusStationID(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionRequest, error) {
	stations, err := r.routeRepo.GetSeoulBusStationArsID(ctx, req.StationName)
	if err != nil {
		return req, err
	}
	if len(stations) == 0 {
		return req, errors.Wrap(errors.ErrServerData, "no seoul bus stops named %q", req.StationName)
	}

	arsID := closestSeoulBusStation(domain.Place{Name: req.StationName, Coordinate: req.Coordinate}, stations)
	// Сеул отдаёт arsId "0" для остановок Кёнгидо
	if arsID == domain.UnknownID {
		return req, errors.Wrap(errors.ErrServerData, "unknown ars id for %q", req.StationName)
	}

	return req.WithStationID(arsID), nil
}

func (r *StationResolver) resolveGyeonggiBusStationID(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionRequest, error) {
	if strings.Contains(req.RouteName, villageBusMarker) {
		return req, errors.Wrap(errors.ErrUnsupportedData, "village bus %q", req.RouteName)
	}

	startID, err := r.gyeonggiStationID(ctx, domain.Place{Name: req.StationName, Coordinate: req.Coordinate})
	if err != nil {
		return req, err
	}
	if startID == domain.UnknownID {
		return req, errors.Wrap(errors.ErrServerData, "unknown gyeonggi station id for %q", req.StationName)
	}

	endID, err := r.gyeonggiStationID(ctx, req.Destination)
	if err != nil {
		return req, err
	}
	if endID == domain.UnknownID {
		return req, errors.Wrap(errors.ErrUnsupportedData, "unknown gyeonggi station id for %q", req.Destination.Name)
	}

	return req.WithStationID(startID).WithDestinationStationID(endID), nil
}

func (r *StationResolver) gyeonggiStationID(ctx context.Context, place domain.Place) (string, error) {
	stations, err := r.routeRepo.GetGyeonggiBusStationID(ctx, place.Name)
	if err != nil {
		return "", err
	}
	if len(stations) == 0 {
		return "", errors.Wrap(errors.ErrServerData, "no gyeonggi bus stops named %q", place.Name)
	}
	return closestGyeonggiBusStation(place, stations), nil
}

func (r *StationResolver) resolveSeoulBusRouteID(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionRequest, error) {
	busName, err := lineName(req.RouteName)
	if err != nil {
		return req, err
	}

	routes, err := r.routeRepo.GetSeoulBusRoute(ctx, req.StationID)
	if err != nil {
		return req, err
	}
	if len(routes) == 0 {
		return req, errors.Wrap(errors.ErrServerData, "no routes at seoul stop %s", req.StationID)
	}

	for _, route := range routes {
		if strings.Contains(route.BusRouteName, busName) {
			return req.WithRouteID(route.RouteID, route.Term), nil
		}
	}
	return req, errors.Wrap(errors.ErrUnsupportedData, "route %q not found at seoul stop %s", busName, req.StationID)
}

func (r *StationResolver) resolveGyeonggiBusRouteID(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionRequest, error) {
	busName, err := lineName(req.RouteName)
	if err != nil {
		return req, err
	}

	routes, err := r.routeRepo.GetGyeonggiBusRoute(ctx, req.StationID)
	if err != nil {
		return req, err
	}
	if len(routes) == 0 {
		return req, errors.Wrap(errors.ErrServerData, "no routes at gyeonggi stop %s", req.StationID)
	}

	for _, route := range routes {
		if strings.Contains(route.BusName, busName) {
			return req.WithRouteID(route.RouteID, 0), nil
		}
	}
	return req, errors.Wrap(errors.ErrUnsupportedData, "route %q not found at gyeonggi stop %s", busName, req.StationID)
}

// lineName достаёт название линии из "<метка>:<линия>"
func lineName(routeInfo string) (string, error) {
	parts := strings.Split(routeInfo, ":")
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "route info %q", routeInfo)
	}
	return strings.TrimSpace(parts[1]), nil
}
