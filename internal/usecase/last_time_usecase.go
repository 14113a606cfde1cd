package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/metrics"
	"github.com/lasttime-service/internal/pkg/errors"
	"github.com/lasttime-service/internal/pkg/utils"
	"github.com/lasttime-service/internal/usecase/dto"
)

// LastTimeUseCase - движок расчёта последних рейсов по участкам маршрута
type LastTimeUseCase struct {
	routeRepo         repository.RouteRepository
	resolver          *StationResolver
	logger            *zap.Logger
	metrics           *metrics.Collector
	maxConcurrentLegs int
	location          *time.Location
	now               func() time.Time
}

// LastTimeOption настраивает LastTimeUseCase
type LastTimeOption func(*LastTimeUseCase)

// WithMaxConcurrentLegs - сколько участков обрабатывается одновременно
func WithMaxConcurrentLegs(n int) LastTimeOption {
	return func(uc *LastTimeUseCase) {
		if n > 0 {
			uc.maxConcurrentLegs = n
		}
	}
}

// WithLocation - часовой пояс для выбора расписания выходного дня
func WithLocation(loc *time.Location) LastTimeOption {
	return func(uc *LastTimeUseCase) {
		if loc != nil {
			uc.location = loc
		}
	}
}

func WithClock(now func() time.Time) LastTimeOption {
	return func(uc *LastTimeUseCase) {
		uc.now = now
	}
}

func WithMetrics(m *metrics.Collector) LastTimeOption {
	return func(uc *LastTimeUseCase) {
		uc.metrics = m
	}
}

func NewLastTimeUseCase(
	routeRepo repository.RouteRepository,
	logger *zap.Logger,
	opts ...LastTimeOption,
) *LastTimeUseCase {
	uc := &LastTimeUseCase{
		routeRepo:         routeRepo,
		resolver:          NewStationResolver(routeRepo, logger),
		logger:            logger,
		maxConcurrentLegs: 1,
		location:          time.UTC,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Invoke возвращает по одному результату на каждый участок маршрута, в том же порядке.
// Пешие, неизвестные и неразрешимые участки дают nil. Ошибки наружу не выходят.
func (uc *LastTimeUseCase) Invoke(ctx context.Context, itinerary domain.Itinerary) []*domain.LastTimeResult {
	start := time.Now()
	results := make([]*domain.LastTimeResult, len(itinerary.Legs))

	var g errgroup.Group
	g.SetLimit(uc.maxConcurrentLegs)

	for i, req := range buildRequests(itinerary) {
		if req == nil {
			continue
		}
		i, req := i, *req
		g.Go(func() error {
			results[i] = uc.resolveLeg(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	uc.metrics.ObserveItinerary(time.Since(start))
	return results
}

// buildRequests создает запросы для транспортных участков.
// Накопленное время в пути суммируется только по транспортным участкам.
func buildRequests(itinerary domain.Itinerary) []*domain.ResolutionRequest {
	requests := make([]*domain.ResolutionRequest, len(itinerary.Legs))
	cumulative := 0

	for i, leg := range itinerary.Legs {
		mode, ok := domain.ParseTransportMode(leg.Mode)
		if !ok || !mode.IsTransit() {
			continue
		}

		cumulative += leg.SectionTime
		requests[i] = &domain.ResolutionRequest{
			Index:                 i,
			Mode:                  mode,
			Area:                  domain.AreaUnsupported,
			StationID:             domain.UnknownID,
			PlannerStationID:      leg.Start.ID,
			StationName:           leg.Start.Name,
			Coordinate:            leg.Start.Coordinate,
			StationType:           leg.RouteType,
			RouteID:               domain.UnknownID,
			RouteName:             leg.RouteInfo,
			Destination:           leg.End,
			DestinationStationID:  domain.UnknownID,
			SectionTime:           leg.SectionTime,
			CumulativeSectionTime: cumulative,
		}
	}
	return requests
}

// resolveLeg - граница участка: любая ошибка или паника превращается в nil
func (uc *LastTimeUseCase) resolveLeg(ctx context.Context, req domain.ResolutionRequest) (result *domain.LastTimeResult) {
	logger := uc.logger.With(
		zap.Int("leg", req.Index),
		zap.String("mode", string(req.Mode)),
		zap.String("station", req.StationName),
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Leg resolution panicked", zap.Any("panic", rec))
			uc.metrics.ObserveLeg(string(req.Mode), "panic")
			result = nil
		}
	}()

	result, err := uc.resolve(ctx, req)
	if err != nil {
		code := errors.Code(err)
		if errors.IsLegFailure(err) {
			logger.Info("Leg unavailable", zap.String("code", code), zap.Error(err))
		} else {
			logger.Warn("Leg failed", zap.String("code", code), zap.Error(err))
		}
		uc.metrics.ObserveLeg(string(req.Mode), strings.ToLower(code))
		return nil
	}

	logger.Debug("Leg resolved",
		zap.String("area", string(result.Area)),
		zap.String("last_time", result.LastTime),
		zap.String("time_to_board", result.TimeToBoard))
	uc.metrics.ObserveLeg(string(req.Mode), "resolved")
	return result
}

func (uc *LastTimeUseCase) resolve(ctx context.Context, req domain.ResolutionRequest) (*domain.LastTimeResult, error) {
	req = req.WithArea(uc.resolver.ResolveArea(ctx, req.Coordinate))

	req, err := uc.resolver.ResolveStationID(ctx, req)
	if err != nil {
		return nil, err
	}

	req, err = uc.resolver.ResolveRouteID(ctx, req)
	if err != nil {
		return nil, err
	}

	switch req.Mode {
	case domain.ModeSubway:
		return uc.subwayLastTime(ctx, req)
	case domain.ModeBus:
		return uc.busLastTime(ctx, req)
	default:
		return nil, errors.Wrap(errors.ErrUnsupportedData, "mode %q", req.Mode)
	}
}

func (uc *LastTimeUseCase) subwayLastTime(ctx context.Context, req domain.ResolutionRequest) (*domain.LastTimeResult, error) {
	line := req.StationType

	fetched, err := uc.routeRepo.GetSubwayStations(ctx, strconv.Itoa(line))
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		return nil, errors.Wrap(errors.ErrServerData, "no stations on line %d", line)
	}

	stations := make([]domain.SubwayStation, len(fetched))
	copy(stations, fetched)
	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].FrCode < stations[j].FrCode
	})

	start := indexOfSubwayStation(stations, req.StationName)
	if start == -1 {
		return nil, errors.Wrap(errors.ErrUnsupportedData, "station %q is not on line %d", req.StationName, line)
	}
	end := indexOfSubwayStation(stations, req.Destination.Name)
	if end == -1 {
		return nil, errors.Wrap(errors.ErrUnsupportedData, "station %q is not on line %d", req.Destination.Name, line)
	}

	direction := classifySubwayDirection(line, stations, start, end)

	var untilStart, enableDestination []domain.SubwayStation
	if start < end {
		untilStart = stations[:start+1]
		enableDestination = stations[start:end]
	} else {
		untilStart = stations[start:]
		enableDestination = stations[end+1 : start+1]
	}

	week := weekTypeOf(uc.now().In(uc.location))
	rows, err := uc.routeRepo.GetSubwayStationLastTime(ctx, req.StationID, direction, week)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(errors.ErrServerData, "no last trains at %s (%s, %s)", req.StationID, direction, week)
	}

	correction := stationCaseCorrection(line, direction, stations, start, end)

	enableNames := make(map[string]struct{}, len(enableDestination))
	for _, s := range enableDestination {
		enableNames[s.StationName] = struct{}{}
	}

	leftTime := ""
	for _, row := range rows {
		_, reachable := enableNames[row.DestinationStationName]
		if reachable == correction || row.DestinationStationName == req.Destination.Name {
			leftTime = row.LeftTime
			break
		}
	}
	if leftTime == "" {
		return nil, errors.Wrap(errors.ErrScheduleLogic, "line %d %s -> %s (%s)",
			line, req.StationName, req.Destination.Name, direction)
	}

	timeToBoard, err := utils.SubtractSectionTime(req.CumulativeSectionTime, leftTime)
	if err != nil {
		return nil, err
	}

	return &domain.LastTimeResult{
		Mode:                      domain.ModeSubway,
		Area:                      req.Area,
		LastTime:                  leftTime,
		TimeToBoard:               timeToBoard,
		DestinationStationName:    req.Destination.Name,
		StationsUntilStart:        subwayTransportStations(untilStart),
		EnableDestinationStations: subwayTransportStations(enableDestination),
		Direction:                 direction,
		RouteID:                   req.RouteID,
	}, nil
}

func (uc *LastTimeUseCase) busLastTime(ctx context.Context, req domain.ResolutionRequest) (*domain.LastTimeResult, error) {
	switch req.Area {
	case domain.AreaSeoul:
		return uc.seoulBusLastTime(ctx, req, true)
	case domain.AreaGyeonggi:
		return uc.gyeonggiBusLastTime(ctx, req, true)
	default:
		return nil, errors.Wrap(errors.ErrUnsupportedArea, "bus stop %q", req.StationName)
	}
}

func (uc *LastTimeUseCase) seoulBusLastTime(
	ctx context.Context,
	req domain.ResolutionRequest,
	allowFallback bool,
) (*domain.LastTimeResult, error) {
	rows, err := uc.routeRepo.GetSeoulBusLastTime(ctx, req.StationID, req.RouteID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if !allowFallback {
			return nil, errors.Wrap(errors.ErrServerData, "no seoul last bus for %s/%s", req.StationID, req.RouteID)
		}
		return uc.fallback(ctx, req, domain.AreaGyeonggi)
	}

	lastTime, err := utils.NormalizePackedLastTime(rows[0].LastTime)
	if err != nil {
		return nil, err
	}

	timeToBoard, err := utils.SubtractSectionTime(req.CumulativeSectionTime, lastTime)
	if err != nil {
		return nil, err
	}

	return &domain.LastTimeResult{
		Mode:                      domain.ModeBus,
		Area:                      domain.AreaSeoul,
		LastTime:                  lastTime,
		TimeToBoard:               timeToBoard,
		DestinationStationName:    req.Destination.Name,
		StationsUntilStart:        []domain.TransportStation{},
		EnableDestinationStations: []domain.TransportStation{},
		Direction:                 domain.DirectionUnknown,
		RouteID:                   req.RouteID,
		Term:                      req.Term,
	}, nil
}

func (uc *LastTimeUseCase) gyeonggiBusLastTime(
	ctx context.Context,
	req domain.ResolutionRequest,
	allowFallback bool,
) (*domain.LastTimeResult, error) {
	rows, err := uc.routeRepo.GetGyeonggiBusLastTime(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if !allowFallback {
			return nil, errors.Wrap(errors.ErrServerData, "no gyeonggi last bus for route %s", req.RouteID)
		}
		return uc.fallback(ctx, req, domain.AreaSeoul)
	}

	stations, err := uc.routeRepo.GetGyeonggiBusRouteStations(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, errors.Wrap(errors.ErrServerData, "no stations on gyeonggi route %s", req.RouteID)
	}

	direction, start, err := classifyBusDirection(stations, req.StationID, req.DestinationStationID)
	if err != nil {
		return nil, err
	}

	var untilStart []domain.TransportStation
	var raw string
	if towardsEnd(direction) {
		untilStart = gyeonggiTransportStations(stations[:start+1])
		raw = rows[0].UpLastTime
	} else {
		untilStart = reversedStations(gyeonggiTransportStations(stations[start:]))
		raw = rows[0].DownLastTime
	}
	if strings.TrimSpace(raw) == "" {
		return nil, errors.Wrap(errors.ErrServerData, "empty %s last time for route %s", direction, req.RouteID)
	}

	lastTime := utils.WithSeconds(raw)
	timeToBoard, err := utils.SubtractSectionTime(req.CumulativeSectionTime, lastTime)
	if err != nil {
		return nil, err
	}

	return &domain.LastTimeResult{
		Mode:                      domain.ModeBus,
		Area:                      domain.AreaGyeonggi,
		LastTime:                  lastTime,
		TimeToBoard:               timeToBoard,
		DestinationStationName:    req.Destination.Name,
		StationsUntilStart:        untilStart,
		EnableDestinationStations: []domain.TransportStation{},
		Direction:                 direction,
		RouteID:                   req.RouteID,
		Term:                      req.Term,
	}, nil
}

// fallback - однократная попытка через провайдера другого региона
// для остановок, которые планировщик отнёс не к тому региону
func (uc *LastTimeUseCase) fallback(
	ctx context.Context,
	req domain.ResolutionRequest,
	to domain.Area,
) (*domain.LastTimeResult, error) {
	from := req.Area
	uc.logger.Info("No last time from provider, trying other region",
		zap.Int("leg", req.Index),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	uc.metrics.ObserveFallback(strings.ToLower(string(from)), strings.ToLower(string(to)))

	alt := req.WithArea(to)
	alt, err := uc.resolver.ResolveStationID(ctx, alt)
	if err != nil {
		return nil, fmt.Errorf("fallback to %s: %w", to, err)
	}
	alt, err = uc.resolver.ResolveRouteID(ctx, alt)
	if err != nil {
		return nil, fmt.Errorf("fallback to %s: %w", to, err)
	}

	if to == domain.AreaGyeonggi {
		return uc.gyeonggiBusLastTime(ctx, alt, false)
	}
	return uc.seoulBusLastTime(ctx, alt, false)
}

func subwayTransportStations(stations []domain.SubwayStation) []domain.TransportStation {
	out := make([]domain.TransportStation, len(stations))
	for i, s := range stations {
		out[i] = domain.TransportStation{StationName: s.StationName, StationID: s.StationCode}
	}
	return out
}

func gyeonggiTransportStations(stations []domain.GyeonggiBusStation) []domain.TransportStation {
	out := make([]domain.TransportStation, len(stations))
	for i, s := range stations {
		out[i] = domain.TransportStation{StationName: s.StationName, StationID: s.StationID}
	}
	return out
}

func reversedStations(stations []domain.TransportStation) []domain.TransportStation {
	for i, j := 0, len(stations)-1; i < j; i, j = i+1, j-1 {
		stations[i], stations[j] = stations[j], stations[i]
	}
	return stations
}

// Resolve - обёртка над Invoke для HTTP и CLI: присваивает request id и собирает сводку
func (uc *LastTimeUseCase) Resolve(ctx context.Context, req dto.LastTimeRequest) (*dto.LastTimeResponse, *dto.LastTimeMeta, error) {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	} else if _, err := uuid.Parse(requestID); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidRequest, "request id %q", requestID)
	}

	start := time.Now()
	results := uc.Invoke(ctx, req.Itinerary)

	meta := &dto.LastTimeMeta{
		Legs:   len(results),
		TookMs: float64(time.Since(start).Microseconds()) / 1000,
	}
	for _, r := range results {
		if r != nil {
			meta.Resolved++
		}
	}

	uc.logger.Info("Itinerary resolved",
		zap.String("request_id", requestID),
		zap.Int("legs", meta.Legs),
		zap.Int("resolved", meta.Resolved))

	return &dto.LastTimeResponse{RequestID: requestID, Results: results}, meta, nil
}
