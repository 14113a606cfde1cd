package tmap

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lasttime-service/internal/config"
	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/infrastructure/httpx"
	"github.com/lasttime-service/internal/metrics"
	"github.com/lasttime-service/internal/pkg/errors"
	"github.com/lasttime-service/internal/pkg/utils"
	"go.uber.org/zap"
)

type client struct {
	http    *httpx.Client
	baseURL string
	appKey  string
	logger  *zap.Logger
}

// NewGeocodingClient создает клиент обратного геокодирования TMAP
func NewGeocodingClient(cfg *config.ProvidersConfig, logger *zap.Logger, m *metrics.Collector) repository.GeocodingRepository {
	return &client{
		http:    httpx.NewClient("tmap", cfg.RequestTimeout, cfg.MaxAttempts, logger, m),
		baseURL: strings.TrimRight(cfg.TMap.BaseURL, "/"),
		appKey:  cfg.TMap.Key,
		logger:  logger,
	}
}

type reverseGeocodingResponse struct {
	AddressInfo *struct {
		FullAddress string `json:"fullAddress"`
		CityDo      string `json:"city_do"`
		GuGun       string `json:"gu_gun"`
	} `json:"addressInfo"`
}

// ReverseGeocoding возвращает административный адрес точки
func (c *client) ReverseGeocoding(
	ctx context.Context,
	coordinate domain.Coordinate,
	addressType domain.AddressType,
) (*domain.Address, error) {
	if !utils.ValidateCoordinates(coordinate.Lat, coordinate.Lon) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "reverse geocoding: coordinate (%f, %f) out of range",
			coordinate.Lat, coordinate.Lon)
	}

	query := url.Values{
		"version":     {"1"},
		"lat":         {strconv.FormatFloat(coordinate.Lat, 'f', -1, 64)},
		"lon":         {strconv.FormatFloat(coordinate.Lon, 'f', -1, 64)},
		"coordType":   {"WGS84GEO"},
		"addressType": {string(addressType)},
	}

	var resp reverseGeocodingResponse
	err := c.http.GetJSON(ctx, "reverse_geocoding", c.baseURL+"/geo/reversegeocoding", query,
		map[string]string{"appKey": c.appKey}, &resp)
	if err != nil {
		var se *httpx.StatusError
		if stderrors.As(err, &se) && se.Code == http.StatusBadRequest {
			return nil, errors.Wrap(errors.ErrInvalidInput, "reverse geocoding (%f, %f): %s",
				coordinate.Lat, coordinate.Lon, se.Body)
		}
		return nil, err
	}

	if resp.AddressInfo == nil {
		return nil, errors.Wrap(errors.ErrServerData, "reverse geocoding: empty addressInfo")
	}

	return &domain.Address{
		CityDo: resp.AddressInfo.CityDo,
		GuGun:  resp.AddressInfo.GuGun,
	}, nil
}
