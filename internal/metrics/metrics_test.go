package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/lasttime-service/internal/metrics"
)

func TestCollector_Observe(t *testing.T) {
	c := metrics.NewCollector()

	c.ObserveLeg("BUS", "resolved")
	c.ObserveLeg("BUS", "resolved")
	c.ObserveLeg("SUBWAY", "UNSUPPORTED_DATA")
	c.ObserveFallback("SEOUL", "GYEONGGI")
	c.ObserveProvider("seoul_bus", "getStationByName", 20*time.Millisecond, errors.New("timeout"))
	c.ObserveCache("subway_stations", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.LegsTotal.WithLabelValues("BUS", "resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LegsTotal.WithLabelValues("SUBWAY", "UNSUPPORTED_DATA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FallbacksTotal.WithLabelValues("SEOUL", "GYEONGGI")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ProviderErrors.WithLabelValues("seoul_bus", "getStationByName")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("subway_stations", "hit")))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *metrics.Collector

	assert.NotPanics(t, func() {
		c.ObserveLeg("BUS", "resolved")
		c.ObserveFallback("SEOUL", "GYEONGGI")
		c.ObserveProvider("tmap", "reverseGeocoding", time.Millisecond, nil)
		c.ObserveCache("geocode", false)
		c.ObserveStreamEvent("done")
		c.ObserveItinerary(time.Second)
	})
}
