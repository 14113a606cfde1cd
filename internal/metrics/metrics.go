package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector - метрики сервиса. Все методы безопасны для nil-получателя.
type Collector struct {
	reg *prometheus.Registry

	LegsTotal       *prometheus.CounterVec // mode, outcome
	FallbacksTotal  *prometheus.CounterVec // from, to
	ProviderLatency *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec // cache, result
	StreamEvents    *prometheus.CounterVec // status
	ItineraryTime   prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		LegsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lasttime_legs_total",
			Help: "Itinerary legs processed by outcome (resolved or error code).",
		}, []string{"mode", "outcome"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lasttime_region_fallbacks_total",
			Help: "Cross-region bus fallbacks attempted.",
		}, []string{"from", "to"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lasttime_provider_request_duration_seconds",
			Help:    "Latency of transit data provider calls.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"provider", "operation"}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lasttime_provider_errors_total",
			Help: "Failed transit data provider calls.",
		}, []string{"provider", "operation"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lasttime_cache_lookups_total",
			Help: "Station and geocode cache lookups by result.",
		}, []string{"cache", "result"}),
		StreamEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lasttime_stream_events_total",
			Help: "Worker stream events by status.",
		}, []string{"status"}),
		ItineraryTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lasttime_itinerary_duration_seconds",
			Help:    "Time to resolve all legs of an itinerary.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}

	reg.MustRegister(
		c.LegsTotal, c.FallbacksTotal,
		c.ProviderLatency, c.ProviderErrors,
		c.CacheLookups, c.StreamEvents, c.ItineraryTime,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

func (c *Collector) ObserveLeg(mode, outcome string) {
	if c == nil {
		return
	}
	c.LegsTotal.WithLabelValues(mode, outcome).Inc()
}

func (c *Collector) ObserveFallback(from, to string) {
	if c == nil {
		return
	}
	c.FallbacksTotal.WithLabelValues(from, to).Inc()
}

func (c *Collector) ObserveProvider(provider, operation string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.ProviderLatency.WithLabelValues(provider, operation).Observe(d.Seconds())
	if err != nil {
		c.ProviderErrors.WithLabelValues(provider, operation).Inc()
	}
}

func (c *Collector) ObserveCache(cache string, hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (c *Collector) ObserveStreamEvent(status string) {
	if c == nil {
		return
	}
	c.StreamEvents.WithLabelValues(status).Inc()
}

func (c *Collector) ObserveItinerary(d time.Duration) {
	if c == nil {
		return
	}
	c.ItineraryTime.Observe(d.Seconds())
}
