// Package metrics exports planner, cache and HTTP events as Prometheus
// metrics. A Collector implements the observability hook interfaces; register
// it with observability.Set*Hooks at startup.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/railroute/pkg/observability"
)

type Collector struct {
	reg *prometheus.Registry

	Stations   prometheus.Gauge
	Trips      prometheus.Gauge
	Departures prometheus.Gauge

	Loads       *prometheus.CounterVec // labels: source, result
	Precomputes *prometheus.CounterVec // label: result

	LoadDuration       prometheus.Histogram
	PrecomputeDuration prometheus.Histogram

	Queries       *prometheus.CounterVec   // labels: kind, found
	QueryDuration *prometheus.HistogramVec // label: kind

	CacheEvents   *prometheus.CounterVec // labels: key_type, event
	CacheSetBytes prometheus.Counter

	Requests        *prometheus.CounterVec   // labels: method, route, status
	RequestDuration *prometheus.HistogramVec // labels: method, route
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railroute_stations",
			Help: "Stations in the loaded timetable.",
		}),
		Trips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railroute_trips",
			Help: "Trip rows in the loaded timetable.",
		}),
		Departures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railroute_departure_vertices",
			Help: "Vertices of the last precomputed time-expanded graph.",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railroute_timetable_loads_total",
			Help: "Timetable loads by source and result.",
		}, []string{"source", "result"}),
		Precomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railroute_precomputes_total",
			Help: "Shortest-path precomputations by result.",
		}, []string{"result"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railroute_load_duration_seconds",
			Help:    "Time to read and parse a timetable.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		PrecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railroute_precompute_duration_seconds",
			Help:    "Time to build the graph and run all-pairs shortest paths.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 20),
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railroute_queries_total",
			Help: "Itinerary queries by kind and outcome.",
		}, []string{"kind", "found"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "railroute_query_duration_seconds",
			Help:    "Itinerary query latency.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 18),
		}, []string{"kind"}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railroute_cache_events_total",
			Help: "Cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		CacheSetBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railroute_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railroute_http_requests_total",
			Help: "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "railroute_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.Stations, c.Trips, c.Departures,
		c.Loads, c.Precomputes, c.LoadDuration, c.PrecomputeDuration,
		c.Queries, c.QueryDuration,
		c.CacheEvents, c.CacheSetBytes,
		c.Requests, c.RequestDuration,
	)
	return c
}

// Register installs c as the planner, cache and HTTP hooks.
func (c *Collector) Register() {
	observability.SetPlannerHooks(c)
	observability.SetCacheHooks(c)
	observability.SetHTTPHooks(c)
}

func (c *Collector) OnLoad(_ context.Context, source string, stations, trips int, d time.Duration, err error) {
	c.Loads.WithLabelValues(source, result(err)).Inc()
	if err != nil {
		return
	}
	c.LoadDuration.Observe(d.Seconds())
	c.Stations.Set(float64(stations))
	c.Trips.Set(float64(trips))
}

func (c *Collector) OnPrecompute(_ context.Context, vertices int, d time.Duration, err error) {
	c.Precomputes.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	c.PrecomputeDuration.Observe(d.Seconds())
	c.Departures.Set(float64(vertices))
}

func (c *Collector) OnQuery(_ context.Context, kind string, found bool, d time.Duration) {
	c.Queries.WithLabelValues(kind, strconv.FormatBool(found)).Inc()
	c.QueryDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (c *Collector) OnCacheHit(_ context.Context, keyType string) {
	c.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, keyType string) {
	c.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, keyType string, size int) {
	c.CacheEvents.WithLabelValues(keyType, "set").Inc()
	c.CacheSetBytes.Add(float64(size))
}

func (c *Collector) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	c.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Server returns an unstarted HTTP server exposing /metrics on addr.
func (c *Collector) Server(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.PlannerHooks = (*Collector)(nil)
	_ observability.CacheHooks   = (*Collector)(nil)
	_ observability.HTTPHooks    = (*Collector)(nil)
)
