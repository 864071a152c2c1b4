package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "saigon", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "saigon", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "saigon", Name: "provider_requests_total", Help: "Grounding API calls."},
		[]string{"model", "status"},
	)
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "saigon", Name: "provider_request_duration_seconds",
			Help:    "Grounding API call duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	CrawlItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "saigon", Name: "crawl_items_total", Help: "Crawl pipeline outcomes."},
		[]string{"stage", "outcome"}, // stage: query|candidate
	)
	EnrichItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "saigon", Name: "enrich_items_total", Help: "Enrichment outcomes."},
		[]string{"outcome"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "saigon", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"},
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ProviderRequests, ProviderLatency, CrawlItems, EnrichItems, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveProvider(model string, status int, dur time.Duration) {
	ProviderRequests.WithLabelValues(model, strconv.Itoa(status)).Inc()
	ProviderLatency.WithLabelValues(model).Observe(dur.Seconds())
}

func ObserveCrawlItem(stage, outcome string) {
	CrawlItems.WithLabelValues(stage, outcome).Inc()
}

func ObserveEnrichItem(outcome string) {
	EnrichItems.WithLabelValues(outcome).Inc()
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}
