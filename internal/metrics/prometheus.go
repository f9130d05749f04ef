package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CalendarFetches counts upstream fetch attempts by outcome
	CalendarFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_calendar_fetches_total",
			Help: "Total number of upstream calendar fetch attempts",
		},
		[]string{"status"}, // status: ok|error
	)

	// CalendarFallbacks counts activations of the synthetic-data path
	CalendarFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_calendar_fallbacks_total",
			Help: "Total number of fallback calendar generations",
		},
	)

	// CalendarFetchDuration observes upstream fetch latency
	CalendarFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hermes_calendar_fetch_duration_seconds",
			Help:    "Upstream calendar fetch duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// CalendarEventsReturned counts events served by source
	CalendarEventsReturned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_calendar_events_returned_total",
			Help: "Total number of calendar events returned to callers",
		},
		[]string{"source"}, // source: live|fallback
	)

	// DigestDeliveries counts digest messages sent to chats
	DigestDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_digest_deliveries_total",
			Help: "Total number of calendar digest messages sent",
		},
		[]string{"status"}, // status: ok|error
	)
)

func init() {
	prometheus.MustRegister(
		CalendarFetches,
		CalendarFallbacks,
		CalendarFetchDuration,
		CalendarEventsReturned,
		DigestDeliveries,
	)
}

// StartServer exposes /metrics on the given address. It returns the
// server so the caller can shut it down gracefully.
func StartServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
