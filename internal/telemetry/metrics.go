package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Evaluations counts flag evaluations by outcome ("matched" or
	// "unmatched").
	Evaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flag_evaluations_total",
		Help: "Total flag evaluations by outcome",
	}, []string{"outcome"})

	// VariantAssignments counts evaluations that selected a variant.
	VariantAssignments = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flag_variant_assignments_total",
		Help: "Total evaluations that were assigned a variant",
	})

	// CacheHits and CacheMisses track the read-through flag cache.
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flag_cache_hits_total",
		Help: "Flag cache lookups served from memory",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flag_cache_misses_total",
		Help: "Flag cache lookups that fell through to the store",
	})

	// FlagCount is the number of flags seen by the most recent list.
	FlagCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flags_total",
		Help: "Number of flags in the store as of the last listing",
	})
)

func Init() {
	prometheus.MustRegister(httpReqs, httpDur, Evaluations, VariantAssignments, CacheHits, CacheMisses, FlagCount)
}

// RecordEvaluation updates the evaluation counters for one result.
func RecordEvaluation(matched bool, variant string) {
	outcome := "unmatched"
	if matched {
		outcome = "matched"
	}
	Evaluations.WithLabelValues(outcome).Inc()
	if variant != "" {
		VariantAssignments.Inc()
	}
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prefer the chi route pattern over the raw path so that
		// /v1/flags/{key} is a single label value.
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
