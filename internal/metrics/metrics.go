// Package metrics provides Prometheus instrumentation for the scoring service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fraudscore"

// Score outcomes.
const (
	OutcomeFraud        = "fraud"
	OutcomeNotFraud     = "not_fraud"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

// Recorder owns the service collectors. A nil Recorder records nothing.
type Recorder struct {
	scores      *prometheus.CounterVec
	latency     prometheus.Histogram
	recorded    prometheus.Counter
	historySize prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_total",
			Help:      "Total scoring requests by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_duration_seconds",
			Help:      "Time spent deriving features and classifying one transaction.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		recorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_recorded_total",
			Help:      "Total transactions appended to the historical context.",
		}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_transactions",
			Help:      "Number of transactions in the historical context.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(
		r.scores,
		r.latency,
		r.recorded,
		r.historySize,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ObserveScore records one scoring attempt.
func (r *Recorder) ObserveScore(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.scores.WithLabelValues(outcome).Inc()
	r.latency.Observe(elapsed.Seconds())
}

// ObserveRecorded counts appended transactions and tracks the context size.
func (r *Recorder) ObserveRecorded(appended, total int) {
	if r == nil {
		return
	}
	r.recorded.Add(float64(appended))
	r.historySize.Set(float64(total))
}

// SetHistorySize tracks the context size.
func (r *Recorder) SetHistorySize(total int) {
	if r == nil {
		return
	}
	r.historySize.Set(float64(total))
}

// Middleware records request counts and latency by route.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		path := req.Pattern
		if path == "" {
			path = "unmatched"
		}
		r.httpRequests.WithLabelValues(req.Method, path, statusBucket(rec.status)).Inc()
		r.httpDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the gathered metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// statusBucket groups HTTP status codes into 1xx..5xx.
func statusBucket(code int) string {
	if code < 100 || code > 599 {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
