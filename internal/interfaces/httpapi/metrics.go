package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/carelink/internal/domain/access"
)

// Metrics holds the Prometheus collectors exported at /metrics.
type Metrics struct {
	gatherer         prometheus.Gatherer
	accessDecisions  *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInflight prometheus.Gauge
}

// NewMetrics registers collectors on reg. A nil reg uses a private registry,
// which keeps tests isolated from each other.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carelink",
		Name:      "access_decisions_total",
		Help:      "Access router decisions by action and policy rule.",
	}, []string{"action", "rule"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "carelink",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "carelink",
		Name:      "http_inflight_requests",
		Help:      "Requests currently being served.",
	})

	m := &Metrics{gatherer: reg}
	var err error
	if m.accessDecisions, err = registerCollector(reg, decisions); err != nil {
		return nil, err
	}
	if m.requestDuration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}
	if m.requestsInflight, err = registerCollector[prometheus.Gauge](reg, inflight); err != nil {
		return nil, err
	}
	return m, nil
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) observeDecision(d access.Decision) {
	if m == nil {
		return
	}
	m.accessDecisions.WithLabelValues(string(d.Action), string(d.Rule)).Inc()
}

// Instrument records latency and in-flight requests for next.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsInflight.Inc()
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			m.requestsInflight.Dec()
			m.requestDuration.
				WithLabelValues(r.Method, metricRoute(r.URL.Path), strconv.Itoa(rec.statusCode())).
				Observe(time.Since(started).Seconds())
		}()
		next.ServeHTTP(rec, r)
	})
}

// registerCollector registers c, reusing an identical collector that is
// already registered.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

var knownRoutePrefixes = []string{
	"/v1/internal/jobs",
	"/v1/onboarding",
	"/v1/profile",
	"/v1/dashboard",
	"/v1/auth",
	"/v1/caregivers",
	"/v1/careseekers",
	"/onboarding",
	"/auth",
	"/dashboard",
	"/profile",
	"/healthz",
	"/metrics",
}

// metricRoute bounds label cardinality: known routes keep their first two
// segments, anything else is reported as "other".
func metricRoute(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	for _, prefix := range knownRoutePrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			segments := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 4)
			if len(segments) > 3 {
				segments = segments[:3]
			}
			return "/" + strings.Join(segments, "/")
		}
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
