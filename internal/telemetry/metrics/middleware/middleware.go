// Package middleware instruments individual http handlers with
// request count and duration metrics, labeled by handler id.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Middleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New(registry *prometheus.Registry, durationBuckets []float64) *Middleware {
	if durationBuckets == nil {
		durationBuckets = prometheus.DefBuckets
	}

	factory := promauto.With(registry)
	return &Middleware{
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_handler_requests_total",
			Help: "Total number of requests per wrapped handler",
		}, []string{"handler", "method", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_handler_request_duration_seconds",
			Help:    "Request duration per wrapped handler in seconds",
			Buckets: durationBuckets,
		}, []string{"handler", "method"}),
	}
}

func (m *Middleware) WrapHandler(handlerID string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(recorder, r)

		m.requestCount.
			WithLabelValues(handlerID, r.Method, strconv.Itoa(recorder.statusCode)).
			Inc()
		m.requestDuration.
			WithLabelValues(handlerID, r.Method).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
