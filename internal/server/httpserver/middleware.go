package httpserver

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/dmitrijs2005/knowledgehub/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}

// RequestLogger logs one line per request and feeds the request metrics.
func RequestLogger(l logging.Logger, m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			begin := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, req)

			elapsed := time.Since(begin)
			if m != nil {
				m.HistRequestDuration.Observe(elapsed.Seconds())
				m.CounterRequests.With(prometheus.Labels{
					"method": req.Method,
					"status": strconv.Itoa(rec.statusCode),
				}).Inc()
			}

			l.Info(req.Context(), "request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", rec.statusCode,
				"latency_ms", elapsed.Milliseconds(),
				"ip", clientIP(req),
			)
		})
	}
}

// PanicRecovery turns a handler panic into a 500 and a log line.
func PanicRecovery(l logging.Logger, m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					l.Error(req.Context(), "panic serving request", "path", req.URL.Path, "panic", r, "stack", string(debug.Stack()))
					if m != nil {
						m.CounterHandleRequestPanic.Inc()
					}
					writeMessage(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, req)
		})
	}
}
