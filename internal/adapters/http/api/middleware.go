package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/quakeboard/pkg/metrics"
)

// HeaderRequestID correlates a response with the request that caused it.
const HeaderRequestID = "X-Request-ID"

// errorClass labels a failed response by the service error it stands for.
type errorClass struct {
	kind     string
	severity string
}

// errorClasses mirrors classify; a 502 means the catalog failed and the
// dashboard was reset, a 400 that nothing left the process.
var errorClasses = map[int]errorClass{
	http.StatusBadRequest:         {"invalid_filter", "low"},
	http.StatusNotFound:           {"not_found", "low"},
	http.StatusTooManyRequests:    {"backpressure", "medium"},
	http.StatusBadGateway:         {"catalog_error", "high"},
	http.StatusServiceUnavailable: {"unavailable", "high"},
	http.StatusGatewayTimeout:     {"timeout", "high"},
}

func classifyStatus(status int) errorClass {
	if c, ok := errorClasses[status]; ok {
		return c
	}
	if status >= http.StatusInternalServerError {
		return errorClass{"internal_error", "high"}
	}
	return errorClass{"client_error", "medium"}
}

// MetricsMiddleware records request counts, latency and error classes for
// endpoint, and echoes or assigns an X-Request-ID.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsedMs := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, elapsedMs)

		if rec.status >= http.StatusBadRequest {
			c := classifyStatus(rec.status)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, c.kind)
			metrics.RecordErrorByType(c.kind, c.severity)
		}
	}
}

// statusRecorder captures the first status code written.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
