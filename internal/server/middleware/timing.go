package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/iudanet/authcache/internal/server/metrics"
)

// ResponseTimeHeader reports handler latency in milliseconds
const ResponseTimeHeader = "X-Response-Time"

// timingWriter sets the response time header right before headers go out
type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (tw *timingWriter) WriteHeader(code int) {
	if !tw.wroteHeader {
		tw.wroteHeader = true
		elapsed := float64(time.Since(tw.start).Microseconds()) / 1000
		tw.Header().Set(ResponseTimeHeader, fmt.Sprintf("%.3fms", elapsed))
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timingWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

func (tw *timingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// ResponseTimeMiddleware добавляет заголовок X-Response-Time
func ResponseTimeMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&timingWriter{ResponseWriter: w, start: time.Now()}, r)
		})
	}
}

// MetricsMiddleware записывает количество и длительность запросов в Prometheus.
// Route берется из шаблона ServeMux, чтобы не плодить метки по сырым путям.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}

// Chain оборачивает h в middlewares; первый в списке становится внешним
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
