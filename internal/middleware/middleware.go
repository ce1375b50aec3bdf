package middleware

import (
	"fmt"
	"net/http"
	"time"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// RequestLogger logs every request through the API category and records its metrics
// under the matched route pattern.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			metrics.ObserveRequest(r.Method, route, status, elapsed)
			log.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", status), elapsed.String())
		})
	}
}

// RateLimit applies one token bucket to the whole service. rps <= 0 disables it.
func RateLimit(rps float64, burst int, log *logger.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("RATELIMIT", fmt.Sprintf("Rejected %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr))
				w.Header().Set("Retry-After", "1")
				utils.WriteJSON(w, http.StatusTooManyRequests, utils.ErrorResponse("rate limit exceeded", "rate_limited"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows the configured origins with credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
