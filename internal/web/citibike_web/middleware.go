package citibike_web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
)

func responseStatus(writer middleware.WrapResponseWriter) int {
	if status := writer.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}

// requestLogger writes one line per request in place of chi's text logger.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(wrapped, request)

			logger.Info("request",
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.String("query", request.URL.RawQuery),
				zap.Int("status", responseStatus(wrapped)),
				zap.Int("bytes", wrapped.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(request.Context())),
				zap.String("remote", request.RemoteAddr),
			)
		})
	}
}

// requestMetrics labels by route pattern, not raw path, to bound cardinality.
func requestMetrics(metrics *common.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(wrapped, request)

			route := "unmatched"
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			metrics.HttpRequestSeconds.
				WithLabelValues(route, strconv.Itoa(responseStatus(wrapped))).
				Observe(time.Since(start).Seconds())
		})
	}
}
