package middlewares

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

// statusRecorder captura el status code escrito por el handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// WithRequestLog asigna un request ID, inyecta un logger scoped en el
// contexto y loguea cada request al completarse.
func WithRequestLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)

			ctx := setRequestID(r.Context(), reqID)
			log := logger.With(logger.RequestID(reqID))
			ctx = logger.ToContext(ctx, log)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Info("request",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(rec.status),
				logger.Duration(time.Since(start)),
				logger.ClientIP(helpers.ClientIP(r)),
			)
		})
	}
}
