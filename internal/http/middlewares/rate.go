package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	"github.com/dropDatabas3/meetpoint/internal/metrics"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
	"github.com/dropDatabas3/meetpoint/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// ClientAddrRateKey genera la clave a partir de la dirección del cliente,
// normalizada (IPv6 bucketizado por /64).
func ClientAddrRateKey(r *http.Request) string {
	return rate.BucketAddr(helpers.ClientIP(r))
}

// RateLimitConfig configura el middleware de rate limiting.
type RateLimitConfig struct {
	Limiter rate.Limiter
	KeyFunc RateKeyFunc
	// Bypass deshabilita el limiter. Solo debe activarse en modo
	// no-productivo explícitamente flaggeado.
	Bypass bool
}

// WithRateLimit crea el middleware de rate limiting para endpoints emisores
// de credenciales.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil || cfg.Bypass {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientAddrRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.KeyFunc(r)
			res, err := cfg.Limiter.Allow(r.Context(), key)
			if err != nil {
				// En caso de error del limiter, permitimos el request
				logger.From(r.Context()).Warn("rate limiter error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				metrics.RateLimited.Inc()
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
				}
				if res.WindowTTL > 0 {
					resetAt := time.Now().Add(res.WindowTTL).Unix()
					w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
				}
				httperrors.WriteError(w, httperrors.ErrRateLimited)
				return
			}

			// Headers informativos
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}
