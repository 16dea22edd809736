package middlewares

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/meetpoint/internal/cache"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/metrics"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

// CredentialVerifier es lo único que el gate necesita del Identity Oracle.
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, token string) (string, error)
}

// AuthConfig configura el Request Gate.
type AuthConfig struct {
	Verifier CredentialVerifier
	// Tokens cachea token->subject por un TTL corto para no golpear el
	// oracle en cada request. Opcional (nil = sin cache).
	Tokens   cache.Client
	CacheTTL time.Duration
}

// WithAuth crea el Request Gate: extrae y verifica el bearer token de cada
// request protegido y deja el subject id en el contexto.
//
// Toda falla de verificación del oracle responde el mismo 401 sin importar
// la causa (expired/malformed/revoked) para no permitir probing.
func WithAuth(cfg AuthConfig) Middleware {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 60 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := r.Header.Get("Authorization")
			if raw == "" {
				metrics.CredentialVerifications.WithLabelValues("missing").Inc()
				httperrors.WriteError(w, httperrors.ErrMissingCredential)
				return
			}

			scheme, token, found := strings.Cut(raw, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				metrics.CredentialVerifications.WithLabelValues("missing").Inc()
				httperrors.WriteError(w, httperrors.ErrMissingCredential)
				return
			}
			token = strings.TrimSpace(token)
			if token == "" {
				metrics.CredentialVerifications.WithLabelValues("empty").Inc()
				httperrors.WriteError(w, httperrors.ErrEmptyCredential)
				return
			}

			subject, ok := cachedSubject(ctx, cfg.Tokens, token)
			if !ok {
				var err error
				subject, err = cfg.Verifier.VerifyCredential(ctx, token)
				if err != nil {
					metrics.CredentialVerifications.WithLabelValues("invalid").Inc()
					logger.From(ctx).Debug("credential rejected", logger.Op("gate"))
					httperrors.WriteError(w, httperrors.ErrInvalidCredential)
					return
				}
				cacheSubject(ctx, cfg.Tokens, token, subject, cfg.CacheTTL)
			}

			metrics.CredentialVerifications.WithLabelValues("ok").Inc()
			next.ServeHTTP(w, r.WithContext(WithSubjectID(ctx, subject)))
		})
	}
}

// tokenCacheKey: nunca usar el token crudo como key del cache.
func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "tok:" + hex.EncodeToString(sum[:])
}

func cachedSubject(ctx context.Context, c cache.Client, token string) (string, bool) {
	if c == nil {
		return "", false
	}
	subject, err := c.Get(ctx, tokenCacheKey(token))
	if err != nil || subject == "" {
		return "", false
	}
	return subject, true
}

func cacheSubject(ctx context.Context, c cache.Client, token, subject string, ttl time.Duration) {
	if c == nil {
		return
	}
	_ = c.Set(ctx, tokenCacheKey(token), subject, ttl)
}
