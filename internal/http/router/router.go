// Package router arma el árbol de rutas HTTP y la cadena de middlewares.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/meetpoint/internal/cache"
	"github.com/dropDatabas3/meetpoint/internal/http/controllers"
	"github.com/dropDatabas3/meetpoint/internal/http/middlewares"
	"github.com/dropDatabas3/meetpoint/internal/identity"
	"github.com/dropDatabas3/meetpoint/internal/rate"
)

// Deps contiene todo lo que el router necesita para armar el árbol.
type Deps struct {
	Controllers *controllers.Controllers
	Oracle      identity.Oracle

	// TokenCache cachea token->subject en el Request Gate. Opcional.
	TokenCache    cache.Client
	TokenCacheTTL time.Duration

	// Limiter acota los intentos de login por dirección de cliente.
	Limiter    rate.Limiter
	RateBypass bool

	// CORSOrigins son los orígenes permitidos; vacío = sin CORS.
	CORSOrigins []string

	// MetricsRegistry expone /metrics cuando no es nil.
	MetricsRegistry *prometheus.Registry
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewares.WithRecover())
	r.Use(middlewares.WithRequestLog())
	r.Use(middlewares.WithSecurityHeaders())
	if len(d.CORSOrigins) > 0 {
		r.Use(middlewares.WithCORS(d.CORSOrigins))
	}

	gate := middlewares.WithAuth(middlewares.AuthConfig{
		Verifier: d.Oracle,
		Tokens:   d.TokenCache,
		CacheTTL: d.TokenCacheTTL,
	})
	loginLimit := middlewares.WithRateLimit(middlewares.RateLimitConfig{
		Limiter: d.Limiter,
		KeyFunc: middlewares.ClientAddrRateKey,
		Bypass:  d.RateBypass,
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", d.Controllers.Health.Check)

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", d.Controllers.Auth.Register)
			ar.With(loginLimit).Post("/login", d.Controllers.Auth.Login)
		})

		// Los callbacks sociales emiten credenciales igual que el login.
		api.With(loginLimit).Post("/oauth/{provider}", d.Controllers.OAuth.Callback)

		api.Group(func(priv chi.Router) {
			priv.Use(gate)

			priv.Route("/users/{uid}", func(ur chi.Router) {
				ur.Get("/", d.Controllers.Users.Get)
				ur.Put("/", d.Controllers.Users.Update)
				ur.Delete("/", d.Controllers.Users.Delete)
			})

			priv.Route("/meetings", func(mr chi.Router) {
				mr.Post("/", d.Controllers.Meetings.Create)
				mr.Get("/", d.Controllers.Meetings.List)
				mr.Get("/{id}", d.Controllers.Meetings.Get)
				mr.Put("/{id}", d.Controllers.Meetings.Update)
				mr.Delete("/{id}", d.Controllers.Meetings.Delete)
			})
		})
	})

	if d.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	return r
}
