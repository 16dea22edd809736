// Package server arma el handler HTTP completo: instancia el document
// store, el Identity Oracle, el cache, el limiter y los services, y los
// inyecta en cascada hasta el router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/meetpoint/internal/cache"
	"github.com/dropDatabas3/meetpoint/internal/config"
	"github.com/dropDatabas3/meetpoint/internal/email"
	"github.com/dropDatabas3/meetpoint/internal/http/controllers"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	"github.com/dropDatabas3/meetpoint/internal/http/router"
	"github.com/dropDatabas3/meetpoint/internal/http/services"
	"github.com/dropDatabas3/meetpoint/internal/http/services/health"
	"github.com/dropDatabas3/meetpoint/internal/identity"
	"github.com/dropDatabas3/meetpoint/internal/metrics"
	"github.com/dropDatabas3/meetpoint/internal/rate"
	"github.com/dropDatabas3/meetpoint/internal/store"
	"github.com/dropDatabas3/meetpoint/internal/store/memory"
	"github.com/dropDatabas3/meetpoint/internal/store/pg"
)

// BuildHandler construye el handler raíz y devuelve un cleanup que cierra
// las conexiones abiertas.
func BuildHandler(ctx context.Context, cfg *config.Config) (http.Handler, func() error, error) {
	// El detalle de errores 5xx solo se expone fuera de prod.
	httperrors.SetExposeDetail(!cfg.IsProd())
	// X-Forwarded-For solo se honra detrás de un proxy declarado.
	helpers.SetTrustProxy(cfg.Server.TrustProxy)

	// 1. Document store
	var (
		st  store.Store
		err error
	)
	switch cfg.Storage.Driver {
	case "postgres":
		st, err = pg.New(ctx, cfg.Storage.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("server: postgres store: %w", err)
		}
	default:
		st = memory.New()
	}
	cleanup := func() error { return st.Close() }

	// 2. Identity Oracle
	oracle, err := identity.NewLocal(st, identity.LocalConfig{
		Secret:    cfg.Identity.Secret,
		Issuer:    cfg.Identity.Issuer,
		AccessTTL: config.Duration(cfg.Identity.AccessTTL, 0),
	})
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("server: identity oracle: %w", err)
	}

	// 3. Cache (token->subject del Request Gate)
	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Prefix,
	})
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("server: cache: %w", err)
	}
	prevCleanup := cleanup
	cleanup = func() error {
		err := cacheClient.Close()
		if e := prevCleanup(); err == nil {
			err = e
		}
		return err
	}

	// 4. Rate limiter de login, por dirección de cliente. El driver memory
	// es local al proceso (se resetea al reiniciar); redis comparte los
	// contadores entre instancias.
	var limiter rate.Limiter
	switch cfg.Rate.Driver {
	case "redis":
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		prev := cleanup
		cleanup = func() error {
			err := rc.Close()
			if e := prev(); err == nil {
				err = e
			}
			return err
		}
		limiter = rate.NewRedisLimiter(rc, cfg.Cache.Prefix+":rl:", int(cfg.Rate.Login.Limit), config.Duration(cfg.Rate.Login.Window, 5*time.Minute))
	default:
		limiter = rate.NewMemoryLimiter(int(cfg.Rate.Login.Limit), config.Duration(cfg.Rate.Login.Window, 0))
	}

	// 5. Mailer (opcional)
	var mailer email.Sender = email.Noop{}
	smtpCfg := email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.From,
		TLSMode:   cfg.SMTP.TLSMode,
	}
	if smtpCfg.Enabled() {
		mailer = email.NewSMTPSender(smtpCfg)
	}

	// 6. Métricas
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if err := metrics.Register(registry); err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("server: metrics: %w", err)
		}
	}

	// 7. Services y controllers
	svcs := services.New(services.Deps{
		Store:  st,
		Oracle: oracle,
		Mailer: mailer,
		HealthDeps: health.Deps{
			StoreCheck: st.Ping,
			CacheCheck: cacheClient.Ping,
		},
	})
	ctrls := controllers.New(svcs)

	handler := router.New(router.Deps{
		Controllers:     ctrls,
		Oracle:          oracle,
		TokenCache:      cacheClient,
		TokenCacheTTL:   config.Duration(cfg.Identity.VerifyCacheTTL, 0),
		Limiter:         limiter,
		RateBypass:      cfg.Rate.Bypass,
		CORSOrigins:     cfg.Server.CORSAllowedOrigins,
		MetricsRegistry: registry,
	})
	return handler, cleanup, nil
}
