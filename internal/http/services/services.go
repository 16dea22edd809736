// Package services agrupa todos los services HTTP.
// Este es el "composition root" de services: cada dominio recibe solo
// las dependencias que necesita.
package services

import (
	"github.com/dropDatabas3/meetpoint/internal/email"
	"github.com/dropDatabas3/meetpoint/internal/http/services/auth"
	"github.com/dropDatabas3/meetpoint/internal/http/services/health"
	"github.com/dropDatabas3/meetpoint/internal/http/services/meetings"
	"github.com/dropDatabas3/meetpoint/internal/http/services/oauth"
	"github.com/dropDatabas3/meetpoint/internal/http/services/reconcile"
	"github.com/dropDatabas3/meetpoint/internal/http/services/users"
	"github.com/dropDatabas3/meetpoint/internal/identity"
	"github.com/dropDatabas3/meetpoint/internal/keymutex"
	"github.com/dropDatabas3/meetpoint/internal/store"
)

// Deps contiene la infraestructura compartida por los services.
type Deps struct {
	// ─── Infraestructura ───
	Store  store.Store     // Document store (perfiles, reuniones, cuentas)
	Oracle identity.Oracle // Identity Oracle (cuentas, passwords, tokens)
	Mailer email.Sender    // Mails de verificación, opcional

	// ─── Health Check ───
	HealthDeps health.Deps // Probes específicos para health
}

// Services expone los services por dominio.
type Services struct {
	Auth     auth.Service
	OAuth    oauth.Service
	Users    users.Service
	Meetings meetings.Service
	Health   health.Service
}

// New arma la cascada completa de services.
func New(d Deps) *Services {
	profiles := store.NewProfiles(d.Store)
	engine := reconcile.NewEngine(reconcile.Deps{
		Oracle:   d.Oracle,
		Profiles: profiles,
		Locks:    keymutex.New(),
	})
	return &Services{
		Auth: auth.NewService(auth.Deps{
			Engine: engine,
			Mailer: d.Mailer,
		}),
		OAuth: oauth.NewService(oauth.Deps{
			Engine: engine,
		}),
		Users: users.NewService(users.Deps{
			Profiles: profiles,
			Oracle:   d.Oracle,
			Mailer:   d.Mailer,
		}),
		Meetings: meetings.NewService(meetings.Deps{
			Meetings: store.NewMeetings(d.Store),
		}),
		Health: health.NewService(d.HealthDeps),
	}
}
