// Package controllers agrupa todos los controllers HTTP.
// Este es el "composition root" de controllers: se construye a partir
// del aggregator de services y se inyecta al router.
package controllers

import (
	"github.com/dropDatabas3/meetpoint/internal/http/controllers/auth"
	"github.com/dropDatabas3/meetpoint/internal/http/controllers/health"
	"github.com/dropDatabas3/meetpoint/internal/http/controllers/meetings"
	"github.com/dropDatabas3/meetpoint/internal/http/controllers/oauth"
	"github.com/dropDatabas3/meetpoint/internal/http/controllers/users"
	"github.com/dropDatabas3/meetpoint/internal/http/services"
)

// Controllers expone los controllers por dominio.
type Controllers struct {
	Auth     *auth.Controller
	OAuth    *oauth.Controller
	Users    *users.Controller
	Meetings *meetings.Controller
	Health   *health.Controller
}

// New crea todos los controllers inyectando los services.
func New(s *services.Services) *Controllers {
	return &Controllers{
		Auth:     auth.NewController(s.Auth),
		OAuth:    oauth.NewController(s.OAuth),
		Users:    users.NewController(s.Users),
		Meetings: meetings.NewController(s.Meetings),
		Health:   health.NewController(s.Health),
	}
}
