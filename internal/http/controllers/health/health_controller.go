// Package health contiene el controller del health check.
package health

import (
	"net/http"

	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	svc "github.com/dropDatabas3/meetpoint/internal/http/services/health"
)

// Controller maneja GET /api/health.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de health.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Check responde el liveness probe. Siempre 200: el estado degradado va
// en el cuerpo, no en el status code.
// GET /api/health
func (c *Controller) Check(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.service.Check(r.Context()))
}
