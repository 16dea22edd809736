// Package meetings contiene el controller del CRUD de reuniones.
package meetings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/meetpoint/internal/http/dto/meetings"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	"github.com/dropDatabas3/meetpoint/internal/http/middlewares"
	svc "github.com/dropDatabas3/meetpoint/internal/http/services/meetings"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

// Controller maneja POST|GET|PUT|DELETE /api/meetings[/{id}].
type Controller struct {
	service svc.Service
}

// NewController crea el controller de reuniones.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Create crea una reunión con el subject como owner.
// POST /api/meetings
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := middlewares.GetSubjectID(ctx)
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Meetings.Create"))

	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	m, err := c.service.Create(ctx, subject, svc.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.SingleResponse{Success: true, Meeting: dto.ViewOf(m)})
	log.Debug("meeting created", logger.MeetingID(m.ID))
}

// List devuelve las reuniones visibles para el subject.
// GET /api/meetings
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := middlewares.GetSubjectID(ctx)

	ms, err := c.service.List(ctx, subject)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	views := make([]dto.View, 0, len(ms))
	for _, m := range ms {
		views = append(views, dto.ViewOf(m))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListResponse{Success: true, Meetings: views, Count: len(views)})
}

// Get devuelve una reunión si el subject puede leerla. La lectura de una
// reunión pública inscribe al lector como participante (ver service).
// GET /api/meetings/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := middlewares.GetSubjectID(ctx)
	id := chi.URLParam(r, "id")

	m, err := c.service.Get(ctx, subject, id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SingleResponse{Success: true, Meeting: dto.ViewOf(m)})
}

// Update modifica una reunión propia.
// PUT /api/meetings/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := middlewares.GetSubjectID(ctx)
	id := chi.URLParam(r, "id")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Meetings.Update"))

	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	m, err := c.service.Update(ctx, subject, id, svc.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		Status:      req.Status,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SingleResponse{Success: true, Meeting: dto.ViewOf(m)})
	log.Debug("meeting updated", logger.MeetingID(id))
}

// Delete borra una reunión propia.
// DELETE /api/meetings/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := middlewares.GetSubjectID(ctx)
	id := chi.URLParam(r, "id")

	if err := c.service.Delete(ctx, subject, id); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, Message: "meeting deleted"})
}
