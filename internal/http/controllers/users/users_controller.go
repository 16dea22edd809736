// Package users contiene el controller del CRUD de perfiles.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authdto "github.com/dropDatabas3/meetpoint/internal/http/dto/auth"
	dto "github.com/dropDatabas3/meetpoint/internal/http/dto/users"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	"github.com/dropDatabas3/meetpoint/internal/http/middlewares"
	svc "github.com/dropDatabas3/meetpoint/internal/http/services/users"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

// Controller maneja GET|PUT|DELETE /api/users/{uid}.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de perfiles.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Get devuelve el perfil propio.
// GET /api/users/{uid}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := chi.URLParam(r, "uid")
	subject := middlewares.GetSubjectID(ctx)

	profile, err := c.service.Get(ctx, subject, uid)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.GetResponse{Success: true, User: authdto.ViewOf(profile)})
}

// Update aplica los campos del allow-list sobre el perfil propio.
// PUT /api/users/{uid}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := chi.URLParam(r, "uid")
	subject := middlewares.GetSubjectID(ctx)
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Users.Update"))

	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	profile, err := c.service.Update(ctx, subject, uid, svc.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Email:     req.Email,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.UpdateResponse{Success: true, User: authdto.ViewOf(profile)})
	log.Debug("profile updated", logger.SubjectID(uid))
}

// Delete borra el perfil propio y su registro de auth.
// DELETE /api/users/{uid}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := chi.URLParam(r, "uid")
	subject := middlewares.GetSubjectID(ctx)

	if err := c.service.Delete(ctx, subject, uid); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, Message: "user deleted"})
}
