// Package oauth contiene el controller del callback de login social.
package oauth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authdto "github.com/dropDatabas3/meetpoint/internal/http/dto/auth"
	dto "github.com/dropDatabas3/meetpoint/internal/http/dto/oauth"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	"github.com/dropDatabas3/meetpoint/internal/http/providers"
	svc "github.com/dropDatabas3/meetpoint/internal/http/services/oauth"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

// Controller maneja POST /api/oauth/{provider}.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de login social.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Callback maneja el callback de un provider social. El path param
// {provider} selecciona el descriptor; un tag desconocido es 400.
// POST /api/oauth/{provider}
func (c *Controller) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OAuth.Callback"), logger.Provider(provider))

	var req dto.CallbackRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	result, err := c.service.Callback(ctx, svc.CallbackInput{
		Provider: provider,
		Profile: providers.UserProfile{
			ExternalID:    req.UserProfile.UID,
			Email:         req.UserProfile.Email,
			DisplayName:   req.UserProfile.CombinedName(),
			GivenName:     req.UserProfile.GivenName,
			FamilyName:    req.UserProfile.FamilyName,
			PhotoURL:      req.UserProfile.PhotoURL,
			EmailVerified: req.UserProfile.EmailVerified,
		},
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.CallbackResponse{
		Success: true,
		User:    authdto.ViewOf(result.Profile),
		Token:   result.Token,
	})
	log.Debug("callback ok", logger.SubjectID(result.Profile.ID))
}
