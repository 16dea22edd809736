// Package auth contiene los controllers de registro y login manual.
package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/meetpoint/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/helpers"
	svc "github.com/dropDatabas3/meetpoint/internal/http/services/auth"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
)

// Controller maneja POST /api/auth/register y POST /api/auth/login.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de autenticación manual.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Register maneja el registro manual.
// POST /api/auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Register"))

	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	profile, err := c.service.Register(ctx, svc.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
		Success: true,
		User:    dto.ViewOf(profile),
	})
	log.Debug("register ok", logger.SubjectID(profile.ID))
}

// Login maneja el login por password.
// POST /api/auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	result, err := c.service.Login(ctx, svc.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		User:    dto.ViewOf(result.Profile),
		Token:   result.Token,
	})
	log.Debug("login ok", logger.SubjectID(result.Profile.ID))
}
