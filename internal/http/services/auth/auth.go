// Package auth implementa registro manual y login por password.
package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
	"github.com/dropDatabas3/meetpoint/internal/email"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/providers"
	"github.com/dropDatabas3/meetpoint/internal/http/services/reconcile"
	"github.com/dropDatabas3/meetpoint/internal/metrics"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
	"github.com/dropDatabas3/meetpoint/internal/validation"
)

// RegisterInput son los datos crudos del endpoint de registro.
type RegisterInput struct {
	FirstName string
	LastName  string
	Age       *int
	Email     string
	Password  string
}

// LoginInput son los datos crudos del endpoint de login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult es el resultado interno de un login exitoso.
type LoginResult struct {
	Profile *types.Profile
	Token   string
}

// Service expone registro y login manual.
type Service interface {
	// Register crea la cuenta manual. No entrega token: el cliente debe
	// hacer login aparte.
	Register(ctx context.Context, in RegisterInput) (*types.Profile, error)

	// Login resuelve email+password a un perfil y una credencial fresca.
	// Toda falla de resolución se reporta uniforme (sin filtrar si la
	// cuenta existe), salvo WrongProvider.
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Engine reconcile.Engine
	Mailer email.Sender
}

type service struct {
	engine reconcile.Engine
	mailer email.Sender
}

// NewService crea el service de autenticación manual.
func NewService(d Deps) Service {
	return &service{engine: d.Engine, mailer: d.Mailer}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*types.Profile, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("register"))

	// Validación fail-fast: ninguna violación toca el oracle.
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	desc, _ := providers.ByTag(types.ProviderManual)
	profile, _, err := s.engine.Reconcile(ctx, reconcile.Event{
		Provider: desc,
		Email:    in.Email,
		Attributes: providers.UserProfile{
			GivenName:  strings.TrimSpace(in.FirstName),
			FamilyName: strings.TrimSpace(in.LastName),
			Age:        in.Age,
		},
		Password:     in.Password,
		Registration: true,
		AllowCreate:  true,
	})
	if err != nil {
		return nil, err
	}

	metrics.Logins.WithLabelValues(types.ProviderManual, "registered").Inc()
	log.Info("manual registration", logger.SubjectID(profile.ID), logger.EmailMasked(profile.Email))

	// El mail de verificación es best-effort: su falla no revierte el
	// registro.
	s.sendVerification(ctx, profile, log)
	return profile, nil
}

func (s *service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("login"))

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		metrics.Logins.WithLabelValues(types.ProviderManual, "rejected").Inc()
		return nil, httperrors.ErrInvalidCredential
	}
	if msg := validation.Email(email); msg != "" {
		return nil, httperrors.Validation(msg)
	}

	desc, _ := providers.ByTag(types.ProviderManual)
	profile, cred, err := s.engine.Reconcile(ctx, reconcile.Event{
		Provider:      desc,
		Email:         email,
		Password:      in.Password,
		CheckPassword: true,
	})
	if err != nil {
		metrics.Logins.WithLabelValues(types.ProviderManual, "rejected").Inc()
		return nil, err
	}

	metrics.Logins.WithLabelValues(types.ProviderManual, "ok").Inc()
	log.Info("manual login", logger.SubjectID(profile.ID))
	return &LoginResult{Profile: profile, Token: cred.Token}, nil
}

func (s *service) sendVerification(ctx context.Context, p *types.Profile, log *zap.Logger) {
	if s.mailer == nil || p.EmailVerified {
		return
	}
	subject, html, text := email.VerificationBodies(p.FirstName)
	if err := s.mailer.Send(p.Email, subject, html, text); err != nil {
		log.Warn("verification mail failed", logger.EmailMasked(p.Email), logger.Err(err))
	}
}

// validateRegistration aplica las reglas de registro en orden fijo y
// devuelve la primera violación como ValidationError.
func validateRegistration(in RegisterInput) error {
	email := strings.TrimSpace(in.Email)
	if msg := validation.Email(email); msg != "" {
		return httperrors.Validation(msg)
	}
	if rules := validation.Password(in.Password); len(rules) > 0 {
		return httperrors.Validation(strings.Join(rules, "; "))
	}
	if msg := validation.Age(in.Age); msg != "" {
		return httperrors.Validation(msg)
	}
	return nil
}
