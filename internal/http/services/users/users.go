// Package users implementa el control de acceso a perfiles: un subject
// solo puede leer, actualizar o borrar su propio perfil.
package users

import (
	"context"
	stderrors "errors"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
	"github.com/dropDatabas3/meetpoint/internal/email"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/identity"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
	"github.com/dropDatabas3/meetpoint/internal/store"
	"github.com/dropDatabas3/meetpoint/internal/validation"
)

// UpdateInput son los campos del allow-list; nil = no enviado.
// Campos fuera del allow-list se ignoran antes de llegar acá.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Age       *int
	Email     *string
}

// Service expone el CRUD de perfiles con la regla de self-access.
type Service interface {
	// Get devuelve el perfil uid si subject == uid.
	Get(ctx context.Context, subject, uid string) (*types.Profile, error)

	// Update aplica los campos permitidos. Todos vacíos tras trim =>
	// NoValidFields. Cambio de email actualiza el oracle y marca el
	// perfil como no verificado.
	Update(ctx context.Context, subject, uid string, in UpdateInput) (*types.Profile, error)

	// Delete borra perfil y registro de auth en cascada.
	Delete(ctx context.Context, subject, uid string) error
}

// Deps contiene las dependencias del service.
type Deps struct {
	Profiles *store.Profiles
	Oracle   identity.Oracle
	Mailer   email.Sender
}

type service struct {
	profiles *store.Profiles
	oracle   identity.Oracle
	mailer   email.Sender
}

// NewService crea el service de perfiles.
func NewService(d Deps) Service {
	return &service{profiles: d.Profiles, oracle: d.Oracle, mailer: d.Mailer}
}

// load valida self-access y trae el perfil. NotFound se chequea después
// del gate de identidad: un uid ajeno siempre es Forbidden, exista o no.
func (s *service) load(ctx context.Context, subject, uid string) (*types.Profile, error) {
	if subject != uid {
		return nil, httperrors.ErrForbidden
	}
	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, httperrors.ErrNotFound.WithMessage("user not found")
		}
		return nil, httperrors.ErrUpstream.WithCause(err)
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, subject, uid string) (*types.Profile, error) {
	return s.load(ctx, subject, uid)
}

func (s *service) Update(ctx context.Context, subject, uid string, in UpdateInput) (*types.Profile, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("users"), logger.Op("update"))

	p, err := s.load(ctx, subject, uid)
	if err != nil {
		return nil, err
	}

	changed := false
	if v := trimmed(in.FirstName); v != "" {
		p.FirstName = v
		changed = true
	}
	if v := trimmed(in.LastName); v != "" {
		p.LastName = v
		changed = true
	}
	if in.Age != nil {
		if msg := validation.Age(in.Age); msg != "" {
			return nil, httperrors.Validation(msg)
		}
		p.Age = in.Age
		changed = true
	}

	emailChanged := false
	if v := validation.NormalizeEmail(trimmed(in.Email)); v != "" && v != p.Email {
		if msg := validation.Email(v); msg != "" {
			return nil, httperrors.Validation(msg)
		}
		// El registro del oracle se actualiza en la misma operación lógica
		// y el email nuevo queda sin verificar.
		if err := s.oracle.UpdateEmail(ctx, uid, v); err != nil {
			if stderrors.Is(err, identity.ErrEmailTaken) {
				return nil, httperrors.Validation("email already in use")
			}
			return nil, httperrors.ErrUpstream.WithCause(err)
		}
		p.Email = v
		p.EmailVerified = false
		changed = true
		emailChanged = true
	}

	if !changed {
		return nil, httperrors.ErrNoValidFields
	}

	p.Touch()
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, httperrors.ErrUpstream.WithCause(err)
	}

	if emailChanged {
		s.sendVerification(p, log)
	}
	log.Info("profile updated", logger.SubjectID(uid))
	return p, nil
}

func (s *service) Delete(ctx context.Context, subject, uid string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("users"), logger.Op("delete"))

	if _, err := s.load(ctx, subject, uid); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, uid); err != nil && !stderrors.Is(err, store.ErrNotFound) {
		return httperrors.ErrUpstream.WithCause(err)
	}
	// Cascada al registro de auth; el borrado del oracle es idempotente.
	if err := s.oracle.Delete(ctx, uid); err != nil {
		return httperrors.ErrUpstream.WithCause(err)
	}
	log.Info("profile deleted", logger.SubjectID(uid))
	return nil
}

func (s *service) sendVerification(p *types.Profile, log *zap.Logger) {
	if s.mailer == nil {
		return
	}
	subject, html, text := email.VerificationBodies(p.FirstName)
	if err := s.mailer.Send(p.Email, subject, html, text); err != nil {
		log.Warn("verification mail failed", logger.EmailMasked(p.Email), logger.Err(err))
	}
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
