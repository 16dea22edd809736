// Package oauth implementa el callback de login social: el frontend ya
// habló con el provider y entrega el perfil obtenido; acá solo se
// reconcilia contra el perfil canónico.
package oauth

import (
	"context"
	"strings"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/http/providers"
	"github.com/dropDatabas3/meetpoint/internal/http/services/reconcile"
	"github.com/dropDatabas3/meetpoint/internal/metrics"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
	"github.com/dropDatabas3/meetpoint/internal/validation"
)

// CallbackInput son los datos crudos de POST /api/oauth/{provider}.
type CallbackInput struct {
	Provider string
	Profile  providers.UserProfile
}

// CallbackResult es el resultado interno del callback.
type CallbackResult struct {
	Profile *types.Profile
	Token   string
}

// Service expone el callback social.
type Service interface {
	Callback(ctx context.Context, in CallbackInput) (*CallbackResult, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Engine reconcile.Engine
}

type service struct {
	engine reconcile.Engine
}

// NewService crea el service de login social.
func NewService(d Deps) Service {
	return &service{engine: d.Engine}
}

func (s *service) Callback(ctx context.Context, in CallbackInput) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("oauth"), logger.Provider(in.Provider))

	desc, ok := providers.ByTag(in.Provider)
	if !ok || desc.Tag == types.ProviderManual {
		return nil, httperrors.Validation("unsupported provider: " + in.Provider)
	}

	email := strings.TrimSpace(in.Profile.Email)
	extID := strings.TrimSpace(in.Profile.ExternalID)

	// El perfil entrante debe identificar la cuenta: email, o id externo
	// en flujos que resuelven por id (GitHub puede no exponer email).
	if email == "" && !(desc.LookupByExternalID && extID != "") {
		metrics.Logins.WithLabelValues(desc.Tag, "rejected").Inc()
		return nil, httperrors.Validation("userProfile must include email or uid")
	}
	if email != "" {
		if msg := validation.Email(email); msg != "" {
			metrics.Logins.WithLabelValues(desc.Tag, "rejected").Inc()
			return nil, httperrors.Validation(msg)
		}
	}

	profile, cred, err := s.engine.Reconcile(ctx, reconcile.Event{
		Provider:    desc,
		Email:       email,
		ExternalID:  extID,
		Attributes:  in.Profile,
		AllowCreate: true,
	})
	if err != nil {
		metrics.Logins.WithLabelValues(desc.Tag, "rejected").Inc()
		return nil, err
	}

	metrics.Logins.WithLabelValues(desc.Tag, "ok").Inc()
	log.Info("social login", logger.SubjectID(profile.ID))
	return &CallbackResult{Profile: profile, Token: cred.Token}, nil
}
