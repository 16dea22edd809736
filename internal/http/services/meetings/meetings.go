// Package meetings implementa el control de acceso a reuniones:
// lectura para owner/participante/públicas, escritura solo para el owner.
package meetings

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/observability/logger"
	"github.com/dropDatabas3/meetpoint/internal/store"
)

// CreateInput son los datos para crear una reunión.
type CreateInput struct {
	Title       string
	Description string
	ScheduledAt *time.Time
	IsPublic    bool
}

// UpdateInput son los campos actualizables; nil = no enviado.
// OwnerUID y Participants no se actualizan por esta vía.
type UpdateInput struct {
	Title       *string
	Description *string
	ScheduledAt *time.Time
	Status      *string
	IsPublic    *bool
}

// Service expone el CRUD de reuniones.
type Service interface {
	Create(ctx context.Context, subject string, in CreateInput) (*types.Meeting, error)

	// Get aplica la regla de lectura y, si el lector de una reunión
	// pública aún no participa, lo inscribe (efecto colateral documentado
	// de la lectura: inserción at-most-once, releer es no-op).
	Get(ctx context.Context, subject, id string) (*types.Meeting, error)

	// List devuelve las reuniones visibles para el subject (propias,
	// participadas o públicas). Listar no inscribe.
	List(ctx context.Context, subject string) ([]*types.Meeting, error)

	Update(ctx context.Context, subject, id string, in UpdateInput) (*types.Meeting, error)
	Delete(ctx context.Context, subject, id string) error
}

// Deps contiene las dependencias del service.
type Deps struct {
	Meetings *store.Meetings
	Now      func() time.Time // opcional, para tests
}

type service struct {
	meetings *store.Meetings
	now      func() time.Time
}

// NewService crea el service de reuniones.
func NewService(d Deps) Service {
	now := d.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{meetings: d.Meetings, now: now}
}

func (s *service) Create(ctx context.Context, subject string, in CreateInput) (*types.Meeting, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("meetings"), logger.Op("create"))

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, httperrors.Validation("title is required")
	}

	now := s.now()
	m := &types.Meeting{
		ID:          uuid.NewString(),
		OwnerUID:    subject,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		ScheduledAt: in.ScheduledAt,
		Status:      types.MeetingStatusScheduled,
		IsPublic:    in.IsPublic,
		// El owner es el único participante inicial.
		Participants: []string{subject},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.meetings.Save(ctx, m); err != nil {
		return nil, httperrors.ErrUpstream.WithCause(err)
	}
	log.Info("meeting created", logger.MeetingID(m.ID), logger.SubjectID(subject))
	return m, nil
}

// load trae la reunión. NotFound se chequea antes que cualquier regla de
// ownership: un id inexistente es 404 para todo el mundo.
func (s *service) load(ctx context.Context, id string) (*types.Meeting, error) {
	m, err := s.meetings.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, httperrors.ErrNotFound.WithMessage("meeting not found")
		}
		return nil, httperrors.ErrUpstream.WithCause(err)
	}
	return m, nil
}

func (s *service) Get(ctx context.Context, subject, id string) (*types.Meeting, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("meetings"), logger.Op("get"))

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if m.OwnerUID != subject && !m.IsParticipant(subject) {
		if !m.IsPublic {
			return nil, httperrors.ErrForbidden
		}
		// Auto-inscripción en la lectura de una reunión pública.
		if m.AddParticipant(subject) {
			m.Touch()
			if err := s.meetings.Save(ctx, m); err != nil {
				return nil, httperrors.ErrUpstream.WithCause(err)
			}
			log.Info("participant enrolled on read", logger.MeetingID(id), logger.SubjectID(subject))
		}
	}
	return m, nil
}

func (s *service) List(ctx context.Context, subject string) ([]*types.Meeting, error) {
	all, err := s.meetings.List(ctx)
	if err != nil {
		return nil, httperrors.ErrUpstream.WithCause(err)
	}
	visible := make([]*types.Meeting, 0, len(all))
	for _, m := range all {
		if m.IsPublic || m.OwnerUID == subject || m.IsParticipant(subject) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

func (s *service) Update(ctx context.Context, subject, id string, in UpdateInput) (*types.Meeting, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("meetings"), logger.Op("update"))

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// Escritura solo-owner: participar no alcanza.
	if m.OwnerUID != subject {
		return nil, httperrors.ErrForbidden
	}

	changed := false
	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			m.Title = t
			changed = true
		}
	}
	if in.Description != nil {
		m.Description = strings.TrimSpace(*in.Description)
		changed = true
	}
	if in.ScheduledAt != nil {
		m.ScheduledAt = in.ScheduledAt
		changed = true
	}
	if in.Status != nil {
		// Status es texto libre del owner; no hay grafo de transiciones.
		if st := strings.TrimSpace(*in.Status); st != "" {
			m.Status = st
			changed = true
		}
	}
	if in.IsPublic != nil {
		m.IsPublic = *in.IsPublic
		changed = true
	}
	if !changed {
		return nil, httperrors.ErrNoValidFields
	}

	m.Touch()
	if err := s.meetings.Save(ctx, m); err != nil {
		return nil, httperrors.ErrUpstream.WithCause(err)
	}
	log.Info("meeting updated", logger.MeetingID(id))
	return m, nil
}

func (s *service) Delete(ctx context.Context, subject, id string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("meetings"), logger.Op("delete"))

	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if m.OwnerUID != subject {
		return httperrors.ErrForbidden
	}
	if err := s.meetings.Delete(ctx, id); err != nil && !stderrors.Is(err, store.ErrNotFound) {
		return httperrors.ErrUpstream.WithCause(err)
	}
	log.Info("meeting deleted", logger.MeetingID(id))
	return nil
}
