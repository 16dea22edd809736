package store

import (
	"context"
	"encoding/json"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
)

// Profiles es el repositorio tipado de perfiles sobre el document store.
type Profiles struct {
	s Store
}

// NewProfiles crea el repositorio de perfiles.
func NewProfiles(s Store) *Profiles { return &Profiles{s: s} }

// Get carga el perfil del subject. ErrNotFound si no existe.
func (r *Profiles) Get(ctx context.Context, id string) (*types.Profile, error) {
	var p types.Profile
	if err := r.s.Get(ctx, ColProfiles, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save persiste el perfil (create o replace).
func (r *Profiles) Save(ctx context.Context, p *types.Profile) error {
	return r.s.Put(ctx, ColProfiles, p.ID, p)
}

// Delete elimina el documento de perfil.
func (r *Profiles) Delete(ctx context.Context, id string) error {
	return r.s.Delete(ctx, ColProfiles, id)
}

// Meetings es el repositorio tipado de reuniones.
type Meetings struct {
	s Store
}

// NewMeetings crea el repositorio de reuniones.
func NewMeetings(s Store) *Meetings { return &Meetings{s: s} }

// Get carga una reunión por id. ErrNotFound si no existe.
func (r *Meetings) Get(ctx context.Context, id string) (*types.Meeting, error) {
	var m types.Meeting
	if err := r.s.Get(ctx, ColMeetings, id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save persiste la reunión.
func (r *Meetings) Save(ctx context.Context, m *types.Meeting) error {
	return r.s.Put(ctx, ColMeetings, m.ID, m)
}

// Delete elimina la reunión.
func (r *Meetings) Delete(ctx context.Context, id string) error {
	return r.s.Delete(ctx, ColMeetings, id)
}

// List devuelve todas las reuniones. El filtrado por visibilidad es
// responsabilidad del service.
func (r *Meetings) List(ctx context.Context) ([]*types.Meeting, error) {
	var out []*types.Meeting
	err := r.s.List(ctx, ColMeetings, func(id string, raw []byte) error {
		var m types.Meeting
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
		out = append(out, &m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
