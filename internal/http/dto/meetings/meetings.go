// Package meetings contiene DTOs para el CRUD de reuniones.
package meetings

import (
	"time"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
)

// CreateRequest representa el body de POST /api/meetings.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	IsPublic    bool       `json:"isPublic,omitempty"`
}

// UpdateRequest representa el body de PUT /api/meetings/{id}.
type UpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Status      *string    `json:"status,omitempty"`
	IsPublic    *bool      `json:"isPublic,omitempty"`
}

// View es la proyección pública de una reunión.
type View struct {
	ID           string     `json:"id"`
	OwnerUID     string     `json:"ownerUid"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ScheduledAt  *time.Time `json:"scheduledAt,omitempty"`
	Status       string     `json:"status"`
	IsPublic     bool       `json:"isPublic"`
	Participants []string   `json:"participants"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ViewOf proyecta una Meeting de dominio a su vista pública.
func ViewOf(m *types.Meeting) View {
	return View{
		ID:           m.ID,
		OwnerUID:     m.OwnerUID,
		Title:        m.Title,
		Description:  m.Description,
		ScheduledAt:  m.ScheduledAt,
		Status:       m.Status,
		IsPublic:     m.IsPublic,
		Participants: m.Participants,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// SingleResponse envuelve una reunión.
type SingleResponse struct {
	Success bool `json:"success"`
	Meeting View `json:"meeting"`
}

// ListResponse envuelve la lista de reuniones visibles para el sujeto.
type ListResponse struct {
	Success  bool   `json:"success"`
	Meetings []View `json:"meetings"`
	Count    int    `json:"count"`
}

// DeleteResponse confirma el borrado.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
