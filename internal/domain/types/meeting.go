package types

import "time"

// MeetingStatusScheduled es el estado inicial de toda reunión.
// El resto de estados es texto libre provisto por el owner.
const MeetingStatusScheduled = "scheduled"

// Meeting es un recurso con dueño. OwnerUID es inmutable después de la
// creación y siempre pertenece a Participants.
type Meeting struct {
	ID           string    `json:"id"`
	OwnerUID     string    `json:"ownerUid"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ScheduledAt  *time.Time `json:"scheduledAt,omitempty"`
	Status       string     `json:"status"`
	IsPublic     bool       `json:"isPublic"`
	Participants []string   `json:"participants"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Touch renueva el timestamp de modificación.
func (m *Meeting) Touch() { m.UpdatedAt = time.Now().UTC() }

// IsParticipant indica si el subject ya participa de la reunión.
func (m *Meeting) IsParticipant(uid string) bool {
	for _, p := range m.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// AddParticipant agrega el subject al set de participantes (unión
// idempotente, at-most-once).
func (m *Meeting) AddParticipant(uid string) bool {
	if uid == "" || m.IsParticipant(uid) {
		return false
	}
	m.Participants = append(m.Participants, uid)
	return true
}
