// Package oauth contiene DTOs para los callbacks de login social.
package oauth

import "github.com/dropDatabas3/meetpoint/internal/http/dto/auth"

// UserProfilePayload es el perfil que el frontend obtuvo del provider.
// Según el provider puede traer email o solo uid, y el nombre puede venir
// partido (givenName/familyName) o combinado (name/displayName).
type UserProfilePayload struct {
	UID           string `json:"uid,omitempty"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	GivenName     string `json:"givenName,omitempty"`
	FamilyName    string `json:"familyName,omitempty"`
	PhotoURL      string `json:"photoURL,omitempty"`
	EmailVerified *bool  `json:"emailVerified,omitempty"`
}

// CallbackRequest representa el body de POST /api/oauth/{provider}.
type CallbackRequest struct {
	Token       string             `json:"token"`
	UserProfile UserProfilePayload `json:"userProfile"`
}

// CallbackResponse es idéntica en forma a la respuesta de login.
type CallbackResponse struct {
	Success bool          `json:"success"`
	User    auth.UserView `json:"user"`
	Token   string        `json:"token"`
}

// CombinedName devuelve el nombre combinado, prefiriendo displayName.
func (p UserProfilePayload) CombinedName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}
