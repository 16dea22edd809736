package auth

import "github.com/dropDatabas3/meetpoint/internal/domain/types"

// UserView es la vista pública de un perfil (nunca expone hashes ni ids
// externos de providers).
type UserView struct {
	UID           string   `json:"uid"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Age           *int     `json:"age,omitempty"`
	Email         string   `json:"email"`
	DisplayName   string   `json:"displayName,omitempty"`
	PhotoURL      string   `json:"photoURL,omitempty"`
	Providers     []string `json:"providers,omitempty"`
	EmailVerified bool     `json:"emailVerified"`
}

// ViewOf proyecta un Profile de dominio a su vista pública.
func ViewOf(p *types.Profile) UserView {
	return UserView{
		UID:           p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Age:           p.Age,
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		PhotoURL:      p.PhotoURL,
		Providers:     p.Providers,
		EmailVerified: p.EmailVerified,
	}
}
