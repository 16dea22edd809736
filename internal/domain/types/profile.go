// Package types contiene los tipos de dominio compartidos entre services y store.
package types

import "time"

// Provider tags soportados. El orden de inserción en Profile.Providers no es
// significativo y nunca hay duplicados.
const (
	ProviderManual   = "manual"
	ProviderGoogle   = "google"
	ProviderGitHub   = "github"
	ProviderFacebook = "facebook"
)

// KnownProvider indica si el tag corresponde a un provider soportado.
func KnownProvider(tag string) bool {
	switch tag {
	case ProviderManual, ProviderGoogle, ProviderGitHub, ProviderFacebook:
		return true
	}
	return false
}

// Profile es el documento de perfil canónico, uno por identidad (subject).
// El ID lo asigna el Identity Oracle al crear la cuenta y nunca cambia.
type Profile struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	Email         string     `json:"email"`
	Age           *int       `json:"age,omitempty"`
	Providers     []string   `json:"providers"`
	DisplayName   string     `json:"displayName,omitempty"`
	PhotoURL      string     `json:"photoURL,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	LastLogin     time.Time  `json:"lastLogin,omitempty"`
}

// Touch renueva el timestamp de modificación.
func (p *Profile) Touch() { p.UpdatedAt = time.Now().UTC() }

// HasProvider indica si el perfil ya tiene el provider dado.
func (p *Profile) HasProvider(tag string) bool {
	for _, t := range p.Providers {
		if t == tag {
			return true
		}
	}
	return false
}

// AddProvider agrega el provider al set (unión idempotente).
// Providers solo crece, nunca se reduce via reconciliación.
func (p *Profile) AddProvider(tag string) {
	if tag == "" || p.HasProvider(tag) {
		return
	}
	p.Providers = append(p.Providers, tag)
}
