// Package identity define el Identity Oracle: el colaborador externo que
// verifica credenciales y administra los registros canónicos de auth
// (email, existencia de password, external ids). El resto del sistema lo
// trata como opaco: dado un token devuelve un subject verificado o falla.
package identity

import (
	"context"
	"errors"
	"time"
)

// Account es el registro canónico de auth de un subject.
type Account struct {
	Subject       string            `json:"subject"`
	Email         string            `json:"email"`
	EmailVerified bool              `json:"emailVerified"`
	PasswordHash  string            `json:"passwordHash,omitempty"`
	ExternalIDs   map[string]string `json:"externalIds,omitempty"` // provider tag -> id externo
	CreatedAt     time.Time         `json:"createdAt"`
}

// HasPassword indica si la cuenta tiene credencial de password.
func (a *Account) HasPassword() bool { return a.PasswordHash != "" }

// Credential es la credencial de sesión opaca entregada al cliente.
// No se persiste en este sistema.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// CreateInput son los datos para crear una cuenta nueva.
// Password se almacena solo para el provider manual.
type CreateInput struct {
	Email         string
	Password      string // "" para providers OAuth
	Provider      string
	ExternalID    string // id del provider externo (flujos estilo GitHub)
	EmailVerified bool
}

var (
	// ErrAccountNotFound: la cuenta no existe. No es un error en el flujo de
	// reconciliación (dispara creación).
	ErrAccountNotFound = errors.New("identity: account not found")

	// ErrInvalidCredential cubre toda falla de verificación (expirado,
	// malformado, revocado, password incorrecto) sin distinguirla.
	ErrInvalidCredential = errors.New("identity: invalid credential")

	// ErrEmailTaken: ya existe una cuenta con ese email.
	ErrEmailTaken = errors.New("identity: email already registered")
)

// Oracle es la interfaz que el core necesita del servicio de identidad.
type Oracle interface {
	// LookupByEmail resuelve la cuenta por email normalizado.
	LookupByEmail(ctx context.Context, email string) (*Account, error)

	// LookupByExternalID resuelve la cuenta por (provider, id externo).
	LookupByExternalID(ctx context.Context, provider, externalID string) (*Account, error)

	// Create crea la cuenta. Falla con ErrEmailTaken si el email ya existe.
	Create(ctx context.Context, in CreateInput) (*Account, error)

	// VerifyPassword valida email+password. Toda falla es ErrInvalidCredential.
	VerifyPassword(ctx context.Context, email, password string) (*Account, error)

	// LinkExternalID asocia un id externo de provider a la cuenta.
	LinkExternalID(ctx context.Context, subject, provider, externalID string) error

	// SetPassword fija la credencial de password de una cuenta existente
	// (registro manual sobre una cuenta creada primero vía OAuth).
	SetPassword(ctx context.Context, subject, password string) error

	// UpdateEmail cambia el email de la cuenta y la marca no verificada.
	UpdateEmail(ctx context.Context, subject, newEmail string) error

	// Delete elimina el registro de auth (cascada desde el borrado de perfil).
	Delete(ctx context.Context, subject string) error

	// MintCredential emite una credencial de sesión fresca para el subject.
	MintCredential(ctx context.Context, subject string) (Credential, error)

	// VerifyCredential devuelve el subject del token o ErrInvalidCredential.
	VerifyCredential(ctx context.Context, token string) (string, error)
}
