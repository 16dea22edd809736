// Package providers define la tabla de descriptores de login.
//
// En lugar de un handler casi duplicado por provider, hay una sola rutina
// de reconciliación parametrizada por un Descriptor: tag, estrategia de
// lookup (email o id externo) y estrategia de extracción de nombre.
package providers

import (
	"strings"

	"github.com/dropDatabas3/meetpoint/internal/domain/types"
)

// UserProfile es el perfil normalizado que llega en un callback OAuth.
type UserProfile struct {
	ExternalID    string
	Email         string
	DisplayName   string
	GivenName     string
	FamilyName    string
	PhotoURL      string
	Age           *int
	EmailVerified *bool
}

// Descriptor describe cómo tratar un provider de login.
type Descriptor struct {
	Tag string

	// LookupByExternalID: los flujos estilo GitHub resuelven la cuenta por
	// id externo (el email puede no venir); el resto por email.
	LookupByExternalID bool

	// ExtractName obtiene (firstName, lastName) del perfil entrante.
	ExtractName func(p UserProfile) (first, last string)
}

// table es la tabla fija de providers soportados.
var table = map[string]Descriptor{
	types.ProviderManual: {
		Tag: types.ProviderManual,
		ExtractName: func(p UserProfile) (string, string) {
			return p.GivenName, p.FamilyName
		},
	},
	types.ProviderGoogle: {
		Tag: types.ProviderGoogle,
		ExtractName: func(p UserProfile) (string, string) {
			if p.GivenName != "" || p.FamilyName != "" {
				return p.GivenName, p.FamilyName
			}
			return SplitDisplayName(p.DisplayName)
		},
	},
	types.ProviderGitHub: {
		Tag:                types.ProviderGitHub,
		LookupByExternalID: true,
		ExtractName: func(p UserProfile) (string, string) {
			return SplitDisplayName(p.DisplayName)
		},
	},
	types.ProviderFacebook: {
		Tag: types.ProviderFacebook,
		ExtractName: func(p UserProfile) (string, string) {
			return SplitDisplayName(p.DisplayName)
		},
	},
}

// ByTag devuelve el descriptor del provider.
func ByTag(tag string) (Descriptor, bool) {
	d, ok := table[strings.ToLower(strings.TrimSpace(tag))]
	return d, ok
}

// OAuthTags son los providers aceptados en /api/oauth/{provider}.
func OAuthTags() []string {
	return []string{types.ProviderGoogle, types.ProviderGitHub, types.ProviderFacebook}
}

// SplitDisplayName parte un nombre combinado por espacios, best-effort:
// token 1 -> base del nombre; token 2 se le anexa; token 3 -> base del
// apellido; token 4 se le anexa. Tokens extra se descartan.
// La heurística es deliberadamente simple y está documentada como tal.
func SplitDisplayName(name string) (first, last string) {
	tokens := strings.Fields(name)
	switch {
	case len(tokens) >= 4:
		return tokens[0] + " " + tokens[1], tokens[2] + " " + tokens[3]
	case len(tokens) == 3:
		return tokens[0] + " " + tokens[1], tokens[2]
	case len(tokens) == 2:
		return tokens[0] + " " + tokens[1], ""
	case len(tokens) == 1:
		return tokens[0], ""
	}
	return "", ""
}
