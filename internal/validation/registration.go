// Package validation contiene las reglas de validación previas a la
// reconciliación (solo registro manual). Cualquier violación corta el flujo
// antes de tocar el Identity Oracle.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// emailRe: local@dominio, sin espacios embebidos.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Symbols es el set fijo de puntuación aceptado para la regla de símbolo
// del password.
const Symbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

const (
	MinPasswordLength = 8
	MinAge            = 13
)

// Email valida el formato de la dirección. Devuelve el mensaje de la regla
// violada o "" si es válida.
func Email(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "email is required"
	}
	if !emailRe.MatchString(email) {
		return "email format is invalid"
	}
	return ""
}

// Password valida la política: largo mínimo, minúscula, mayúscula, dígito y
// un símbolo del set fijo. Devuelve los mensajes de todas las reglas violadas.
func Password(password string) []string {
	var reasons []string
	if len([]rune(password)) < MinPasswordLength {
		reasons = append(reasons, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}
	if !hasLower {
		reasons = append(reasons, "password must contain a lowercase letter")
	}
	if !hasUpper {
		reasons = append(reasons, "password must contain an uppercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "password must contain a digit")
	}
	if !hasSymbol {
		reasons = append(reasons, "password must contain a symbol")
	}
	return reasons
}

// Age valida la edad mínima cuando está presente.
func Age(age *int) string {
	if age == nil {
		return ""
	}
	if *age < MinAge {
		return fmt.Sprintf("age must be at least %d", MinAge)
	}
	return ""
}

// NormalizeEmail baja a minúsculas y recorta espacios. Es la forma canónica
// usada como clave de cuenta y de serialización de la reconciliación.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
