package helpers

import (
	"net/http"
	"strings"
)

// trustProxy controla si X-Forwarded-For se considera confiable. Sin un
// proxy adelante el header lo escribe el cliente, y rotarlo evadiría el
// rate limiter de login.
var trustProxy bool

// SetTrustProxy habilita el uso de X-Forwarded-For. Llamar una vez durante
// el wiring, solo en despliegues detrás de un proxy que lo sobrescriba.
func SetTrustProxy(v bool) { trustProxy = v }

// ClientIP extrae la IP del cliente. Solo honra X-Forwarded-For cuando el
// despliegue declaró un proxy confiable; si no, vale RemoteAddr.
func ClientIP(r *http.Request) string {
	if trustProxy {
		if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
			parts := strings.Split(xf, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	return r.RemoteAddr
}

// MaskEmail enmascara un email para logs (2 chars + @dominio).
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 2 {
		return email[:2] + "***"
	}
	return email[:2] + "***" + email[at:]
}
