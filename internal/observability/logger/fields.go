package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar — HTTP

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path crea un campo para el path del request.
func Path(v string) zap.Field { return zap.String("path", v) }

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field { return zap.Int("status", v) }

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ClientIP crea un campo para la IP (normalizada) del cliente.
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// Campos estándar — negocio

// SubjectID crea un campo para el subject autenticado.
func SubjectID(v string) zap.Field { return zap.String("subject_id", v) }

// Provider crea un campo para el provider tag (manual/google/github/facebook).
func Provider(v string) zap.Field { return zap.String("provider", v) }

// MeetingID crea un campo para el ID de una reunión.
func MeetingID(v string) zap.Field { return zap.String("meeting_id", v) }

// EmailMasked crea un campo para un email enmascarado (nunca loguear el
// email completo en prod).
func EmailMasked(v string) zap.Field { return zap.String("email_masked", v) }

// Campos estándar — sistema

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field { return zap.String("component", v) }

// Op crea un campo para la operación actual.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

// Genéricos

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }

// String crea un campo string genérico.
func String(key, v string) zap.Field { return zap.String(key, v) }

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field { return zap.Int(key, v) }

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
