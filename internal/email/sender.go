// Package email envía los correos de verificación del sistema: al registrar
// una cuenta manual y al cambiar el email de un perfil (que queda marcado
// como no verificado). El envío es best-effort: una falla se loguea y nunca
// corta el flujo de la operación que lo originó.
package email

// Sender define la interfaz mínima para enviar correos.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// Noop es un Sender que descarta todo. Default cuando no hay SMTP configurado.
type Noop struct{}

func (Noop) Send(to, subject, htmlBody, textBody string) error { return nil }

// SMTPConfig contiene la configuración para conectarse a un servidor SMTP.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	TLSMode   string // "auto" | "starttls" | "ssl" | "none"
}

// Enabled indica si hay configuración suficiente para enviar.
func (c SMTPConfig) Enabled() bool { return c.Host != "" && c.FromEmail != "" }
