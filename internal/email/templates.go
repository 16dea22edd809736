package email

import "fmt"

// VerificationBodies arma el asunto y los cuerpos del correo de verificación.
func VerificationBodies(firstName string) (subject, html, text string) {
	name := firstName
	if name == "" {
		name = "there"
	}
	subject = "Verify your Meetpoint email"
	text = fmt.Sprintf("Hi %s,\n\nPlease verify your email address to finish setting up your Meetpoint account.\n", name)
	html = fmt.Sprintf("<p>Hi %s,</p><p>Please verify your email address to finish setting up your Meetpoint account.</p>", name)
	return subject, html, text
}
