// Package auth contiene DTOs para endpoints de autenticación.
package auth

// RegisterRequest representa la solicitud de registro manual.
type RegisterRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Age       *int   `json:"age,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// RegisterResponse representa la respuesta exitosa de registro.
// El registro NO entrega token: el cliente debe hacer login aparte.
type RegisterResponse struct {
	Success bool     `json:"success"`
	User    UserView `json:"user"`
}
