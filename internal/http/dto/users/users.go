// Package users contiene DTOs para el CRUD de perfiles.
package users

import "github.com/dropDatabas3/meetpoint/internal/http/dto/auth"

// UpdateRequest representa el body de PUT /api/users/{uid}.
// Solo se aceptan los campos del allow-list; cualquier otro campo del
// JSON entrante se ignora en silencio.
type UpdateRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// GetResponse es la respuesta de GET /api/users/{uid}.
type GetResponse struct {
	Success bool          `json:"success"`
	User    auth.UserView `json:"user"`
}

// UpdateResponse es la respuesta de PUT /api/users/{uid}.
type UpdateResponse struct {
	Success bool          `json:"success"`
	User    auth.UserView `json:"user"`
}

// DeleteResponse es la respuesta de DELETE /api/users/{uid}.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
