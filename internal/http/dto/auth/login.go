package auth

// LoginRequest representa la solicitud de login por password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse representa la respuesta exitosa de login.
type LoginResponse struct {
	Success bool     `json:"success"`
	User    UserView `json:"user"`
	Token   string   `json:"token"`
}
