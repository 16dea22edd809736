package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la aplicación.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Error original (causa), útil para logs, no se expone al cliente
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is compara por código, de modo que errors.Is funcione contra los errores
// base de la taxonomía aunque la copia tenga otro mensaje o causa.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// FromError intenta convertir un error genérico en un AppError.
// Si no es un AppError, devuelve un error interno genérico conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUpstream.WithCause(err)
}

// WithMessage devuelve una COPIA del error con otro mensaje, conservando
// código y status. Usado para errores de validación con mensaje específico.
func (e *AppError) WithMessage(message string) *AppError {
	newErr := *e
	newErr.Message = message
	return &newErr
}

// WithDetail agrega detalles adicionales al error.
// Devuelve una COPIA del error para no mutar las variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa). Devuelve una COPIA del error.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// TAXONOMÍA DE ERRORES
// =================================================================================

var (
	// 401 — Request Gate. Las fallas de verificación de credenciales son
	// deliberadamente indistinguibles entre sí (expired/malformed/revoked).
	ErrMissingCredential = &AppError{
		Code:       "MISSING_CREDENTIAL",
		Message:    "authentication required",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrEmptyCredential = &AppError{
		Code:       "EMPTY_CREDENTIAL",
		Message:    "bearer token must not be empty",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrInvalidCredential = &AppError{
		Code:       "INVALID_CREDENTIAL",
		Message:    "invalid email or credentials",
		HTTPStatus: http.StatusUnauthorized,
	}

	// 429 — rate limiter de endpoints emisores de credenciales.
	ErrRateLimited = &AppError{
		Code:       "RATE_LIMITED",
		Message:    "too many attempts, please try again later",
		HTTPStatus: http.StatusTooManyRequests,
	}

	// 400 — validación y registro.
	ErrValidation = &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrDuplicateManualRegistration = &AppError{
		Code:       "DUPLICATE_REGISTRATION",
		Message:    "an account with this email already exists",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrWrongProvider = &AppError{
		Code:       "WRONG_PROVIDER",
		Message:    "this account uses a social sign-in; use your original sign-in method",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrNoValidFields = &AppError{
		Code:       "NO_VALID_FIELDS",
		Message:    "no valid fields to update",
		HTTPStatus: http.StatusBadRequest,
	}

	// 403 / 404 — control de acceso.
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "you do not have permission to access this resource",
		HTTPStatus: http.StatusForbidden,
	}
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "resource not found",
		HTTPStatus: http.StatusNotFound,
	}

	// 5xx — Identity Oracle / Profile Store inalcanzable o error interno.
	// En producción el detalle no se expone (ver WriteError).
	ErrUpstream = &AppError{
		Code:       "UPSTREAM_FAILURE",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
)

// Validation crea un ValidationError con el mensaje de la regla violada.
// El mensaje es parte del contrato estable de la API.
func Validation(message string) *AppError {
	return ErrValidation.WithMessage(message)
}
