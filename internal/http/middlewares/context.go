package middlewares

import "context"

type ctxKey string

const (
	// ctxSubjectKey guarda el subject id verificado por el Request Gate.
	ctxSubjectKey ctxKey = "subject_id"
	// ctxRequestIDKey guarda el request ID.
	ctxRequestIDKey ctxKey = "request_id"
)

// WithSubjectID inyecta el subject id en el contexto.
// El subject viaja explícito en el contexto del request; nunca en un campo
// mutable compartido.
func WithSubjectID(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxSubjectKey, subject)
}

// GetSubjectID obtiene el subject autenticado del contexto.
// Retorna cadena vacía si el gate no se aplicó.
func GetSubjectID(ctx context.Context) string {
	if v := ctx.Value(ctxSubjectKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
