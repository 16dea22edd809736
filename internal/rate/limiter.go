// Package rate implementa el rate limiting de los endpoints emisores de
// credenciales (login). El estado por defecto es local al proceso (sliding
// window en memoria); para despliegues multi-instancia existe un adapter
// Redis con contadores compartidos.
package rate

import (
	"context"
	"time"
)

// Result contiene el resultado de una consulta al limiter.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter define la interfaz mínima para un rate limiter.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
