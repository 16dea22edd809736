package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter: sliding window en memoria, local al proceso.
// Los timestamps por clave se mutan bajo el mutex; no hay coordinación
// entre claves. El estado se pierde en un restart (aceptado para un
// despliegue de proceso único).
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

// NewMemoryLimiter crea un limiter sliding-window en memoria.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		Max:    int64(max),
		Window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow registra un hit para la clave y decide si sigue dentro del límite.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	cutoff := now.Add(-l.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Podar hits fuera de la ventana
	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	res := Result{}
	if int64(len(kept)) >= l.Max {
		// Denegado: no se registra el hit. Retry después de que el hit más
		// viejo salga de la ventana. Con Max <= 0 no hay hits que envejezcan:
		// el retry es la ventana completa.
		l.hits[key] = kept
		res.CurrentHits = int64(len(kept))
		res.RetryAfter = l.Window
		if len(kept) > 0 {
			res.RetryAfter = kept[0].Add(l.Window).Sub(now)
		}
		res.WindowTTL = res.RetryAfter
		return res, nil
	}

	kept = append(kept, now)
	l.hits[key] = kept

	res.Allowed = true
	res.CurrentHits = int64(len(kept))
	res.Remaining = l.Max - res.CurrentHits
	res.WindowTTL = kept[0].Add(l.Window).Sub(now)
	return res, nil
}

// Sweep elimina claves sin hits vigentes. Pensado para invocarse
// periódicamente desde el wiring si el proceso es de vida larga.
func (l *MemoryLimiter) Sweep() {
	cutoff := l.now().Add(-l.Window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, ts := range l.hits {
		alive := false
		for _, t := range ts {
			if t.After(cutoff) {
				alive = true
				break
			}
		}
		if !alive {
			delete(l.hits, k)
		}
	}
}
