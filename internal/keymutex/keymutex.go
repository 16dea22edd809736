// Package keymutex implementa una sección crítica por clave. Se usa para
// serializar la reconciliación de identidad por email normalizado y así
// eliminar la carrera lookup→create→merge→persist entre logins concurrentes
// del mismo email.
package keymutex

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// KeyMutex mantiene un semáforo de peso 1 por clave. Las entradas se
// refcuentan y se liberan cuando nadie las espera.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// New crea un KeyMutex vacío.
func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*entry)}
}

// Lock adquiere la sección crítica de la clave. Respeta la cancelación del
// contexto mientras espera. El caller debe llamar Unlock(key) exactamente
// una vez tras un Lock exitoso.
func (k *KeyMutex) Lock(ctx context.Context, key string) error {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		k.release(key, e)
		return err
	}
	return nil
}

// Unlock libera la sección crítica de la clave.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		return
	}
	e.sem.Release(1)
	k.release(key, e)
}

func (k *KeyMutex) release(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs <= 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}
