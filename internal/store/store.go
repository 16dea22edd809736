// Package store define el Profile Store: un document store opaco keyed por
// id, con operaciones get/put/delete/list. Los adapters concretos viven en
// los subpaquetes pg (producción) y memory (dev/tests).
package store

import (
	"context"
	"errors"
)

// Colecciones usadas por el sistema.
const (
	ColProfiles = "profiles"
	ColMeetings = "meetings"
	ColAccounts = "accounts"
	// ColAccountIndex guarda índices secundarios de cuentas:
	// "email/<email>" y "extid/<provider>/<id>" -> {subject}.
	ColAccountIndex = "account_index"
)

// ErrNotFound indica que el documento no existe en la colección.
var ErrNotFound = errors.New("store: document not found")

// Store es un document store genérico. Los documentos se serializan como
// JSON; v debe ser un puntero en Get.
type Store interface {
	Get(ctx context.Context, collection, id string, v any) error
	Put(ctx context.Context, collection, id string, v any) error
	Delete(ctx context.Context, collection, id string) error

	// List itera todos los documentos de la colección. fn recibe el id y el
	// JSON crudo; si retorna error, la iteración se corta y List lo propaga.
	List(ctx context.Context, collection string, fn func(id string, raw []byte) error) error

	Ping(ctx context.Context) error
	Close() error
}
