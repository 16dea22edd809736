// Package memory implementa el document store en memoria sobre go-cache.
// Pensado para desarrollo y tests; nada se persiste entre restarts.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/meetpoint/internal/store"
)

// Store implementa store.Store con documentos JSON en un go-cache sin expiración.
type Store struct {
	c *gocache.Cache
}

// New crea un document store en memoria vacío.
func New() *Store {
	return &Store{c: gocache.New(gocache.NoExpiration, 0)}
}

func key(collection, id string) string { return collection + "/" + id }

func (s *Store) Get(ctx context.Context, collection, id string, v any) error {
	raw, ok := s.c.Get(key(collection, id))
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal(raw.([]byte), v)
}

func (s *Store) Put(ctx context.Context, collection, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.c.Set(key(collection, id), raw, gocache.NoExpiration)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	k := key(collection, id)
	if _, ok := s.c.Get(k); !ok {
		return store.ErrNotFound
	}
	s.c.Delete(k)
	return nil
}

func (s *Store) List(ctx context.Context, collection string, fn func(id string, raw []byte) error) error {
	prefix := collection + "/"

	// Orden estable por id, como el adapter pg.
	var ids []string
	items := s.c.Items()
	for k := range items {
		if strings.HasPrefix(k, prefix) {
			ids = append(ids, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		item, ok := items[prefix+id]
		if !ok {
			continue
		}
		if err := fn(id, item.Object.([]byte)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error {
	s.c.Flush()
	return nil
}
