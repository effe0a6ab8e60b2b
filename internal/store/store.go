package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

// ErrCorrupt is returned when a collection's stored bytes cannot be decoded.
var ErrCorrupt = errors.New("malformed collection")

// Backend is a durable medium holding whole collections as opaque bytes.
// Read returns nil data and no error for a collection that was never
// written. Write must replace the collection atomically: after a crash the
// medium holds either the previous or the new bytes.
type Backend interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, data []byte) error
	Close() error
}

// Store serializes access to the collections of a Backend. Each collection
// has its own lock; an Update holds it for the full load, mutate, save
// cycle so concurrent writers never lose each other's changes.
type Store struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func New(backend Backend) *Store {
	return &Store{backend: backend, locks: make(map[string]*sync.RWMutex)}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) lockFor(collection string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[collection] = l
	}
	return l
}

// Collection is a typed view over one named collection of a Store.
type Collection[T any] struct {
	store *Store
	name  string
}

func NewCollection[T any](s *Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

// All loads every record of the collection. A missing collection is empty.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := c.store.lockFor(c.name)
	l.RLock()
	defer l.RUnlock()
	return c.load(ctx)
}

// Update runs one read-modify-write cycle under the collection lock. fn
// receives the current records and returns the records to persist. When fn
// returns an error nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := c.store.lockFor(c.name)
	l.Lock()
	defer l.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	if next == nil {
		next = []T{}
	}
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.store.backend.Write(ctx, c.name, data); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.backend.Read(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrCorrupt, c.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
