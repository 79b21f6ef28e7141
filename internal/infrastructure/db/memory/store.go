// Package memory provides the in-process repositories used by the service.
// Each Store owns its collection behind a single RWMutex; nothing it returns
// aliases internal state.
package memory

import (
	"strings"
	"sync"
	"time"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 100
)

// UniqueKey declares a field whose value must be unique across the store.
type UniqueKey[T any] struct {
	Field string
	Value func(T) string
	Err   error
}

// Schema describes how a Store handles one entity type.
type Schema[T any] struct {
	SetID func(*T, int64)
	// Stamp sets created_at (created=true) or updated_at on the entity.
	Stamp func(e *T, now time.Time, created bool)
	// Clone returns a deep copy. Defaults to a shallow value copy.
	Clone func(T) T
	// Searchable returns the fields matched by Search.
	Searchable func(T) []string
	Unique     []UniqueKey[T]
	NotFound   error
}

// Options tunes pagination and the clock.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	Now          func() time.Time
}

// Store is a concurrency-safe, insertion-ordered collection keyed by an
// auto-incrementing id. Ids are never reused.
type Store[T any] struct {
	mu      sync.RWMutex
	schema  Schema[T]
	opts    Options
	lastID  int64
	order   []int64
	items   map[int64]T
	indexes map[string]map[string]int64
}

// NewStore builds an empty Store for the given schema.
func NewStore[T any](schema Schema[T], opts Options) *Store[T] {
	if schema.Clone == nil {
		schema.Clone = func(v T) T { return v }
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxPageLimit
	}
	if opts.DefaultLimit <= 0 || opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = min(DefaultPageLimit, opts.MaxLimit)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	s := &Store[T]{
		schema:  schema,
		opts:    opts,
		items:   make(map[int64]T),
		indexes: make(map[string]map[string]int64, len(schema.Unique)),
	}
	for _, u := range schema.Unique {
		s.indexes[u.Field] = make(map[string]int64)
	}
	return s
}

// Create validates unique keys, assigns the next id, stamps created_at and
// stores a copy of entity.
func (s *Store[T]) Create(entity T) (T, error) {
	var zero T
	e := s.schema.Clone(entity)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(e, 0); err != nil {
		return zero, err
	}

	s.lastID++
	s.schema.SetID(&e, s.lastID)
	if s.schema.Stamp != nil {
		s.schema.Stamp(&e, s.opts.Now(), true)
	}

	s.items[s.lastID] = e
	s.order = append(s.order, s.lastID)
	s.index(e, s.lastID)

	return s.schema.Clone(e), nil
}

// Get returns the entity with the given id.
func (s *Store[T]) Get(id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok {
		var zero T
		return zero, s.schema.NotFound
	}
	return s.schema.Clone(e), nil
}

// FindUnique looks an entity up by one of its unique keys.
func (s *Store[T]) FindUnique(field, value string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	idx, ok := s.indexes[field]
	if !ok {
		return zero, s.schema.NotFound
	}
	id, ok := idx[value]
	if !ok {
		return zero, s.schema.NotFound
	}
	return s.schema.Clone(s.items[id]), nil
}

// List filters by pred (nil matches everything), then applies skip/limit
// over the filtered result in insertion order.
func (s *Store[T]) List(pred func(T) bool, skip, limit int) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.page(pred, skip, limit)
}

// Count returns how many entities satisfy pred.
func (s *Store[T]) Count(pred func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pred == nil {
		return len(s.order)
	}
	n := 0
	for _, id := range s.order {
		if pred(s.items[id]) {
			n++
		}
	}
	return n
}

// Search matches query case-insensitively as a substring of any searchable
// field, combined with pred, with List pagination semantics.
func (s *Store[T]) Search(query string, pred func(T) bool, skip, limit int) []T {
	q := strings.ToLower(query)
	match := func(e T) bool {
		if pred != nil && !pred(e) {
			return false
		}
		if s.schema.Searchable == nil {
			return false
		}
		for _, f := range s.schema.Searchable(e) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.page(match, skip, limit)
}

// Update applies mutate to a copy of the stored entity and commits it only
// if mutate succeeds and unique keys still hold. The id cannot change.
func (s *Store[T]) Update(id int64, mutate func(*T) error) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return zero, s.schema.NotFound
	}

	next := s.schema.Clone(current)
	if err := mutate(&next); err != nil {
		return zero, err
	}
	s.schema.SetID(&next, id)

	if err := s.checkUnique(next, id); err != nil {
		return zero, err
	}
	if s.schema.Stamp != nil {
		s.schema.Stamp(&next, s.opts.Now(), false)
	}

	s.unindex(current)
	s.items[id] = next
	s.index(next, id)

	return s.schema.Clone(next), nil
}

// Delete removes the entity and reports whether it existed.
func (s *Store[T]) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok {
		return false
	}
	s.unindex(e)
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// ClampLimit normalises a requested page size against the store options.
func (s *Store[T]) ClampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

// page must be called with at least a read lock held.
func (s *Store[T]) page(pred func(T) bool, skip, limit int) []T {
	limit = s.ClampLimit(limit)
	if skip < 0 {
		skip = 0
	}

	out := make([]T, 0, min(limit, len(s.order)))
	matched := 0
	for _, id := range s.order {
		e := s.items[id]
		if pred != nil && !pred(e) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		out = append(out, s.schema.Clone(e))
		if len(out) == limit {
			break
		}
	}
	return out
}

// checkUnique must be called with the write lock held. self is the id of
// the entity being updated, or 0 on create.
func (s *Store[T]) checkUnique(e T, self int64) error {
	for _, u := range s.schema.Unique {
		v := u.Value(e)
		if v == "" {
			continue
		}
		if owner, taken := s.indexes[u.Field][v]; taken && owner != self {
			return u.Err
		}
	}
	return nil
}

func (s *Store[T]) index(e T, id int64) {
	for _, u := range s.schema.Unique {
		if v := u.Value(e); v != "" {
			s.indexes[u.Field][v] = id
		}
	}
}

func (s *Store[T]) unindex(e T) {
	for _, u := range s.schema.Unique {
		if v := u.Value(e); v != "" {
			delete(s.indexes[u.Field], v)
		}
	}
}
