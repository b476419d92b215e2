// Package managerapi implements the external entity managers from
// spec.md §6: a chi-routed CRUD HTTP surface over Schema, Address,
// Delivery, Processor, Step, Workflow, OrchestratedFlow, and Assignment,
// with referential-integrity checks and breaking-change schema analysis
// gated by internal/appconfig feature switches.
package managerapi

import (
	"sort"
	"sync"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// record pairs a stored value with its insertion order, so paged listing
// is stable across repeated calls.
type record[T any] struct {
	seq   int64
	value T
}

// Store is a generic in-memory entity table keyed by entity.ID, with an
// optional secondary composite-key index for entities that enforce a
// uniqueness constraint beyond their ID (Address.ConnectionString,
// Processor's (version,name) pair).
type Store[T any] struct {
	mu    sync.RWMutex
	name  string
	byID  map[entity.ID]*record[T]
	byKey map[string]entity.ID
	keyOf func(T) string
	seq   int64
}

// NewStore creates an empty store. keyOf may be nil for entities with no
// composite-key uniqueness constraint beyond their ID.
func NewStore[T any](name string, keyOf func(T) string) *Store[T] {
	return &Store[T]{
		name:  name,
		byID:  make(map[entity.ID]*record[T]),
		byKey: make(map[string]entity.ID),
		keyOf: keyOf,
	}
}

func (s *Store[T]) Get(id entity.ID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		var zero T
		return zero, domainerrors.NotFound(s.name, id.String())
	}
	return rec.value, nil
}

func (s *Store[T]) GetByKey(key string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[key]
	if !ok {
		var zero T
		return zero, domainerrors.NotFound(s.name, key)
	}
	return s.byID[id].value, nil
}

func (s *Store[T]) Exists(id entity.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// Create inserts a new entity under id, rejecting a duplicate composite
// key if this store tracks one.
func (s *Store[T]) Create(id entity.ID, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; exists {
		return domainerrors.DuplicateKey(s.name, id.String())
	}
	var key string
	if s.keyOf != nil {
		key = s.keyOf(value)
		if existing, ok := s.byKey[key]; ok && existing != id {
			return domainerrors.DuplicateKey(s.name, key)
		}
	}
	s.seq++
	s.byID[id] = &record[T]{seq: s.seq, value: value}
	if s.keyOf != nil {
		s.byKey[key] = id
	}
	return nil
}

// Update replaces an existing entity's value, rejecting a composite-key
// collision with a different id.
func (s *Store[T]) Update(id entity.ID, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[id]
	if !ok {
		return domainerrors.NotFound(s.name, id.String())
	}
	var newKey string
	if s.keyOf != nil {
		newKey = s.keyOf(value)
		if owner, exists := s.byKey[newKey]; exists && owner != id {
			return domainerrors.DuplicateKey(s.name, newKey)
		}
		delete(s.byKey, s.keyOf(existing.value))
		s.byKey[newKey] = id
	}
	existing.value = value
	return nil
}

// Delete removes an entity. guard, if non-nil, is consulted first and its
// error (typically a ReferenceExists) is returned without mutating state.
func (s *Store[T]) Delete(id entity.ID, guard func(T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[id]
	if !ok {
		return domainerrors.NotFound(s.name, id.String())
	}
	if guard != nil {
		if err := guard(existing.value); err != nil {
			return err
		}
	}
	delete(s.byID, id)
	if s.keyOf != nil {
		delete(s.byKey, s.keyOf(existing.value))
	}
	return nil
}

// Page returns a stable, insertion-ordered slice of entities for the
// given 1-based page and pageSize, plus the total entity count.
func (s *Store[T]) Page(page, pageSize int) ([]T, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*record[T], 0, len(s.byID))
	for _, rec := range s.byID {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	total := len(recs)
	start := (page - 1) * pageSize
	if start >= total || start < 0 {
		return []T{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	out := make([]T, 0, end-start)
	for _, rec := range recs[start:end] {
		out = append(out, rec.value)
	}
	return out, total
}

// CountMatching reports how many stored entities satisfy pred. The
// referential-integrity guards in entities.go scan with Each instead.
func (s *Store[T]) CountMatching(pred func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, rec := range s.byID {
		if pred(rec.value) {
			count++
		}
	}
	return count
}

// Each calls visit for every stored value, in indeterminate order. Used
// by referential-integrity guards that need early-exit semantics without
// an intermediate allocation.
func (s *Store[T]) Each(visit func(T) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.byID {
		if !visit(rec.value) {
			return
		}
	}
}
