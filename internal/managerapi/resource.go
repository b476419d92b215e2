package managerapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// Resource wires a Store[T] to the spec.md §6 CRUD surface for one entity
// type: GET by id, GET paged, GET composite lookup, POST, PUT, DELETE, and
// GET {refField}/{id}/exists. Hooks let each entity type layer its own
// referential-integrity and breaking-change rules on top of the shared
// plumbing without duplicating the HTTP wiring.
type Resource[T any] struct {
	Name  string
	Store *Store[T]

	SetID func(T, entity.ID) T

	// RefFields maps an {refField} path segment to the IDs a stored value
	// references under that name, powering the generic "exists" endpoint.
	RefFields map[string]func(T) []entity.ID

	// CompositeLookup resolves GET /composite/{key}, nil if this entity has
	// no secondary composite key (Step, Workflow, OrchestratedFlow, Assignment).
	CompositeLookup func(key string) (T, error)

	// BeforeCreate/BeforeUpdate run after struct validation but before the
	// store mutation; they carry referential-integrity and breaking-change
	// checks that need the wider entity graph.
	BeforeCreate func(T) error
	BeforeUpdate func(existing, proposed T) error

	// DeleteGuard blocks a delete while other entities still refer to this
	// one; it is consulted under the store's lock via Store.Delete.
	DeleteGuard func(T) error

	Validate func(T) error
}

func (res *Resource[T]) Mount(r chi.Router) {
	r.Get("/{id}", res.handleGet)
	r.Get("/paged", res.handlePaged)
	r.Get("/composite/{key}", res.handleComposite)
	r.Post("/", res.handleCreate)
	r.Put("/{id}", res.handleUpdate)
	r.Delete("/{id}", res.handleDelete)
	r.Get("/{refField}/{refID}/exists", res.handleExists)
}

func (res *Resource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := entity.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainerrors.ValidationFailure("id must be a valid UUID", nil))
		return
	}
	value, err := res.Store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (res *Resource[T]) handleComposite(w http.ResponseWriter, r *http.Request) {
	if res.CompositeLookup == nil {
		writeError(w, domainerrors.NotFound(res.Name, "composite lookup not supported"))
		return
	}
	key := chi.URLParam(r, "key")
	value, err := res.CompositeLookup(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (res *Resource[T]) handlePaged(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := parsePaging(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, total := res.Store.Page(page, pageSize)
	writeJSON(w, http.StatusOK, pagedResponse[T]{Items: items, Page: page, PageSize: pageSize, TotalCount: total})
}

func (res *Resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var value T
	if err := decodeBody(r, &value); err != nil {
		writeError(w, err)
		return
	}
	id := entity.NewID()
	value = res.SetID(value, id)

	if res.Validate != nil {
		if err := res.Validate(value); err != nil {
			writeError(w, err)
			return
		}
	}
	if res.BeforeCreate != nil {
		if err := res.BeforeCreate(value); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := res.Store.Create(id, value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, value)
}

func (res *Resource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := entity.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainerrors.ValidationFailure("id must be a valid UUID", nil))
		return
	}
	existing, err := res.Store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	var proposed T
	if err := decodeBody(r, &proposed); err != nil {
		writeError(w, err)
		return
	}
	proposed = res.SetID(proposed, id)

	if res.Validate != nil {
		if err := res.Validate(proposed); err != nil {
			writeError(w, err)
			return
		}
	}
	if res.BeforeUpdate != nil {
		if err := res.BeforeUpdate(existing, proposed); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := res.Store.Update(id, proposed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposed)
}

func (res *Resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := entity.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainerrors.ValidationFailure("id must be a valid UUID", nil))
		return
	}
	if err := res.Store.Delete(id, res.DeleteGuard); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (res *Resource[T]) handleExists(w http.ResponseWriter, r *http.Request) {
	refField := chi.URLParam(r, "refField")
	extractor, ok := res.RefFields[refField]
	if !ok {
		writeError(w, domainerrors.ValidationFailure("unknown reference field", map[string]interface{}{"refField": refField}))
		return
	}
	refID, err := entity.ParseID(chi.URLParam(r, "refID"))
	if err != nil {
		writeError(w, domainerrors.ValidationFailure("id must be a valid UUID", nil))
		return
	}

	found := false
	res.Store.Each(func(value T) bool {
		for _, id := range extractor(value) {
			if id == refID {
				found = true
				return false
			}
		}
		return true
	})
	writeJSON(w, http.StatusOK, map[string]bool{"exists": found})
}
