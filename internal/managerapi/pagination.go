package managerapi

import (
	"net/http"
	"strconv"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

const (
	minPageSize     = 1
	maxPageSize     = 100
	defaultPageSize = 20
)

// parsePaging implements spec.md §6's pagination contract: pageSize in
// [1,100], page >= 1, out-of-range values rejected with 400 rather than
// silently clamped.
func parsePaging(r *http.Request) (page, pageSize int, err error) {
	page = 1
	pageSize = defaultPageSize

	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, domainerrors.ValidationFailure("page must be an integer >= 1", map[string]interface{}{"page": raw})
		}
	}
	if raw := q.Get("pageSize"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < minPageSize || pageSize > maxPageSize {
			return 0, 0, domainerrors.ValidationFailure("pageSize must be an integer in [1,100]", map[string]interface{}{"pageSize": raw})
		}
	}
	return page, pageSize, nil
}

type pagedResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}
