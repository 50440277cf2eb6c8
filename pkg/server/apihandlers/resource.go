package apihandlers

import (
	"context"
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// recordStore is the CRUD surface shared by the admission record stores.
type recordStore[T, C, U any] interface {
	Create(ctx context.Context, create *C) (*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Update(ctx context.Context, id int64, update *U) (*T, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context, cursor int64, limit int) ([]*T, error)
}

// Page is a cursor-paginated list. NextCursor is nil on the last page.
type Page[T any] struct {
	Results    []*T   `json:"results"`
	NextCursor *int64 `json:"next_cursor"`
}

// CRUD holds the five standard handlers for one resource.
type CRUD struct {
	List   http.HandlerFunc
	Create http.HandlerFunc
	Get    http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

type resource[T, C, U any] struct {
	store recordStore[T, C, U]
	id    func(*T) int64
	// byAdmission serves ?admission_id= on the list endpoint when set
	byAdmission func(ctx context.Context, admissionID int64) ([]*T, error)
}

func (res *resource[T, C, U]) handlers() CRUD {
	return CRUD{
		List:   res.list,
		Create: res.create,
		Get:    res.get,
		Update: res.update,
		Delete: res.delete,
	}
}

func (res *resource[T, C, U]) list(w http.ResponseWriter, r *http.Request) {
	if res.byAdmission != nil && r.URL.Query().Has("admission_id") {
		admissionID, err := handlertools.IntFromQuery[int64](r, "admission_id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		rows, err := res.byAdmission(r.Context(), admissionID)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []*T{}
		}
		encode(w, http.StatusOK, &Page[T]{Results: rows})
		return
	}

	cursor, limit, err := pageParams(r)
	if err != nil {
		handlertools.RenderError(w, err, http.StatusBadRequest)
		return
	}
	rows, err := res.store.ListAll(r.Context(), cursor, limit)
	if err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}

	page := &Page[T]{Results: rows}
	if len(rows) == limit {
		next := res.id(rows[len(rows)-1])
		page.NextCursor = &next
	}
	encode(w, http.StatusOK, page)
}

func (res *resource[T, C, U]) create(w http.ResponseWriter, r *http.Request) {
	body := new(C)
	if err := handlertools.DecodeJSON(r, body); err != nil {
		handlertools.RenderError(w, err, http.StatusBadRequest)
		return
	}

	created, err := res.store.Create(r.Context(), body)
	if err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}
	encode(w, http.StatusCreated, created)
}

func (res *resource[T, C, U]) get(w http.ResponseWriter, r *http.Request) {
	id, err := handlertools.Int64FromURL(r, "id")
	if err != nil {
		handlertools.RenderError(w, err, http.StatusBadRequest)
		return
	}

	row, err := res.store.Get(r.Context(), id)
	if err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}
	encode(w, http.StatusOK, row)
}

func (res *resource[T, C, U]) update(w http.ResponseWriter, r *http.Request) {
	id, err := handlertools.Int64FromURL(r, "id")
	if err != nil {
		handlertools.RenderError(w, err, http.StatusBadRequest)
		return
	}
	body := new(U)
	if err := handlertools.DecodeJSON(r, body); err != nil {
		handlertools.RenderError(w, err, http.StatusBadRequest)
		return
	}

	updated, err := res.store.Update(r.Context(), id, body)
	if err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}
	encode(w, http.StatusOK, updated)
}

func (res *resource[T, C, U]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlertools.Int64FromURL(r, "id")
	if err != nil {
		handlertools.RenderError(w, err, http.StatusBadRequest)
		return
	}

	if err := res.store.Delete(r.Context(), id); err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pageParams reads ?cursor= and ?limit=, clamping limit to maxPageSize.
func pageParams(r *http.Request) (int64, int, error) {
	cursor, err := handlertools.IntFromQuery[int64](r, "cursor")
	if err != nil {
		return 0, 0, err
	}
	limit, err := handlertools.IntFromQuery[int](r, "limit")
	if err != nil {
		return 0, 0, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return cursor, limit, nil
}

func encode(w http.ResponseWriter, status int, data interface{}) {
	if err := handlertools.EncodeJSON(w, status, data); err != nil {
		log.Errorf("failed to encode response: %s", err)
	}
}
