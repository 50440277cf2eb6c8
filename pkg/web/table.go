package web

import (
	"fmt"
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

const DefaultPageSize = 20

func NewTable(id string, columns []Column) *Table {
	return &Table{
		TableID:  id,
		Columns:  columns,
		PageSize: DefaultPageSize,
	}
}

type Column struct {
	Name string
}

// Table is a cursor-paginated listing. Cursor is the last id of the previous page
// and NextCursor the last id shown, or 0 when there are no more rows.
type Table struct {
	TableID    string
	Columns    []Column
	Rows       interface{}
	TotalCount int
	RowCount   int
	Cursor     int64
	NextCursor int64
	PageSize   int
}

func (t *Table) ParseQueryParams(r *http.Request) {
	if cursor, err := handlertools.IntFromQuery[int64](r, "cursor"); err == nil && cursor > 0 {
		t.Cursor = cursor
	}
	if size, err := handlertools.IntFromQuery[int](r, "limit"); err == nil && size > 0 {
		t.PageSize = size
	}
	if t.PageSize == 0 {
		t.PageSize = DefaultPageSize
	}
}

// SetPage records the rows shown and whether another page follows.
func (t *Table) SetPage(rows interface{}, rowCount int, lastID int64) {
	t.Rows = rows
	t.RowCount = rowCount
	t.NextCursor = 0
	if rowCount == t.PageSize {
		t.NextCursor = lastID
	}
}

func (t *Table) GetNextPath(basePath string) string {
	return fmt.Sprintf("%s?cursor=%d&limit=%d", basePath, t.NextCursor, t.PageSize)
}
