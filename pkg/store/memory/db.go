package memory

import (
	"sort"
	"sync"

	"github.com/admitdesk/admitdesk/internal"
	"github.com/admitdesk/admitdesk/pkg/models"
)

var log = internal.GetLogger()

// DB holds every table in process memory. All stores created from the same DB share
// one lock, so cascades and uniqueness checks see a consistent view.
// It is meant for local development and tests; nothing is persisted.
type DB struct {
	mu     sync.RWMutex
	nextID map[string]int64

	categories map[int64]*models.IntentCategory
	responses  map[int64]*models.Response
	admissions map[int64]*models.Admission
	documents  map[int64]*models.Document
	payments   map[int64]*models.Payment
	guardians  map[int64]*models.Guardian
	entryTests map[int64]*models.EntryTest
}

func NewDB() *DB {
	log.Debug("using in-memory store")
	return &DB{
		nextID:     make(map[string]int64),
		categories: make(map[int64]*models.IntentCategory),
		responses:  make(map[int64]*models.Response),
		admissions: make(map[int64]*models.Admission),
		documents:  make(map[int64]*models.Document),
		payments:   make(map[int64]*models.Payment),
		guardians:  make(map[int64]*models.Guardian),
		entryTests: make(map[int64]*models.EntryTest),
	}
}

// Close satisfies io.Closer so a DB can stand in for a real connection.
func (db *DB) Close() error {
	return nil
}

// id hands out bigserial-style ids per table. Callers hold the write lock.
func (db *DB) id(table string) int64 {
	db.nextID[table]++
	return db.nextID[table]
}

// checkAdmission reports a validation error on admission_id when the referenced
// admission is missing. Callers hold the lock.
func (db *DB) checkAdmission(admissionID int64) error {
	if _, ok := db.admissions[admissionID]; !ok {
		return models.NewInvalidReferenceError("admission_id", admissionID)
	}
	return nil
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func sortedIDs[T any](m map[int64]*T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// page returns copies of the rows with id > cursor in ascending id order, at most
// limit of them. A limit <= 0 returns every remaining row.
func page[T any](m map[int64]*T, cursor int64, limit int) []*T {
	rows := make([]*T, 0)
	for _, id := range sortedIDs(m) {
		if id <= cursor {
			continue
		}
		rows = append(rows, clone(m[id]))
		if limit > 0 && len(rows) == limit {
			break
		}
	}
	return rows
}

// filter returns copies of the rows matching keep in ascending id order.
func filter[T any](m map[int64]*T, keep func(*T) bool) []*T {
	rows := make([]*T, 0)
	for _, id := range sortedIDs(m) {
		if keep(m[id]) {
			rows = append(rows, clone(m[id]))
		}
	}
	return rows
}
