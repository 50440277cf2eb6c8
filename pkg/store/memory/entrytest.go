package memory

import (
	"context"
	"fmt"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.EntryTestStore = &EntryTestStore{}

type EntryTestStore struct {
	db *DB
}

func NewEntryTestStore(db *DB) *EntryTestStore {
	return &EntryTestStore{db: db}
}

func (s *EntryTestStore) Create(
	_ context.Context,
	entryTest *models.CreateEntryTestRequest,
) (*models.EntryTest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.checkAdmission(entryTest.AdmissionID); err != nil {
		return nil, err
	}
	for _, et := range s.db.entryTests {
		if et.AdmissionID == entryTest.AdmissionID {
			return nil, models.NewValidationError(
				"admission_id",
				"entry test with this admission already exists.",
			)
		}
	}

	status := entryTest.Status
	if status == "" {
		status = models.DefaultEntryTestStatus
	}

	et := &models.EntryTest{
		ID:          s.db.id("entry_test"),
		AdmissionID: entryTest.AdmissionID,
		TestDate:    entryTest.TestDate,
		Venue:       entryTest.Venue,
		Status:      status,
		Score:       entryTest.Score,
	}
	s.db.entryTests[et.ID] = et
	return clone(et), nil
}

func (s *EntryTestStore) Get(_ context.Context, id int64) (*models.EntryTest, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	et, ok := s.db.entryTests[id]
	if !ok {
		return nil, entryTestNotFound(id)
	}
	return clone(et), nil
}

func (s *EntryTestStore) GetByAdmission(
	_ context.Context,
	admissionID int64,
) (*models.EntryTest, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, et := range s.db.entryTests {
		if et.AdmissionID == admissionID {
			return clone(et), nil
		}
	}
	return nil, models.NewNotFoundError(fmt.Sprintf("entry test for admission %d", admissionID))
}

func (s *EntryTestStore) Update(
	_ context.Context,
	id int64,
	entryTest *models.UpdateEntryTestRequest,
) (*models.EntryTest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	et, ok := s.db.entryTests[id]
	if !ok {
		return nil, entryTestNotFound(id)
	}
	if entryTest.TestDate != nil {
		et.TestDate = entryTest.TestDate
	}
	if entryTest.Venue != nil {
		et.Venue = entryTest.Venue
	}
	if entryTest.Status != nil {
		et.Status = *entryTest.Status
	}
	if entryTest.Score != nil {
		et.Score = entryTest.Score
	}
	return clone(et), nil
}

func (s *EntryTestStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.entryTests[id]; !ok {
		return entryTestNotFound(id)
	}
	delete(s.db.entryTests, id)
	return nil
}

func (s *EntryTestStore) ListAll(
	_ context.Context,
	cursor int64,
	limit int,
) ([]*models.EntryTest, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return page(s.db.entryTests, cursor, limit), nil
}

func (s *EntryTestStore) CheckAccess(_ context.Context, id int64) (*models.EntryTestAccess, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	et, ok := s.db.entryTests[id]
	if !ok {
		return nil, entryTestNotFound(id)
	}
	a, ok := s.db.admissions[et.AdmissionID]
	if !ok {
		return nil, admissionNotFound(et.AdmissionID)
	}
	return &models.EntryTestAccess{
		EntryTestUnlocked: a.EntryTestUnlocked,
		TestStatus:        et.Status,
	}, nil
}

func (s *EntryTestStore) ToggleAccess(_ context.Context, id int64) (*models.EntryTestAccess, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	et, ok := s.db.entryTests[id]
	if !ok {
		return nil, entryTestNotFound(id)
	}
	unlocked, err := s.db.toggleEntryTest(et.AdmissionID)
	if err != nil {
		return nil, err
	}
	return &models.EntryTestAccess{
		EntryTestUnlocked: unlocked,
		TestStatus:        et.Status,
	}, nil
}

func entryTestNotFound(id int64) error {
	return models.NewNotFoundError(fmt.Sprintf("entry test %d", id))
}
