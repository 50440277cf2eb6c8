package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.AdmissionStore = &AdmissionStore{}

type AdmissionStore struct {
	db *DB
}

func NewAdmissionStore(db *DB) *AdmissionStore {
	return &AdmissionStore{db: db}
}

func (s *AdmissionStore) Create(
	_ context.Context,
	admission *models.CreateAdmissionRequest,
) (*models.Admission, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.checkEmail(admission.Email, 0); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &models.Admission{
		ID:            s.db.id("admission"),
		AdmissionCode: uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		FirstName:     admission.FirstName,
		LastName:      admission.LastName,
		Email:         admission.Email,
		Phone:         admission.Phone,
		Program:       admission.Program,
		Status:        models.AdmissionStatusPending,
	}
	s.db.admissions[a.ID] = a
	return clone(a), nil
}

func (s *AdmissionStore) Get(_ context.Context, id int64) (*models.Admission, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.admissions[id]
	if !ok {
		return nil, admissionNotFound(id)
	}
	return clone(a), nil
}

func (s *AdmissionStore) GetByCode(_ context.Context, code uuid.UUID) (*models.Admission, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, a := range s.db.admissions {
		if a.AdmissionCode == code {
			return clone(a), nil
		}
	}
	return nil, models.NewNotFoundError("admission " + code.String())
}

func (s *AdmissionStore) GetDetails(_ context.Context, id int64) (*models.AdmissionDetails, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.admissions[id]
	if !ok {
		return nil, admissionNotFound(id)
	}

	details := &models.AdmissionDetails{
		Admission: clone(a),
		Guardians: filter(s.db.guardians, func(g *models.Guardian) bool { return g.AdmissionID == id }),
		Documents: filter(s.db.documents, func(d *models.Document) bool { return d.AdmissionID == id }),
		Payments:  filter(s.db.payments, func(p *models.Payment) bool { return p.AdmissionID == id }),
	}
	for _, et := range s.db.entryTests {
		if et.AdmissionID == id {
			details.EntryTest = clone(et)
			break
		}
	}
	return details, nil
}

func (s *AdmissionStore) Update(
	_ context.Context,
	id int64,
	admission *models.UpdateAdmissionRequest,
) (*models.Admission, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.admissions[id]
	if !ok {
		return nil, admissionNotFound(id)
	}
	if admission.Email != nil {
		if err := s.checkEmail(*admission.Email, id); err != nil {
			return nil, err
		}
	}

	if admission.FirstName != nil {
		a.FirstName = *admission.FirstName
	}
	if admission.LastName != nil {
		a.LastName = *admission.LastName
	}
	if admission.Email != nil {
		a.Email = *admission.Email
	}
	if admission.Phone != nil {
		a.Phone = *admission.Phone
	}
	if admission.Program != nil {
		a.Program = *admission.Program
	}
	a.UpdatedAt = time.Now().UTC()
	return clone(a), nil
}

func (s *AdmissionStore) SetStatus(
	_ context.Context,
	id int64,
	status models.AdmissionStatus,
) (*models.Admission, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.admissions[id]
	if !ok {
		return nil, admissionNotFound(id)
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	return clone(a), nil
}

func (s *AdmissionStore) ToggleEntryTest(_ context.Context, id int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	return s.db.toggleEntryTest(id)
}

func (s *AdmissionStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.admissions[id]; !ok {
		return admissionNotFound(id)
	}
	for k, v := range s.db.documents {
		if v.AdmissionID == id {
			delete(s.db.documents, k)
		}
	}
	for k, v := range s.db.payments {
		if v.AdmissionID == id {
			delete(s.db.payments, k)
		}
	}
	for k, v := range s.db.guardians {
		if v.AdmissionID == id {
			delete(s.db.guardians, k)
		}
	}
	for k, v := range s.db.entryTests {
		if v.AdmissionID == id {
			delete(s.db.entryTests, k)
		}
	}
	delete(s.db.admissions, id)
	return nil
}

func (s *AdmissionStore) ListAll(
	_ context.Context,
	cursor int64,
	limit int,
) ([]*models.Admission, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return page(s.db.admissions, cursor, limit), nil
}

func (s *AdmissionStore) CountAll(_ context.Context) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return len(s.db.admissions), nil
}

// checkEmail enforces email uniqueness, ignoring the admission being updated.
func (s *AdmissionStore) checkEmail(email string, exceptID int64) error {
	for _, a := range s.db.admissions {
		if a.ID != exceptID && a.Email == email {
			return models.NewValidationError("email", "admission with this email already exists.")
		}
	}
	return nil
}

// toggleEntryTest flips the flag under the caller's write lock.
func (db *DB) toggleEntryTest(admissionID int64) (bool, error) {
	a, ok := db.admissions[admissionID]
	if !ok {
		return false, admissionNotFound(admissionID)
	}
	a.EntryTestUnlocked = !a.EntryTestUnlocked
	a.UpdatedAt = time.Now().UTC()
	return a.EntryTestUnlocked, nil
}

func admissionNotFound(id int64) error {
	return models.NewNotFoundError(fmt.Sprintf("admission %d", id))
}
