package memory

import (
	"context"
	"fmt"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.GuardianStore = &GuardianStore{}

type GuardianStore struct {
	db *DB
}

func NewGuardianStore(db *DB) *GuardianStore {
	return &GuardianStore{db: db}
}

func (s *GuardianStore) Create(
	_ context.Context,
	guardian *models.CreateGuardianRequest,
) (*models.Guardian, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.checkAdmission(guardian.AdmissionID); err != nil {
		return nil, err
	}

	g := &models.Guardian{
		ID:          s.db.id("guardian"),
		AdmissionID: guardian.AdmissionID,
		Name:        guardian.Name,
		Relation:    guardian.Relation,
		Phone:       guardian.Phone,
		Occupation:  guardian.Occupation,
		Income:      guardian.Income,
	}
	s.db.guardians[g.ID] = g
	return clone(g), nil
}

func (s *GuardianStore) Get(_ context.Context, id int64) (*models.Guardian, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	g, ok := s.db.guardians[id]
	if !ok {
		return nil, guardianNotFound(id)
	}
	return clone(g), nil
}

func (s *GuardianStore) Update(
	_ context.Context,
	id int64,
	guardian *models.UpdateGuardianRequest,
) (*models.Guardian, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	g, ok := s.db.guardians[id]
	if !ok {
		return nil, guardianNotFound(id)
	}
	if guardian.Name != nil {
		g.Name = *guardian.Name
	}
	if guardian.Relation != nil {
		g.Relation = *guardian.Relation
	}
	if guardian.Phone != nil {
		g.Phone = *guardian.Phone
	}
	if guardian.Occupation != nil {
		g.Occupation = *guardian.Occupation
	}
	if guardian.Income != nil {
		g.Income = *guardian.Income
	}
	return clone(g), nil
}

func (s *GuardianStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.guardians[id]; !ok {
		return guardianNotFound(id)
	}
	delete(s.db.guardians, id)
	return nil
}

func (s *GuardianStore) ListAll(
	_ context.Context,
	cursor int64,
	limit int,
) ([]*models.Guardian, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return page(s.db.guardians, cursor, limit), nil
}

func (s *GuardianStore) ListByAdmission(
	_ context.Context,
	admissionID int64,
) ([]*models.Guardian, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return filter(s.db.guardians, func(g *models.Guardian) bool {
		return g.AdmissionID == admissionID
	}), nil
}

func guardianNotFound(id int64) error {
	return models.NewNotFoundError(fmt.Sprintf("guardian %d", id))
}
