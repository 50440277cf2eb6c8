package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.DocumentStore = &DocumentStore{}

type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Create(
	_ context.Context,
	document *models.CreateDocumentRequest,
) (*models.Document, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.checkAdmission(document.AdmissionID); err != nil {
		return nil, err
	}

	d := &models.Document{
		ID:           s.db.id("document"),
		AdmissionID:  document.AdmissionID,
		DocumentType: document.DocumentType,
		File:         document.File,
		FileName:     document.FileName,
		ContentType:  document.ContentType,
		UploadedAt:   time.Now().UTC(),
	}
	s.db.documents[d.ID] = d
	return clone(d), nil
}

func (s *DocumentStore) Get(_ context.Context, id int64) (*models.Document, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	d, ok := s.db.documents[id]
	if !ok {
		return nil, documentNotFound(id)
	}
	return clone(d), nil
}

func (s *DocumentStore) Update(
	_ context.Context,
	id int64,
	document *models.UpdateDocumentRequest,
) (*models.Document, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	d, ok := s.db.documents[id]
	if !ok {
		return nil, documentNotFound(id)
	}
	if document.DocumentType != nil {
		d.DocumentType = *document.DocumentType
	}
	if document.Verified != nil {
		d.Verified = *document.Verified
	}
	return clone(d), nil
}

func (s *DocumentStore) SetVerified(
	ctx context.Context,
	id int64,
	verified bool,
) (*models.Document, error) {
	return s.Update(ctx, id, &models.UpdateDocumentRequest{Verified: &verified})
}

func (s *DocumentStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.documents[id]; !ok {
		return documentNotFound(id)
	}
	delete(s.db.documents, id)
	return nil
}

func (s *DocumentStore) ListAll(
	_ context.Context,
	cursor int64,
	limit int,
) ([]*models.Document, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return page(s.db.documents, cursor, limit), nil
}

func (s *DocumentStore) ListByAdmission(
	_ context.Context,
	admissionID int64,
) ([]*models.Document, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return filter(s.db.documents, func(d *models.Document) bool {
		return d.AdmissionID == admissionID
	}), nil
}

func documentNotFound(id int64) error {
	return models.NewNotFoundError(fmt.Sprintf("document %d", id))
}
