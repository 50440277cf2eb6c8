package models

import (
	"context"
	"time"
)

// Document is a supporting file uploaded for an admission. File is the file store key.
type Document struct {
	ID           int64     `json:"id"`
	AdmissionID  int64     `json:"admission_id"`
	DocumentType string    `json:"document_type"`
	File         string    `json:"file"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	Verified     bool      `json:"verified"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type CreateDocumentRequest struct {
	AdmissionID  int64  `json:"admission_id"  validate:"required"`
	DocumentType string `json:"document_type" validate:"required,max=50"`
	File         string `json:"file"          validate:"required"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type"`
}

type UpdateDocumentRequest struct {
	DocumentType *string `json:"document_type" validate:"omitempty,min=1,max=50"`
	Verified     *bool   `json:"verified"`
}

type SetDocumentVerifiedRequest struct {
	Verified bool `json:"verified"`
}

type DocumentStore interface {
	Create(ctx context.Context, document *CreateDocumentRequest) (*Document, error)
	Get(ctx context.Context, id int64) (*Document, error)
	Update(ctx context.Context, id int64, document *UpdateDocumentRequest) (*Document, error)
	SetVerified(ctx context.Context, id int64, verified bool) (*Document, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context, cursor int64, limit int) ([]*Document, error)
	ListByAdmission(ctx context.Context, admissionID int64) ([]*Document, error)
}
