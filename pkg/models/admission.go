package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AdmissionStatus string

const (
	AdmissionStatusPending   AdmissionStatus = "pending"
	AdmissionStatusReviewing AdmissionStatus = "reviewing"
	AdmissionStatusAccepted  AdmissionStatus = "accepted"
	AdmissionStatusRejected  AdmissionStatus = "rejected"
)

// Admission is a single applicant's application record. It owns the applicant's
// documents, guardians, payments and entry test.
type Admission struct {
	ID                int64           `json:"id"`
	AdmissionCode     uuid.UUID       `json:"admission_code"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Program           string          `json:"program"`
	Status            AdmissionStatus `json:"status"`
	EntryTestUnlocked bool            `json:"entry_test_unlocked"`
}

func (a *Admission) FullName() string {
	return a.FirstName + " " + a.LastName
}

// AdmissionDetails is an admission with everything it owns.
type AdmissionDetails struct {
	*Admission
	Guardians []*Guardian `json:"guardians"`
	Documents []*Document `json:"documents"`
	Payments  []*Payment  `json:"payments"`
	EntryTest *EntryTest  `json:"entry_test"`
}

type CreateAdmissionRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	Phone     string `json:"phone"      validate:"required,max=20"`
	Program   string `json:"program"    validate:"required,max=100"`
}

type UpdateAdmissionRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone"      validate:"omitempty,min=1,max=20"`
	Program   *string `json:"program"    validate:"omitempty,min=1,max=100"`
}

type SetAdmissionStatusRequest struct {
	Status AdmissionStatus `json:"status" validate:"required,oneof=pending reviewing accepted rejected"`
}

type AdmissionStore interface {
	Create(ctx context.Context, admission *CreateAdmissionRequest) (*Admission, error)
	Get(ctx context.Context, id int64) (*Admission, error)
	GetByCode(ctx context.Context, code uuid.UUID) (*Admission, error)
	GetDetails(ctx context.Context, id int64) (*AdmissionDetails, error)
	Update(ctx context.Context, id int64, admission *UpdateAdmissionRequest) (*Admission, error)
	SetStatus(ctx context.Context, id int64, status AdmissionStatus) (*Admission, error)
	// ToggleEntryTest inverts entry_test_unlocked in a single store operation and
	// returns the new value.
	ToggleEntryTest(ctx context.Context, id int64) (bool, error)
	// Delete deletes an admission along with its documents, guardians, payments and entry test.
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context, cursor int64, limit int) ([]*Admission, error)
	CountAll(ctx context.Context) (int, error)
}
