package models

import (
	"context"
	"time"
)

const DefaultEntryTestStatus = "scheduled"

// EntryTest is the one-to-one entry test record of an admission. Whether the applicant
// may see it is gated by Admission.EntryTestUnlocked.
type EntryTest struct {
	ID          int64      `json:"id"`
	AdmissionID int64      `json:"admission_id"`
	TestDate    *time.Time `json:"test_date"`
	Venue       *string    `json:"venue"`
	Status      string     `json:"status"`
	Score       *int       `json:"score"`
}

type CreateEntryTestRequest struct {
	AdmissionID int64      `json:"admission_id" validate:"required"`
	TestDate    *time.Time `json:"test_date"`
	Venue       *string    `json:"venue"        validate:"omitempty,max=200"`
	Status      string     `json:"status"       validate:"omitempty,max=20"`
	Score       *int       `json:"score"`
}

type UpdateEntryTestRequest struct {
	TestDate *time.Time `json:"test_date"`
	Venue    *string    `json:"venue"  validate:"omitempty,max=200"`
	Status   *string    `json:"status" validate:"omitempty,min=1,max=20"`
	Score    *int       `json:"score"`
}

type EntryTestAccess struct {
	EntryTestUnlocked bool   `json:"entry_test_unlocked"`
	TestStatus        string `json:"test_status"`
}

type EntryTestStore interface {
	// Create fails with a validation error if the admission already has an entry test.
	Create(ctx context.Context, entryTest *CreateEntryTestRequest) (*EntryTest, error)
	Get(ctx context.Context, id int64) (*EntryTest, error)
	GetByAdmission(ctx context.Context, admissionID int64) (*EntryTest, error)
	Update(ctx context.Context, id int64, entryTest *UpdateEntryTestRequest) (*EntryTest, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context, cursor int64, limit int) ([]*EntryTest, error)
	CheckAccess(ctx context.Context, id int64) (*EntryTestAccess, error)
	// ToggleAccess flips the owning admission's entry_test_unlocked flag.
	ToggleAccess(ctx context.Context, id int64) (*EntryTestAccess, error)
}
