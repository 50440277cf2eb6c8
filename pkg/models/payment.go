package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID            int64           `json:"id"`
	AdmissionID   int64           `json:"admission_id"`
	PaymentType   string          `json:"payment_type"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	PaymentDate   time.Time       `json:"payment_date"`
	TransactionID string          `json:"transaction_id"`
}

type CreatePaymentRequest struct {
	AdmissionID   int64           `json:"admission_id"   validate:"required"`
	PaymentType   string          `json:"payment_type"   validate:"required,max=50"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"         validate:"omitempty,oneof=pending completed failed"`
	TransactionID string          `json:"transaction_id" validate:"required,max=100"`
}

type UpdatePaymentRequest struct {
	PaymentType *string          `json:"payment_type" validate:"omitempty,min=1,max=50"`
	Amount      *decimal.Decimal `json:"amount"`
}

type SetPaymentStatusRequest struct {
	Status PaymentStatus `json:"status" validate:"required,oneof=pending completed failed"`
}

// ProcessPaymentRequest is the applicant-facing payment form. The admission is
// identified by its admission code rather than its id.
type ProcessPaymentRequest struct {
	AdmissionCode string          `json:"admission_code" validate:"required"`
	PaymentType   string          `json:"payment_type"   validate:"required,max=50"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id" validate:"required,max=100"`
}

type PaymentStore interface {
	Create(ctx context.Context, payment *CreatePaymentRequest) (*Payment, error)
	Get(ctx context.Context, id int64) (*Payment, error)
	Update(ctx context.Context, id int64, payment *UpdatePaymentRequest) (*Payment, error)
	SetStatus(ctx context.Context, id int64, status PaymentStatus) (*Payment, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context, cursor int64, limit int) ([]*Payment, error)
	ListByAdmission(ctx context.Context, admissionID int64) ([]*Payment, error)
}

const (
	amountMaxDigits = 10
	amountPlaces    = 2
)

func (r *CreatePaymentRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	return ValidateMoney("amount", r.Amount, amountMaxDigits, amountPlaces, false)
}

func (r *UpdatePaymentRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if r.Amount == nil {
		return nil
	}
	return ValidateMoney("amount", *r.Amount, amountMaxDigits, amountPlaces, false)
}

// Validate accepts admission codes in any form uuid.Parse does, including upper case.
func (r *ProcessPaymentRequest) Validate() error {
	ve := &ValidationError{}
	if err := ValidateStruct(r); err != nil && !errors.As(err, &ve) {
		return err
	}
	if r.AdmissionCode != "" {
		if _, err := uuid.Parse(r.AdmissionCode); err != nil {
			ve.Add("admission_code", "Must be a valid UUID.")
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return ValidateMoney("amount", r.Amount, amountMaxDigits, amountPlaces, false)
}
