package models

import (
	"context"

	"github.com/shopspring/decimal"
)

type Guardian struct {
	ID          int64           `json:"id"`
	AdmissionID int64           `json:"admission_id"`
	Name        string          `json:"name"`
	Relation    string          `json:"relation"`
	Phone       string          `json:"phone"`
	Occupation  string          `json:"occupation"`
	Income      decimal.Decimal `json:"income"`
}

type CreateGuardianRequest struct {
	AdmissionID int64           `json:"admission_id" validate:"required"`
	Name        string          `json:"name"         validate:"required,max=200"`
	Relation    string          `json:"relation"     validate:"required,max=50"`
	Phone       string          `json:"phone"        validate:"required,max=20"`
	Occupation  string          `json:"occupation"   validate:"required,max=100"`
	Income      decimal.Decimal `json:"income"`
}

type UpdateGuardianRequest struct {
	Name       *string          `json:"name"       validate:"omitempty,min=1,max=200"`
	Relation   *string          `json:"relation"   validate:"omitempty,min=1,max=50"`
	Phone      *string          `json:"phone"      validate:"omitempty,min=1,max=20"`
	Occupation *string          `json:"occupation" validate:"omitempty,min=1,max=100"`
	Income     *decimal.Decimal `json:"income"`
}

type GuardianStore interface {
	Create(ctx context.Context, guardian *CreateGuardianRequest) (*Guardian, error)
	Get(ctx context.Context, id int64) (*Guardian, error)
	Update(ctx context.Context, id int64, guardian *UpdateGuardianRequest) (*Guardian, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context, cursor int64, limit int) ([]*Guardian, error)
	ListByAdmission(ctx context.Context, admissionID int64) ([]*Guardian, error)
}

const (
	incomeMaxDigits = 12
	incomePlaces    = 2
)

func (r *CreateGuardianRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	return ValidateMoney("income", r.Income, incomeMaxDigits, incomePlaces, true)
}

func (r *UpdateGuardianRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if r.Income == nil {
		return nil
	}
	return ValidateMoney("income", *r.Income, incomeMaxDigits, incomePlaces, true)
}
