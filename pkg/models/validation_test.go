package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructFieldMessages(t *testing.T) {
	err := ValidateStruct(&CreateAdmissionRequest{
		FirstName: "Amina",
		Email:     "not-an-email",
		Phone:     "0300-1234567",
		Program:   "BSCS",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"This field is required."}, ve.Fields["last_name"])
	assert.Equal(t, []string{"Enter a valid email address."}, ve.Fields["email"])
	assert.NotContains(t, ve.Fields, "first_name")
}

func TestValidateStructOneOf(t *testing.T) {
	err := ValidateStruct(&SetAdmissionStatusRequest{Status: "archived"})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(
		t,
		[]string{"Must be one of: pending, reviewing, accepted, rejected."},
		ve.Fields["status"],
	)
}

func TestValidateMoney(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		allowZero bool
		wantErr   bool
	}{
		{"positive", "1500.50", false, false},
		{"zero not allowed", "0", false, true},
		{"zero allowed", "0", true, false},
		{"negative", "-1", true, true},
		{"too many places", "10.505", false, true},
		{"trailing zeros are fine", "10.500", false, false},
		{"too many digits", "100000000", false, true},
		{"largest allowed", "99999999.99", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMoney("amount", decimal.RequireFromString(tt.amount), 10, 2, tt.allowZero)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessPaymentRequestValidate(t *testing.T) {
	req := &ProcessPaymentRequest{
		AdmissionCode: "not-a-uuid",
		PaymentType:   "application_fee",
		Amount:        decimal.NewFromInt(2500),
		TransactionID: "TX-1",
	}
	err := req.Validate()

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"Must be a valid UUID."}, ve.Fields["admission_code"])
}

func TestValidationErrorString(t *testing.T) {
	ve := (&ValidationError{}).Add("b", "second").Add("a", "first").Add("a", "again")
	assert.Equal(t, "validation failed: a: first; again, b: second", ve.Error())
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("admission 7")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "admission 7 not found", err.Error())
}

func TestProcessPaymentRequestAcceptsUpperCaseCode(t *testing.T) {
	req := &ProcessPaymentRequest{
		AdmissionCode: "8D3C1E0A-5B7F-4C2D-9E1A-0F6B2C3D4E5F",
		PaymentType:   "application_fee",
		Amount:        decimal.NewFromInt(2500),
		TransactionID: "TX-2",
	}
	assert.NoError(t, req.Validate())

	req.AdmissionCode = ""
	var ve *ValidationError
	require.True(t, errors.As(req.Validate(), &ve))
	assert.Equal(t, []string{"This field is required."}, ve.Fields["admission_code"])
}
