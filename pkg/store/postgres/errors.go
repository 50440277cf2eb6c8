package postgres

import (
	"database/sql"
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/store"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

type fieldMessage struct {
	field   string
	message string
}

// uniqueConstraints maps postgres' default unique constraint names to the
// request field they guard.
var uniqueConstraints = map[string]fieldMessage{
	"admission_email_key":          {"email", "admission with this email already exists."},
	"admission_admission_code_key": {"admission_code", "admission with this admission code already exists."},
	"payment_transaction_id_key":   {"transaction_id", "payment with this transaction id already exists."},
	"entry_test_admission_id_key":  {"admission_id", "entry test with this admission already exists."},
}

var checkConstraints = map[string]fieldMessage{
	"payment_amount_check":   {"amount", "Ensure this value is greater than 0."},
	"guardian_income_check":  {"income", "Ensure this value is greater than or equal to 0."},
	"payment_status_check":   {"status", "Must be one of: pending, completed, failed."},
	"admission_status_check": {"status", "Must be one of: pending, reviewing, accepted, rejected."},
}

// reference names the foreign key a write sets, so a dangling id can be reported
// against the right field.
type reference struct {
	field string
	id    int64
}

// classifyError turns integrity violations into validation errors and wraps
// everything else as a StorageError.
func classifyError(err error, message string, ref reference) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
		switch pgErr.Field('C') {
		case pgUniqueViolation:
			if fm, ok := uniqueConstraints[pgErr.Field('n')]; ok {
				return models.NewValidationError(fm.field, fm.message)
			}
		case pgForeignKeyViolation:
			if ref.field != "" {
				return models.NewInvalidReferenceError(ref.field, ref.id)
			}
		case pgCheckViolation:
			if fm, ok := checkConstraints[pgErr.Field('n')]; ok {
				return models.NewValidationError(fm.field, fm.message)
			}
		}
		return models.NewBadRequestError(pgErr.Field('M'))
	}
	return store.NewStorageError(message, err)
}

// notFoundOr maps sql.ErrNoRows to a NotFoundError for resource and classifies
// anything else.
func notFoundOr(err error, resource string, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFoundError(resource)
	}
	return classifyError(err, message, reference{})
}
