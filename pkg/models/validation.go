package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names so messages line up with request bodies
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs the struct's `validate` tags and converts any failures into
// a *ValidationError keyed by json field name.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	ve := &ValidationError{}
	for _, fe := range validationErrors {
		ve.Add(fe.Field(), fieldErrorMessage(fe))
	}
	return ve
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "uuid":
		return "Must be a valid UUID."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return "This field may not be blank."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}

// ValidateMoney checks a decimal amount against its column precision.
// maxDigits and places mirror a numeric(maxDigits, places) column.
func ValidateMoney(field string, amount decimal.Decimal, maxDigits, places int32, allowZero bool) error {
	if amount.IsNegative() || (!allowZero && amount.IsZero()) {
		if allowZero {
			return NewValidationError(field, "Ensure this value is greater than or equal to 0.")
		}
		return NewValidationError(field, "Ensure this value is greater than 0.")
	}
	if -amount.Exponent() > places && !amount.Equal(amount.Round(places)) {
		return NewValidationError(
			field,
			fmt.Sprintf("Ensure that there are no more than %d decimal places.", places),
		)
	}
	limit := decimal.New(1, maxDigits-places)
	if amount.GreaterThanOrEqual(limit) {
		return NewValidationError(
			field,
			fmt.Sprintf("Ensure that there are no more than %d digits in total.", maxDigits),
		)
	}
	return nil
}
