package expense

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
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// collectStruct runs the tag rules of s and records failures in ve.
func collectStruct(ve *ValidationError, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating %T: %w", s, err)
	}

	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), fieldMessage(fe))
	}

	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}

		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}

		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "iso4217":
		return "must be an ISO 4217 currency code"
	}

	return "is invalid"
}

func checkNonNegative(ve *ValidationError, field string, d decimal.Decimal) {
	if d.IsNegative() {
		ve.Add(field, "must be zero or greater")
	}
}

// Column scales of the stored numbers.
const (
	amountPlaces int32 = 2
	ratePlaces   int32 = 4
)

// checkPlaces rejects values the database would round on write.
func checkPlaces(ve *ValidationError, field string, d decimal.Decimal, places int32) {
	if !d.Equal(d.Round(places)) {
		ve.Add(field, fmt.Sprintf("must have at most %d decimals", places))
	}
}

// ValidateEntry checks the entry-type rules on an entry whose derived fields are computed.
//
// An entry must be an expense (any category amount), a mileage record
// (kilometers set) or both. Expenses need a payment method and positive
// amounts; mileage needs non-negative kilometers and a positive rate.
func ValidateEntry(e *Entry) error {
	ve := &ValidationError{}

	if e.EntryDate.IsZero() {
		ve.Add("entry_date", "entry date is required")
	}

	if !e.IsExpense() && !e.IsMileage() {
		ve.Add("entry_type", "at least one entry type (expense or mileage) is required")
	}

	if e.IsExpense() {
		pm := strings.TrimSpace(e.PaymentMethod)
		if pm == "" || pm == PaymentNotApplicable {
			ve.Add("payment_method", "payment method is required for expenses")
		}

		for _, c := range Categories {
			v := e.Amounts.Get(c)
			if !v.Valid {
				continue
			}

			if !v.Decimal.IsPositive() {
				ve.Add(c.Field(), "amount must be greater than 0")
			}

			checkPlaces(ve, c.Field(), v.Decimal, amountPlaces)
		}
	}

	if e.IsMileage() {
		if e.Kilometers.Decimal.IsNegative() {
			ve.Add("kilometers", "kilometers must be zero or greater")
		}

		checkPlaces(ve, "kilometers", e.Kilometers.Decimal, amountPlaces)

		if e.KmRate.Valid {
			if !e.KmRate.Decimal.IsPositive() {
				ve.Add("km_rate", "rate per kilometer must be greater than 0")
			}

			checkPlaces(ve, "km_rate", e.KmRate.Decimal, ratePlaces)
		}
	}

	return ve.Err()
}
