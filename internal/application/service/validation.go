package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal validates as a number so gt/gte work on amounts
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateInput runs the struct's validate tags. A failed positivity or
// non-negativity rule on a number is reported as INVALID_AMOUNT.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewBadRequestError(err.Error())
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		if isAmountRule(fe) {
			return apperror.NewInvalidAmountError(amountMessage(fe))
		}
		fields = append(fields, apperror.FieldError{
			Field:   fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:],
			Message: fieldMessage(fe),
		})
	}
	return apperror.NewValidationError(fields)
}

func isAmountRule(fe validator.FieldError) bool {
	return (fe.Tag() == "gt" || fe.Tag() == "gte") && fe.Param() == "0" && fe.Kind() == reflect.Float64
}

func amountMessage(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return fmt.Sprintf("%s must be greater than zero", fe.Field())
	}
	return fmt.Sprintf("%s must not be negative", fe.Field())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "failed on " + fe.Tag()
	}
}
