package facilityRequestController

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"hostelhub/internal/types"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks dto against its struct tags and reports the first failing field
// as a validation error.
func Validate(dto any) error {
	if dto == nil || (reflect.ValueOf(dto).Kind() == reflect.Ptr && reflect.ValueOf(dto).IsNil()) {
		return types.Validation("request body is required")
	}

	err := validate.Struct(dto)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return types.Validation("request body is invalid")
	}

	return types.Validation("%s", describe(validationErrors[0]))
}

func describe(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
	case "isdefault":
		return fmt.Sprintf("%s is not accepted for this category", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	}

	return fmt.Sprintf("%s failed the %s rule", field, fieldErr.Tag())
}

// parseSince accepts an RFC3339 timestamp; an empty value means no lower bound.
func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, types.Validation("since must be an RFC3339 timestamp")
	}

	return &parsed, nil
}
