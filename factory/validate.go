package factory

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/warp/salary-engine/generic"
)

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// humanField turns incentive_bonus into "Incentive Bonus".
func humanField(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// toValidationError maps validator output onto generic.ValidationError,
// keyed by the json path of each offending field. Other errors pass through.
func toValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		key := e.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		fields[key] = humanField(e.Field()) + " " + describe(e)
	}
	return &generic.ValidationError{Fields: fields}
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + e.Param()
	case "gt":
		return "must be > " + e.Param()
	case "ne":
		return "must not be " + e.Param()
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "ltefield":
		return "must not exceed " + strings.ToLower(e.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "datetime":
		return "must be formatted as " + e.Param()
	default:
		return "is invalid"
	}
}

// invalid builds a single-field ValidationError.
func invalid(field, message string) error {
	name := field
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return &generic.ValidationError{Fields: map[string]string{field: humanField(name) + " " + message}}
}
