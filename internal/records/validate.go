package records

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field path (e.g. "presidedBy", "speakers[0].name") to a
// human-readable message. An empty map means the record is valid.
type Errors map[string]string

// Err returns nil for an empty map and a *ValidationError otherwise.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError carries field errors through error returns.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Letters (including the Portuguese accented set) and whitespace.
var personNamePattern = regexp.MustCompile(`^[a-zA-ZáàâãéêíóôõúüçÁÀÂÃÉÊÍÓÔÕÚÜÇ\s]+$`)
var hasLetter = regexp.MustCompile(`[a-zA-ZáàâãéêíóôõúüçÁÀÂÃÉÊÍÓÔÕÚÜÇ]`)

// IsPersonName reports whether s is a well-formed person name.
func IsPersonName(s string) bool {
	return personNamePattern.MatchString(s) && hasLetter.MatchString(s)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return IsPersonName(fl.Field().String())
	}))
	must(v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		return Date(fl.Field().String()).Valid()
	}))

	return v
}

// Validate checks r and returns its field errors.
func Validate(r Record) Errors {
	out := Errors{}

	err := validate.Struct(r)
	if err == nil {
		return out
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["_"] = err.Error()
		return out
	}

	for _, fe := range ves {
		key := fieldKey(fe.Namespace())
		if _, seen := out[key]; !seen {
			out[key] = message(fe)
		}
	}
	return out
}

// fieldKey drops the struct name and the embedded Meta segment.
func fieldKey(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.TrimPrefix(ns, "Meta.")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "personname":
		return "must contain only letters and spaces"
	case "calendardate":
		return "must be a valid date (YYYY-MM-DD)"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a time (HH:MM)"
	}
	return "is invalid"
}
