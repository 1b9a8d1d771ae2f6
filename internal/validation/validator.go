package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Mandar-Sonkusare/esg/internal/scoring"
)

// MissingError reports an absent or null section or field.
type MissingError struct {
	Section string
	Field   string
}

func (e *MissingError) Error() string {
	if e.Field == "" {
		return "Missing required section: " + e.Section
	}
	return fmt.Sprintf("Missing required field: %s.%s", e.Section, e.Field)
}

// Path returns "<section>" or "<section>.<field>".
func (e *MissingError) Path() string {
	if e.Field == "" {
		return e.Section
	}
	return e.Section + "." + e.Field
}

// InvalidError reports a present value of the wrong type or out of range.
type InvalidError struct {
	Field  string // "<section>.<field>", or empty for the body itself
	Reason string
}

func (e *InvalidError) Error() string {
	if e.Field == "" {
		return "Invalid request body: " + e.Reason
	}
	return fmt.Sprintf("Invalid value for %s: %s", e.Field, e.Reason)
}

func (e *InvalidError) Path() string { return e.Field }

// FieldPath returns the section/field path carried by a validation error, or
// "" for any other error.
func FieldPath(err error) string {
	var missing *MissingError
	if errors.As(err, &missing) {
		return missing.Path()
	}
	var invalid *InvalidError
	if errors.As(err, &invalid) {
		return invalid.Path()
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so paths match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// CheckRequired walks Schema in order and returns a *MissingError for the
// first absent or null section or field.
func CheckRequired(raw []byte) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return &InvalidError{Reason: "expected a JSON object"}
	}

	for _, section := range Schema {
		sectionRaw, ok := body[section.Name]
		if !ok || isNull(sectionRaw) {
			return &MissingError{Section: section.Name}
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(sectionRaw, &fields); err != nil {
			return &InvalidError{Field: section.Name, Reason: "expected an object"}
		}

		for _, field := range section.Fields {
			fieldRaw, ok := fields[field]
			if !ok || isNull(fieldRaw) {
				return &MissingError{Section: section.Name, Field: field}
			}
		}
	}
	return nil
}

// Decode runs the presence check, decodes the body into a scoring.Input and
// applies the range rules declared on the input types.
func Decode(raw []byte) (scoring.Input, error) {
	var in scoring.Input

	if err := CheckRequired(raw); err != nil {
		return in, err
	}

	if err := json.Unmarshal(raw, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return in, &InvalidError{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type.Kind(), typeErr.Value),
			}
		}
		return in, &InvalidError{Reason: err.Error()}
	}

	if err := Validate(in); err != nil {
		return in, err
	}
	return in, nil
}

// Validate applies range rules to an already decoded input.
func Validate(in scoring.Input) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &InvalidError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	return &InvalidError{
		Field:  trimRoot(fe.Namespace()),
		Reason: describe(fe),
	}
}

// trimRoot drops the struct type name validator puts at the front of a
// namespace, e.g. "Input.water.usage" -> "water.usage".
func trimRoot(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}
