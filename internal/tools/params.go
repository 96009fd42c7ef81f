// ABOUTME: Argument decoding and struct-tag validation for tool inputs
// ABOUTME: Every violated field is reported in one "Validation error: ..." message

package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// dateFormat is the validator datetime layout for calendar dates.
const dateFormat = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON argument names rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParamError lists every argument problem found in one tool call.
type ParamError struct {
	Problems []string
}

func (e *ParamError) Error() string {
	return "Validation error: " + strings.Join(e.Problems, ", ")
}

// decode unmarshals input into dst and validates it. Argument problems are
// returned as a *ParamError whose message is ready to show to the caller.
func decode(input json.RawMessage, dst any) error {
	if err := json.Unmarshal(input, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ParamError{Problems: []string{typeErr.Field + ": expected " + describeType(typeErr.Type)}}
		}
		return &ParamError{Problems: []string{"arguments must be a JSON object"}}
	}

	err := validate.Struct(dst)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		pe := &ParamError{Problems: make([]string, 0, len(fieldErrs))}
		for _, fe := range fieldErrs {
			pe.Problems = append(pe.Problems, fe.Field()+": "+describe(fe))
		}
		return pe
	}
	if err != nil {
		return fmt.Errorf("validating arguments: %w", err)
	}
	return nil
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "integer"
	case reflect.Float64, reflect.Float32:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	}
	return t.Kind().String()
}

func describe(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			if fe.Param() == "1" {
				return "must not be empty"
			}
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be in YYYY-MM-DD format"
	}
	return "failed " + fe.Tag() + " check"
}
