// Package validation wraps go-playground/validator with API-friendly errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report query-parameter names rather than Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FieldError is one failed constraint.
type FieldError struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// Error collects every failed constraint of a request.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// APIError is the JSON body returned for rejected requests.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ToAPIError converts e to the VALIDATION_ERROR response body.
func (e *Error) ToAPIError() *APIError {
	return &APIError{Code: "VALIDATION_ERROR", Message: e.Error(), Fields: e.Fields}
}

// ValidateStruct validates s and returns nil or an *Error.
func ValidateStruct(s interface{}) *Error {
	return convert(GetValidator().Struct(s), "")
}

// ValidateVar validates a single value under name.
func ValidateVar(name string, v interface{}, tag string) *Error {
	return convert(GetValidator().Var(v, tag), name)
}

// Merge combines errors, ignoring nils. It returns nil when all are nil.
func Merge(errs ...*Error) *Error {
	var out []FieldError
	for _, e := range errs {
		if e != nil {
			out = append(out, e.Fields...)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &Error{Fields: out}
}

func convert(err error, name string) *Error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}
	out := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		field := fe.Field()
		if name != "" {
			field = name
		}
		out[i] = FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: translate(field, fe.Tag(), fe.Param()),
		}
	}
	return &Error{Fields: out}
}

var messages = map[string]string{
	"required": "%s is required",
	"numeric":  "%s must be a number",
	"number":   "%s must be a number",
}

var messagesWithParam = map[string]string{
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"oneof": "%s must be one of: %s",
}

func translate(field, tag, param string) string {
	if t, ok := messages[tag]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := messagesWithParam[tag]; ok {
		return fmt.Sprintf(t, field, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
