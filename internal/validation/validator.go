// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/envlog/internal/logging"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one field that failed validation.
type FieldError struct {
	path    string
	tag     string
	param   string
	value   any
	message string
}

// Path returns the dotted config path of the field, e.g. "slack.hook_url".
func (e *FieldError) Path() string {
	return e.path
}

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "65535" for "max=65535").
func (e *FieldError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *FieldError) Value() any {
	return e.value
}

// Error returns a human-readable error message.
func (e *FieldError) Error() string {
	return e.message
}

// Errors is a collection of field errors.
type Errors struct {
	errors []FieldError
}

// Fields returns the individual field errors.
func (ve *Errors) Fields() []FieldError {
	return ve.errors
}

// Has reports whether the field at path failed validation.
func (ve *Errors) Has(path string) bool {
	for _, e := range ve.errors {
		if e.path == path {
			return true
		}
	}
	return false
}

// Error implements the error interface, returning a combined error message.
func (ve *Errors) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}

	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
// Field names are reported using their koanf tag, then their json tag, so
// errors name config paths and request fields.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
			if name == "" {
				name, _, _ = strings.Cut(fld.Tag.Get("json"), ",")
			}
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		// loglevel: a syslog level name or alias
		_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			_, ok := logging.ParseLevel(fl.Field().String())
			return ok
		})
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *Errors if validation fails.
func ValidateStruct(s any) *Errors {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &Errors{
			errors: []FieldError{
				{
					path:    "unknown",
					tag:     "unknown",
					message: err.Error(),
				},
			},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		path := namespacePath(fieldErr.Namespace())
		fieldErrors[i] = FieldError{
			path:    path,
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr, path),
		}
	}

	return &Errors{errors: fieldErrors}
}

// namespacePath drops the root struct name from a validator namespace.
func namespacePath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":         "%s is required",
	"url":              "%s must be a valid URL",
	"http_url":         "%s must be a valid http or https URL",
	"hostname":         "%s must be a valid hostname",
	"hostname_rfc1123": "%s must be a valid hostname",
	"ip":               "%s must be a valid IP address",
	"hostname_port":    "%s must be a host:port address",
	"loglevel":         "%s must be a syslog level name",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError, field string) string {
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
