// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError], plus the pure
// predicates used for forum content and URL path segments.
//
// # Architecture
//
// This package is used exclusively in the service layer — never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/parleyhq/parley/internal/platform/apperr"
)

var (
	// wordRegex matches any word character (letter, digit, underscore).
	// Content with at least one word character is considered substantive;
	// whitespace or pure punctuation is not.
	wordRegex = regexp.MustCompile(`\w`)
	// numericIDRegex matches a full string of decimal digits.
	numericIDRegex = regexp.MustCompile(`^\d+$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// HasWordContent reports whether the value contains at least one word
// character. This is the single rule applied to topic titles, topic bodies,
// and comments.
func HasWordContent(value string) bool {
	return wordRegex.MatchString(value)
}

// IsNumericID reports whether the value is a non-empty string of decimal
// digits. Path segments that fail this check never reach the database.
func IsNumericID(value string) bool {
	return numericIDRegex.MatchString(value)
}

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// WordContent fails if the value lacks any word character.
func (v *Validator) WordContent(field, value string) *Validator {
	if !HasWordContent(value) {
		v.add(field, "Must contain at least one letter, digit, or underscore")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("page", page < 0, "Must not be negative")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
