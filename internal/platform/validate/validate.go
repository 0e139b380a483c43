// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate checks decoded request payloads at the handler boundary.

A [Validator] records every failing rule and reports them together as one
VALIDATION_ERROR whose details name each offending field:

	validator := &validate.Validator{}
	validator.Required("title", input.Title).MaxLen("title", input.Title, 255)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

A Validator belongs to a single request.
*/
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

const (
	msgRequired = "This field is required"
	msgBlank    = "Must not be blank"
	msgEmail    = "Must be a valid email address"
)

// Validator accumulates field failures in rule order.
type Validator struct {
	failures []apperr.FieldError
}

func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required fails on an empty or whitespace-only value.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, msgRequired)
}

// NotBlank is Required for optional fields: nil (omitted) passes.
func (v *Validator) NotBlank(field string, value *string) *Validator {
	return v.check(value == nil || strings.TrimSpace(*value) != "", field, msgBlank)
}

// MaxLen bounds the length in runes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= max, field, fmt.Sprintf("Maximum %d characters", max))
}

// MaxBytes bounds the encoded length, for limits that count bytes rather than runes.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	return v.check(len(value) <= max, field, fmt.Sprintf("Maximum %d bytes", max))
}

// MinLen requires at least min runes.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(utf8.RuneCountInString(value) >= min, field, fmt.Sprintf("Minimum %d characters", min))
}

// Email accepts a bare RFC 5322 address. Display names and angle brackets are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(err == nil && address.Address == strings.TrimSpace(value), field, msgEmail)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failures...)
}

// IsUUID reports whether value is a canonical hyphenated UUID, in either case.
func IsUUID(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
