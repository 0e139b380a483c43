// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/validate"
	"github.com/taibuivan/inkpost/pkg/pointer"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Hi", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "a@x.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"display_name", "Alice <a@x.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_NotBlank treats omitted fields as valid.
*/
func TestValidator_NotBlank(t *testing.T) {
	assert.False(t, (&validate.Validator{}).NotBlank("title", nil).HasErrors())
	assert.False(t, (&validate.Validator{}).NotBlank("title", pointer.To("Hi")).HasErrors())
	assert.True(t, (&validate.Validator{}).NotBlank("title", pointer.To(" ")).HasErrors())
}

/*
TestValidator_UUID accepts v4 and v7 identifiers in any case.
*/
func TestValidator_UUID(t *testing.T) {
	assert.True(t, validate.IsUUID("0194f3a2-7c1e-7d55-b1a4-2f3e9c8d7a61"))
	assert.True(t, validate.IsUUID("0194F3A2-7C1E-7D55-B1A4-2F3E9C8D7A61"))
	assert.False(t, validate.IsUUID("p1"))
	assert.False(t, validate.IsUUID(""))
	assert.False(t, validate.IsUUID("urn:uuid:0194f3a2-7c1e-7d55-b1a4-2f3e9c8d7a61"))
	assert.False(t, validate.IsUUID("{0194f3a2-7c1e-7d55-b1a4-2f3e9c8d7a61}"))
	assert.False(t, validate.IsUUID("0194f3a27c1e7d55b1a42f3e9c8d7a61"))
}

/*
TestValidator_MaxBytes counts encoded bytes, so multi-byte runes hit the limit sooner.
*/
func TestValidator_MaxBytes(t *testing.T) {
	assert.False(t, (&validate.Validator{}).MaxBytes("password", strings.Repeat("a", 72), 72).HasErrors())
	assert.True(t, (&validate.Validator{}).MaxBytes("password", strings.Repeat("a", 73), 72).HasErrors())

	// 30 runes, 75 bytes
	wide := strings.Repeat("ü€", 15)
	assert.False(t, (&validate.Validator{}).MaxLen("password", wide, 100).HasErrors())
	assert.True(t, (&validate.Validator{}).MaxBytes("password", wide, 72).HasErrors())
}

/*
TestValidator_CollectsEveryFailure keeps failures in rule order.
*/
func TestValidator_CollectsEveryFailure(t *testing.T) {
	err := (&validate.Validator{}).
		Required("title", "").
		MinLen("password", "abc", 6).
		Email("email", "not-an-email").
		MaxLen("name", "ok", 10).
		MaxLen("bio", "héllo", 4).
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"title", "password", "email", "bio"}, fields)
	assert.Equal(t, "Maximum 4 characters", ae.Details[3].Message)
}
