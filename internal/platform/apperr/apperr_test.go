// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
)

/*
TestAppError_Taxonomy verifies the HTTP status attached to each auth/ownership variant.
*/
func TestAppError_Taxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"missing_credential", apperr.MissingCredential(), http.StatusUnauthorized, apperr.CodeMissingCredential},
		{"invalid_token", apperr.InvalidToken(), http.StatusUnauthorized, apperr.CodeInvalidToken},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden, apperr.CodeForbidden},
		{"not_found", apperr.NotFound("Post"), http.StatusNotFound, apperr.CodeNotFound},
		{"conflict", apperr.Conflict("dup"), http.StatusConflict, apperr.CodeConflict},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAppError_IsMatchesByCode checks that errors.Is compares codes, not messages.
*/
func TestAppError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", apperr.NotFound("Post"))

	assert.True(t, errors.Is(wrapped, apperr.NotFound("anything")))
	assert.False(t, errors.Is(wrapped, apperr.Forbidden("anything")))
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
}

/*
TestAppError_CauseIsHidden ensures the client message never carries the cause.
*/
func TestAppError_CauseIsHidden(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)

	extracted := apperr.As(fmt.Errorf("outer: %w", err))
	require.NotNil(t, extracted)
	assert.Equal(t, apperr.CodeInternal, extracted.Code)
}
