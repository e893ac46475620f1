package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestError_KindMatching(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		code string
	}{
		{"validation", Validation("rating must be between %d and %d", 1, 5), ErrValidation, "validation_error"},
		{"not found", NotFound("service request not found"), ErrNotFound, "not_found"},
		{"forbidden", Forbidden("not the owner"), ErrForbidden, "forbidden"},
		{"invalid transition", InvalidTransition("pending -> completed"), ErrInvalidTransition, "invalid_transition"},
		{"invalid state", InvalidState("not completed"), ErrInvalidState, "invalid_state"},
		{"conflict", Conflict("feedback already submitted"), ErrConflict, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))

			requestErr, ok := AsRequestError(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.code, requestErr.Code())
		})
	}
}

func TestRequestError_Message(t *testing.T) {
	err := Validation("rating must be between %d and %d", 1, 5)
	assert.Equal(t, "rating must be between 1 and 5", err.Error())
}

func TestRequestError_Wrapped(t *testing.T) {
	err := fmt.Errorf("facade: %w", Forbidden("not the owner"))

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))

	requestErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, "not the owner", requestErr.Message)
}

func TestAsRequestError_PlainError(t *testing.T) {
	_, ok := AsRequestError(errors.New("connection refused"))
	assert.False(t, ok)
}
