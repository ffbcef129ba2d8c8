package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomError_UnwrapsToSentinel(t *testing.T) {
	err := NewResourceNotFoundError("training 12 not found")

	assert.True(t, errors.Is(err, ErrResourceNotFound))
	assert.Equal(t, "training 12 not found", err.Error())
}

func TestCustomError_FallsBackToWrappedMessage(t *testing.T) {
	err := &CustomError{Err: ErrConflict}
	assert.Equal(t, "conflict", err.Error())

	empty := &CustomError{}
	assert.Equal(t, "unknown error", empty.Error())
}

func TestIs_MatchesAnyInList(t *testing.T) {
	wrapped := fmt.Errorf("loading policy: %w", ErrPolicyNotFound)

	assert.True(t, Is(wrapped, ErrTrainingNotFound, ErrNewsNotFound, ErrPolicyNotFound))
	assert.False(t, Is(wrapped, ErrTrainingNotFound, ErrNewsNotFound))
}

func TestMessageOf(t *testing.T) {
	msg, ok := MessageOf(fmt.Errorf("outer: %w", NewBadRequestError("options must not be empty")))
	assert.True(t, ok)
	assert.Equal(t, "options must not be empty", msg)

	_, ok = MessageOf(ErrBadRequest)
	assert.False(t, ok)
}

func TestNewValidationError_CarriesField(t *testing.T) {
	err := NewValidationError("correctAnswer", "correct answer must index into options")

	var ce *CustomError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "correctAnswer", ce.Details["field"])
	assert.True(t, errors.Is(err, ErrValidationFailed))
}
