package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeNotFound, TypeOf(NewNotFoundError("gone")))
	assert.Equal(t, ErrorTypeNotOwner, TypeOf(NewNotOwnerError("not yours")))
	assert.Equal(t, ErrorTypeInternal, TypeOf(fmt.Errorf("plain")))
}

func TestTypeOf_Wrapped(t *testing.T) {
	inner := NewValidationError("bad input")
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, ErrorTypeValidation, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeValidation))
	assert.False(t, IsType(wrapped, ErrorTypeNotFound))
}

func TestAppError_Error(t *testing.T) {
	err := NewUnavailableError("store down", fmt.Errorf("dial tcp: refused"))
	assert.Contains(t, err.Error(), "UNAVAILABLE")
	assert.Contains(t, err.Error(), "store down")
	assert.Contains(t, err.Error(), "refused")
}
