package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "estudiante no encontrado")
	got := FromError(typed)
	assert.Same(t, typed, got)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("boom")
	got := FromError(cause)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, cause)
}

func TestClonedErrorsMatchTemplate(t *testing.T) {
	err := Wrap(errors.New("miss"), ErrCacheMiss.Code, ErrCacheMiss.Status, "draft missing")
	assert.True(t, errors.Is(err, ErrCacheMiss))
	assert.False(t, errors.Is(err, ErrConflict))
}
