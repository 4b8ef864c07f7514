package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("row missing")
	err := Wrap(CodeNotFound, cause, "contact not found")

	require.Error(t, err)
	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, "contact not found", err.Message())
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeConflict, nil, "duplicate email")
	assert.Equal(t, CodeConflict, err.Code())
	assert.NoError(t, err.Unwrap())
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeValidation, "amount must be non-negative")
	wrapped := fmt.Errorf("create deal: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeValidation, typed.Code())

	assert.Nil(t, As(fmt.Errorf("plain")))
	assert.Nil(t, As(nil))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)

	conflict := MetadataFor(CodeConflict)
	assert.Equal(t, http.StatusConflict, conflict.HTTPStatus)
	assert.False(t, conflict.Retryable)
}

func TestIsCode(t *testing.T) {
	err := New(CodeNotFound, "gone")
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeConflict))
	assert.False(t, IsCode(nil, CodeNotFound))
}
