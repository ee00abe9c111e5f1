package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		errType ErrorType
		status  int
	}{
		{TypeValidation, http.StatusBadRequest},
		{TypeNotFound, http.StatusNotFound},
		{TypeConflict, http.StatusConflict},
		{TypeExternal, http.StatusBadGateway},
		{TypeInternal, http.StatusInternalServerError},
		{ErrorType("bogus"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		e := &Error{Type: tt.errType, Message: "m"}
		assert.Equal(t, tt.status, e.HTTPStatus(), "type %s", tt.errType)
	}
}

func TestError_UnwrapSupportsErrorsIs(t *testing.T) {
	cause := stderrors.New("connection refused")
	e := InternalError("query failed", cause)

	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "query failed")
	assert.Contains(t, e.Error(), "connection refused")
}

func TestWithContext_Chains(t *testing.T) {
	e := ValidationError("bad input").
		WithContext("field", "teamId").
		WithContext("value", "")

	assert.Equal(t, "teamId", e.Context["field"])
	assert.Equal(t, "", e.Context["value"])
}

func TestToResponse(t *testing.T) {
	e := NotFoundError("team not found").WithContext("team_id", "abc")

	resp := e.ToResponse()
	assert.Equal(t, "team not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "abc", resp.Context["team_id"])
}

func TestAsStructuredError_PassesThroughStructured(t *testing.T) {
	original := ConflictError("duplicate team")
	assert.Same(t, original, AsStructuredError(original))
}

func TestAsStructuredError_WrapsPlainErrors(t *testing.T) {
	cause := stderrors.New("db down")
	e := AsStructuredError(cause)

	require.NotNil(t, e)
	assert.Equal(t, TypeInternal, e.Type)
	assert.ErrorIs(t, e, cause)
}

func TestAsStructuredError_FindsWrappedStructured(t *testing.T) {
	inner := NotFoundError("task not found")
	wrapped := stderrors.Join(stderrors.New("outer"), inner)

	e := AsStructuredError(wrapped)
	assert.Equal(t, TypeNotFound, e.Type)
}

func TestAsStructuredError_NilStaysNil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}
