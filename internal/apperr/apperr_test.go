package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Status(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{http.StatusBadRequest, "failed"},
		{http.StatusUnauthorized, "failed"},
		{http.StatusNotFound, "failed"},
		{http.StatusTooManyRequests, "failed"},
		{http.StatusInternalServerError, "error"},
		{http.StatusBadGateway, "error"},
		{http.StatusOK, "error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x").Status())
		})
	}
}

func TestError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("smtp down")
	err := Wrap(cause, http.StatusInternalServerError, "There was an error sending the email. Try again later!")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "There was an error sending the email. Try again later!: smtp down", err.Error())
	assert.Equal(t, "plain", New(http.StatusBadRequest, "plain").Error())
}

func TestAs_FindsWrapped(t *testing.T) {
	op := New(http.StatusNotFound, "No document found with that ID")
	wrapped := fmt.Errorf("handler: %w", op)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, op, got)

	_, ok = As(errors.New("boom"))
	assert.False(t, ok)
}

func TestError_StackIsCaptured(t *testing.T) {
	err := New(http.StatusBadRequest, "bad")
	assert.Contains(t, err.Stack(), "TestError_StackIsCaptured")
	assert.Empty(t, (&Error{}).Stack())
}

func TestNewf(t *testing.T) {
	err := Newf(http.StatusNotFound, "Can't find %s on this server!", "/nope")
	assert.Equal(t, "Can't find /nope on this server!", err.Message)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Contains(t, err.Stack(), "TestNewf")
}

func TestWithDetails(t *testing.T) {
	err := New(http.StatusBadRequest, "bad").WithDetails(map[string]string{"name": "required"})
	assert.Equal(t, map[string]string{"name": "required"}, err.Details)
}
