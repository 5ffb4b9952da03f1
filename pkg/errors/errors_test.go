package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := New("TEST", "something broke", http.StatusBadRequest)
	require.Equal(t, "something broke", err.Error())

	withInternal := err.WithInternal(stderrors.New("db gone"))
	require.Equal(t, "something broke: db gone", withInternal.Error())
	// The original is untouched.
	require.Nil(t, err.Internal)
}

func TestUnwrapExposesInternal(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(cause, "operation failed")

	require.True(t, stderrors.Is(err, cause))
	require.Equal(t, http.StatusInternalServerError, err.StatusCode)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := FromError(ErrNotFound)
	require.Equal(t, "NOT_FOUND", appErr.Code)

	// AppErrors survive wrapping in plain error chains.
	wrapped := fmt.Errorf("loading user: %w", ErrForbidden)
	require.Equal(t, "FORBIDDEN", FromError(wrapped).Code)

	generic := FromError(stderrors.New("boom"))
	require.Equal(t, ErrInternalServer.Code, generic.Code)
	require.EqualError(t, generic.Internal, "boom")
}

func TestConvenienceConstructors(t *testing.T) {
	bad := NewBadRequest("email is required")
	require.Equal(t, "BAD_REQUEST", bad.Code)
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)
	require.Equal(t, "email is required", bad.Message)

	forbidden := NewForbidden("not yours")
	require.Equal(t, "FORBIDDEN", forbidden.Code)
	require.Equal(t, http.StatusForbidden, forbidden.StatusCode)
}
