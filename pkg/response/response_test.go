package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/uniworkhq/uniwork/pkg/errors"
)

func recordResponse(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	write(c)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSuccess(t *testing.T) {
	rec, body := recordResponse(t, func(c *gin.Context) {
		Success(c, http.StatusCreated, gin.H{"id": "abc"})
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, body.Success)
	require.Nil(t, body.Error)

	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "abc", data["id"])
}

func TestSuccessWithMeta(t *testing.T) {
	rec, body := recordResponse(t, func(c *gin.Context) {
		SuccessWithMeta(c, http.StatusOK, []string{"a"}, &Meta{Page: 2, PerPage: 10, Total: 31, TotalPages: 4})
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	require.Equal(t, 2, body.Meta.Page)
	require.Equal(t, 4, body.Meta.TotalPages)
}

func TestErrorRendersAppError(t *testing.T) {
	rec, body := recordResponse(t, func(c *gin.Context) {
		Error(c, appErrors.ErrForbidden)
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, body.Success)
	require.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestErrorMasksUnknownErrors(t *testing.T) {
	rec, body := recordResponse(t, func(c *gin.Context) {
		Error(c, errors.New("sql: connection refused"))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	// Internal details never leak to clients.
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestErrorWithNil(t *testing.T) {
	rec, body := recordResponse(t, func(c *gin.Context) {
		Error(c, nil)
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
}
