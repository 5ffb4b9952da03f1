package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/uniworkhq/uniwork/pkg/response"
	appValidator "github.com/uniworkhq/uniwork/pkg/validator"
)

type demoRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=viewer member manager admin"`
}

func bindTestContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func TestBindAndValidateAcceptsValidPayload(t *testing.T) {
	c, rec := bindTestContext(t, `{"email":"a@b.co","role":"member"}`)

	var req demoRequest
	require.True(t, bindAndValidate(c, &req))
	require.Equal(t, "a@b.co", req.Email)
	require.Zero(t, rec.Body.Len())
}

func TestBindAndValidateRejectsMalformedJSON(t *testing.T) {
	c, rec := bindTestContext(t, `{"email":`)

	var req demoRequest
	require.False(t, bindAndValidate(c, &req))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestBindAndValidateReportsFieldMessages(t *testing.T) {
	c, rec := bindTestContext(t, `{"email":"nope","role":"owner"}`)

	var req demoRequest
	require.False(t, bindAndValidate(c, &req))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Error.Message, "email must be a valid email address")
	require.Contains(t, body.Error.Message, "role must be one of: viewer member manager admin")
}

func TestFormatValidationErrorFallbacks(t *testing.T) {
	require.Equal(t, "invalid request payload", formatValidationError(nil))
	require.Equal(t, "invalid request payload", formatValidationError(appValidator.ValidationErrors{}))

	require.Equal(t, "field is required", formatValidationError(appValidator.ValidationErrors{
		{Field: "", Tag: "required"},
	}))
	require.Equal(t, "due at failed validation: datetime", formatValidationError(appValidator.ValidationErrors{
		{Field: "due_at", Tag: "datetime"},
	}))
}

func TestParseIntQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&junk=abc&blank=", nil)

	require.Equal(t, 3, parseIntQuery(c, "page", 1))
	require.Equal(t, 1, parseIntQuery(c, "junk", 1))
	require.Equal(t, 25, parseIntQuery(c, "blank", 25))
	require.Equal(t, 25, parseIntQuery(c, "missing", 25))
}
