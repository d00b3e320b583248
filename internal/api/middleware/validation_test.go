package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirevet/pkg/models"
)

func runValidation(t *testing.T, maxBytes int64, body string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/analyze-resume", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	h := RequestValidation(maxBytes)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))

	return rec, c
}

func TestRequestValidationInjectsRequestID(t *testing.T) {
	rec, c := runValidation(t, 1024, "ok")

	require.Equal(t, http.StatusOK, rec.Code)

	id, ok := c.Get("request_id").(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
}

func TestRequestValidationRejectsOversizedBody(t *testing.T) {
	rec, _ := runValidation(t, 4, "way past the limit")

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Request body too large", resp.Error)
	assert.NotEmpty(t, resp.RequestID)
}
