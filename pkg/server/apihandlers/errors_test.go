package apihandlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

func renderAPIError(t *testing.T, err error, status int) (int, APIError) {
	t.Helper()
	rec := httptest.NewRecorder()
	handlertools.RenderError(rec, err, status)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return rec.Code, apiErr
}

func TestAPIErrorMatchesRenderedErrors(t *testing.T) {
	code, apiErr := renderAPIError(
		t,
		models.NewValidationError("admission_code", "Must be a valid UUID."),
		http.StatusInternalServerError,
	)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation failed", apiErr.Message)
	assert.Equal(t, []string{"Must be a valid UUID."}, apiErr.Errors["admission_code"])

	code, apiErr = renderAPIError(t, models.NewNotFoundError("admission"), http.StatusInternalServerError)
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, apiErr.Message)
	assert.Empty(t, apiErr.Errors)

	code, apiErr = renderAPIError(t, errors.New("db down"), http.StatusInternalServerError)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
	assert.Equal(t, "db down", apiErr.Error)
}
