package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
)

func TestHandler(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("ARCUP_LOG_LEVEL", "ERROR")

	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, contactapi.Path, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodPost, contactapi.Path,
		strings.NewReader(`{"anonymous":true,"persona":"researcher","message":"hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp contactapi.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ID)
}
