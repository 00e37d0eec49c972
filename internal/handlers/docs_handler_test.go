package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordkit/recordkit/internal/fetch"
	"github.com/recordkit/recordkit/internal/models"
)

func TestDocsHandler_UI(t *testing.T) {
	rec := httptest.NewRecorder()
	NewDocsHandler().UI(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), `data-url="/docs/openapi.yaml"`)
}

func TestDocsHandler_OpenAPISpec(t *testing.T) {
	rec := httptest.NewRecorder()
	NewDocsHandler().OpenAPISpec(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	for _, path := range []string{
		"/health:",
		"/ready:",
		"/api/v1/records:",
		"/api/v1/records/{id}:",
		"/api/v1/posts:",
	} {
		assert.Contains(t, body, path)
	}

	// Documented messages and codes must match what handlers return.
	assert.Contains(t, body, models.ZeroAmountMessage)
	assert.Contains(t, body, fetch.FetchErrorMessage)
	for _, code := range []string{
		CodeInvalidRequest, CodeInvalidQuery, CodeInvalidAmount, CodeValidationFailed,
		CodeNotFound, CodeConflict, CodeFetchFailed, CodeInternal, "RATE_LIMITED",
	} {
		assert.Contains(t, body, "- "+code)
	}
}

func TestDocsHandler_CustomSpec(t *testing.T) {
	spec := []byte("openapi: \"3.0.3\"\ninfo:\n  title: custom\n")

	rec := httptest.NewRecorder()
	NewDocsHandlerWithSpec(spec).OpenAPISpec(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(spec), rec.Body.String())
}

func TestDocsHandler_MissingSpec(t *testing.T) {
	rec := httptest.NewRecorder()
	NewDocsHandlerWithSpec(nil).OpenAPISpec(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeNotFound)
}
