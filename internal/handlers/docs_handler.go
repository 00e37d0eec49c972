package handlers

import (
	"embed"
	"net/http"
)

//go:embed docs/openapi.yaml docs/index.html
var docsFS embed.FS

// DocsHandler serves the OpenAPI description of the API and a browsable UI.
type DocsHandler struct {
	spec []byte
	ui   []byte
}

// NewDocsHandler creates a DocsHandler backed by the embedded documents.
func NewDocsHandler() *DocsHandler {
	spec, _ := docsFS.ReadFile("docs/openapi.yaml")
	return NewDocsHandlerWithSpec(spec)
}

// NewDocsHandlerWithSpec creates a DocsHandler serving spec instead of the embedded one.
func NewDocsHandlerWithSpec(spec []byte) *DocsHandler {
	ui, _ := docsFS.ReadFile("docs/index.html")
	return &DocsHandler{spec: spec, ui: ui}
}

// UI serves the API reference page.
func (h *DocsHandler) UI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.ui)
}

// OpenAPISpec serves the OpenAPI document.
func (h *DocsHandler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if len(h.spec) == 0 {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "OpenAPI document not available",
			Code:  CodeNotFound,
		})
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.spec)
}
