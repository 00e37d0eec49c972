// Package handlers contains the HTTP handlers of the API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recordkit/recordkit/internal/fetch"
	"github.com/recordkit/recordkit/internal/models"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidQuery     = "INVALID_QUERY"
	CodeInvalidAmount    = "INVALID_AMOUNT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeFetchFailed      = "FETCH_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// mapErrorToResponse maps service errors to HTTP status codes and error responses.
func mapErrorToResponse(err error) (int, ErrorResponse) {
	var verr *models.ValidationError
	var ferr *fetch.FetchError

	switch {
	case errors.As(err, &verr):
		code := CodeValidationFailed
		if verr.Field == "amount" {
			code = CodeInvalidAmount
		}
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error: verr.Message,
			Code:  code,
		}
	case errors.Is(err, models.ErrRecordNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  CodeNotFound,
		}
	case errors.Is(err, models.ErrDuplicateID):
		return http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  CodeConflict,
		}
	case errors.As(err, &ferr):
		return http.StatusBadGateway, ErrorResponse{
			Error: fetch.FetchErrorMessage,
			Code:  CodeFetchFailed,
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  CodeInternal,
		}
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps err and writes the matching error response.
func writeError(w http.ResponseWriter, err error) int {
	status, resp := mapErrorToResponse(err)
	writeJSON(w, status, resp)
	return status
}
