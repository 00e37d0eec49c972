package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/recordkit/recordkit/internal/models"
	"github.com/recordkit/recordkit/internal/services"
	"github.com/recordkit/recordkit/pkg/logger"
)

// maxBodyBytes limits the size of a create request body.
const maxBodyBytes = 1 << 20

// CreateRecordRequest represents the request body for creating a record.
type CreateRecordRequest struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// RecordListResponse represents one page of records.
type RecordListResponse struct {
	Records []*models.Record `json:"records"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

var errTrailingData = errors.New("unexpected data after JSON body")

// RecordHandler handles record endpoints.
type RecordHandler struct {
	service services.RecordService
	log     *logger.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(svc services.RecordService, log *logger.Logger) *RecordHandler {
	return &RecordHandler{service: svc, log: log}
}

// Create handles POST /api/v1/records requests.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := decodeStrict(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  CodeInvalidRequest,
		})
		return
	}

	record, err := h.service.Create(r.Context(), models.RecordCreate{
		Label:  req.Label,
		Amount: req.Amount,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// List handles GET /api/v1/records requests.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "limit must be an integer",
			Code:  CodeInvalidQuery,
		})
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "offset must be an integer",
			Code:  CodeInvalidQuery,
		})
		return
	}

	page, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records := page.Records
	if records == nil {
		records = []*models.Record{}
	}
	writeJSON(w, http.StatusOK, RecordListResponse{
		Records: records,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
}

// Get handles GET /api/v1/records/{id} requests.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /api/v1/records/{id} requests.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := writeError(w, err); status >= http.StatusInternalServerError {
		logger.FromContext(r.Context(), h.log).Error("record request failed", "path", r.URL.Path, "error", err)
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// decodeStrict decodes exactly one JSON object with no unknown fields.
func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
