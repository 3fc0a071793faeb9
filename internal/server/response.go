package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/me/shipdesk/pkg/model"
)

// statusByCode maps envelope error codes to HTTP statuses when the error does
// not carry one.
var statusByCode = map[model.ErrorCode]int{
	model.ErrValidation:   http.StatusUnprocessableEntity,
	model.ErrNotFound:     http.StatusNotFound,
	model.ErrUnauthorized: http.StatusUnauthorized,
	model.ErrForbidden:    http.StatusForbidden,
	model.ErrInternal:     http.StatusInternalServerError,
}

func newRequestID() string {
	return "req_" + uuid.New().String()[:8]
}

func respondOK(w http.ResponseWriter, r *http.Request, data any) {
	writeEnvelope(w, r, http.StatusOK, model.Response{Status: "ok", Data: data})
}

// respondPage writes one page of a local list.
func respondPage(w http.ResponseWriter, r *http.Request, data any, opts model.ListOptions, total int) {
	writeEnvelope(w, r, http.StatusOK, model.Response{
		Status: "ok",
		Data:   data,
		Pagination: &model.Pagination{
			Total:   total,
			Page:    opts.Page,
			PerPage: opts.PerPage,
			HasMore: opts.Page*opts.PerPage < total,
		},
	})
}

// respondError writes apiErr with its own status, or the status of its code.
func respondError(w http.ResponseWriter, r *http.Request, apiErr *model.APIError) {
	status := apiErr.Status
	if status == 0 {
		status = statusByCode[apiErr.Code]
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	writeEnvelope(w, r, status, model.Response{Status: "error", Error: apiErr})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp model.Response) {
	resp.RequestID = RequestIDFromContext(r.Context())
	resp.Timestamp = time.Now().UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
