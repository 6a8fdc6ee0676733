package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sqlgen/internal/domain"
	"sqlgen/internal/middleware"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Code      int      `json:"code"`
	Error     string   `json:"error"`
	Missing   []string `json:"missing,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes it as an errorResponse.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.HTTPStatus(err)
	body := errorResponse{
		Code:      status,
		Error:     err.Error(),
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}
	var missing *domain.MandatoryFieldMissingError
	if errors.As(err, &missing) {
		body.Missing = missing.Columns
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "request_id", body.RequestID, "error", err)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

// decodeJSON reads one JSON object from the request body. Unknown fields
// and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrValidation("request body is empty")
		}
		return domain.ErrValidation("invalid request body: %v", err)
	}
	if dec.More() {
		return domain.ErrValidation("invalid request body: unexpected data after JSON object")
	}
	return nil
}

// modeOrDefault parses an optional request mode.
func (h *APIHandler) modeOrDefault(s string) (domain.Mode, error) {
	if s == "" {
		return h.mode, nil
	}
	mode, err := domain.ParseMode(s)
	if err != nil {
		return 0, domain.ErrValidation("%v", err)
	}
	return mode, nil
}

func requireField(name, value string) error {
	if value == "" {
		return domain.ErrValidation("%s is required", name)
	}
	return nil
}

