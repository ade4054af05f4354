package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskwell/taskwell/internal/result"
)

const bodyLimit = 1 << 20 // 1 MiB

// readJSON decodes a JSON request body with a size limit. An empty body
// yields the zero value; required fields are validated by the services.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

// urlParam is a short alias for chi.URLParam.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

type errorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeResult translates an operation Result to an HTTP response. The
// success value is written with the given status; a failure maps its
// error code to the corresponding HTTP status.
func writeResult[T any](w http.ResponseWriter, successStatus int, res result.Result[T]) {
	if res.IsSuccess() {
		writeJSON(w, successStatus, res.Value())
		return
	}
	e := res.Err()
	writeJSON(w, statusFor(e.Code), errorResponse{
		Error:   e.Message,
		Code:    string(e.Code),
		Details: e.Details,
	})
}

func statusFor(code result.Code) int {
	switch code {
	case result.CodeNotFound:
		return http.StatusNotFound
	case result.CodeValidation:
		return http.StatusBadRequest
	case result.CodeBusinessRule:
		return http.StatusUnprocessableEntity
	case result.CodeConflict:
		return http.StatusConflict
	case result.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
