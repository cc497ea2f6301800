package core

import (
	"encoding/json"
	"maps"
	"net/http"
)

// JSONResponse is the standard JSON response structure
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// WriteJSON renders data inside the standard envelope with the given
// status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{Data: data})
}

// WriteJSONError renders an error inside the standard envelope. The
// status and key come from the error's type: ValidationError maps to
// 422 with per-field details, HTTPError carries its own code and key,
// anything else is an internal server error. When verbose is true the
// underlying error text is included; in production it stays generic.
func WriteJSONError(w http.ResponseWriter, err error, verbose bool) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Code:    "internal_error",
		Message: http.StatusText(status),
	}

	switch typed := err.(type) {
	case ValidationError:
		status = http.StatusUnprocessableEntity
		detail.Code = "validation_error"
		detail.Message = "Validation failed"
		if len(typed) > 0 {
			detail.Details = make(map[string][]string)
			maps.Copy(detail.Details, typed)
		}
	case HTTPError:
		status = typed.Code
		detail.Code = typed.Key
		detail.Message = http.StatusText(typed.Code)
	default:
		if verbose {
			detail.Message = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{Error: detail})
}
