package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Error codes exposed in the stable error payload contract
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the stable error payload shape returned to clients.
// Its fields are a contract; renaming or dropping any of them breaks
// every consumer of the API.
type ErrorBody struct {
	Timestamp   string       `json:"timestamp"`
	Status      int          `json:"status"`
	Error       string       `json:"error"`
	Message     string       `json:"message"`
	Path        string       `json:"path"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// SuccessBody is the generic success envelope
type SuccessBody struct {
	Data interface{} `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with optional data
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, SuccessBody{Data: data})
}

// WriteCreated writes a 201 Created response with optional data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, SuccessBody{Data: data})
}

// WriteError writes a structured error response for the given request
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, fieldErrors []FieldError) error {
	return WriteJSON(w, status, ErrorBody{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Status:      status,
		Error:       code,
		Message:     message,
		Path:        r.URL.Path,
		FieldErrors: fieldErrors,
	})
}

// WriteUnauthorized writes a 401 response with code UNAUTHORIZED
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, message string) error {
	if message == "" {
		message = "Authentication is required to access this resource"
	}
	return WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// WriteForbidden writes a 403 response with code ACCESS_DENIED.
// The message is deliberately generic: it must not reveal which role
// would have been required.
func WriteForbidden(w http.ResponseWriter, r *http.Request) error {
	return WriteError(w, r, http.StatusForbidden, CodeAccessDenied,
		"You do not have permission to access this resource", nil)
}

// WriteBadRequest writes a 400 response
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) error {
	return WriteError(w, r, http.StatusBadRequest, CodeBadRequest, message, nil)
}

// WriteValidationFailed writes a 400 response carrying per-field errors
func WriteValidationFailed(w http.ResponseWriter, r *http.Request, fieldErrors []FieldError) error {
	return WriteError(w, r, http.StatusBadRequest, CodeValidationFailed, "Validation failed", fieldErrors)
}

// WriteNotFound writes a 404 response
func WriteNotFound(w http.ResponseWriter, r *http.Request, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteError(w, r, http.StatusNotFound, CodeNotFound, message, nil)
}

// WriteConflict writes a 409 response
func WriteConflict(w http.ResponseWriter, r *http.Request, message string) error {
	return WriteError(w, r, http.StatusConflict, CodeConflict, message, nil)
}

// WriteInternalServerError writes a 500 response
func WriteInternalServerError(w http.ResponseWriter, r *http.Request, message string) error {
	if message == "" {
		message = "An internal error occurred"
	}
	return WriteError(w, r, http.StatusInternalServerError, CodeInternal, message, nil)
}
