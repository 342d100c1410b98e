// Package httputil writes the JSON and HTML responses of the survey API.
//
// Every error body has the shape {"error": code, "message": text} with an
// optional "details" member; see types.ErrorResponse.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/getmockd/surveyd/pkg/api/types"
)

// Content types written by this package.
const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// encodeFailure is written when a response value cannot be marshalled.
var encodeFailure = []byte(`{"error":"internal_error","message":"response could not be encoded"}` + "\n")

// WriteJSON marshals data and writes it with status. A nil data writes
// headers only. If marshalling fails the client gets a 500 instead of a
// truncated body.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	if data == nil {
		w.WriteHeader(status)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodeFailure)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// WriteHTML writes a rendered page.
func WriteHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteError writes an error body with status.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, types.ErrorResponse{Error: errCode, Message: message})
}

// WriteErrorWithDetails writes an error body carrying details, such as the
// per-field problems of a failed validation.
func WriteErrorWithDetails(w http.ResponseWriter, status int, errCode, message string, details any) {
	WriteJSON(w, status, types.ErrorResponse{Error: errCode, Message: message, Details: details})
}

// WriteCreated writes a 201 with the new resource.
func WriteCreated(w http.ResponseWriter, data any) { WriteJSON(w, http.StatusCreated, data) }

// WriteOK writes a 200 with data.
func WriteOK(w http.ResponseWriter, data any) { WriteJSON(w, http.StatusOK, data) }

// WriteBadRequest writes a 400 error.
func WriteBadRequest(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusBadRequest, errCode, message)
}

// WriteNotFound writes a 404 error.
func WriteNotFound(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusNotFound, errCode, message)
}

// WriteUnsupportedMediaType writes a 415 error.
func WriteUnsupportedMediaType(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusUnsupportedMediaType, errCode, message)
}

// WriteTooManyRequests writes a 429 error.
func WriteTooManyRequests(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusTooManyRequests, errCode, message)
}

// WriteInternalError writes a 500 error.
func WriteInternalError(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusInternalServerError, errCode, message)
}
