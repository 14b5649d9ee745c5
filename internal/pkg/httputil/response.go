// Package httputil provides the JSON response helpers shared by handlers
// and middlewares.
package httputil

import (
	"encoding/json"
	"net/http"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSONResponse writes a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes {"error": code, "message": message}.
func ErrorResponse(w http.ResponseWriter, status int, code, message string) {
	JSONResponse(w, status, ErrorBody{Error: code, Message: message})
}
