package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard success body shape: {success, data, count, message}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Success writes {success: true, data: ...}.
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// SuccessCount writes {success: true, count: n, data: ...} for list responses.
func SuccessCount(w http.ResponseWriter, status int, count int, data interface{}) {
	JSON(w, status, Envelope{Success: true, Count: &count, Data: data})
}

// SuccessMessage writes {success: true, message: ...}.
func SuccessMessage(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: true, Message: message})
}

// Error writes an error response as {message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}
