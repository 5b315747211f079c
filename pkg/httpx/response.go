package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteEnvelope writes the uniform response shape used by every endpoint:
// {"code": ..., "message": ...} with any endpoint-specific fields from data
// flattened alongside. The envelope code doubles as the HTTP status.
func WriteEnvelope(w http.ResponseWriter, code int, message string, data map[string]any) {
	body := make(map[string]any, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["code"] = code
	body["message"] = message
	WriteJSON(w, code, body)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses carrying session tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
