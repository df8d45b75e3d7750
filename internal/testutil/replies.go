package testutil

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ReplyJSON writes an arbitrary JSON payload with the given status.
func ReplyJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ReplyEmpty writes a 200 response with an empty MRData envelope.
func ReplyEmpty(w http.ResponseWriter) {
	ReplyJSON(w, http.StatusOK, map[string]any{
		"MRData": map[string]any{
			"series": "f1",
			"limit":  "30",
			"offset": "0",
			"total":  "0",
		},
	})
}

// ReplyRaw writes a raw JSON body with a 200 status.
func ReplyRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// ReplyServerError writes a 5xx error response.
func ReplyServerError(w http.ResponseWriter, status int, message string) {
	ReplyJSON(w, status, map[string]any{"error": message})
}

// ReplyRateLimit writes a 429 response with a Retry-After header.
func ReplyRateLimit(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	ReplyJSON(w, http.StatusTooManyRequests, map[string]any{"error": "too many requests"})
}

// ReplyNotFound writes a 404 error response.
func ReplyNotFound(w http.ResponseWriter) {
	ReplyJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
}
