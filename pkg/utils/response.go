package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the structured failure envelope every endpoint returns.
type ErrorBody struct {
	ErrorKind string `json:"error_kind"`
	Detail    string `json:"detail"`
}

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError writes the structured error envelope. Detail must already be
// caller-safe; internal error text never goes through here.
func RespondError(w http.ResponseWriter, status int, kind, detail string) {
	RespondJSON(w, status, ErrorBody{ErrorKind: kind, Detail: detail})
}
