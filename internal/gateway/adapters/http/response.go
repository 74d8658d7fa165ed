package http

import (
	"encoding/json"
	"net/http"
)

// The gateway writes JSON only for errors it produces itself (auth failures,
// role denials, unreachable backends); everything else streams through the
// proxy untouched. The envelope matches what the backends emit so clients
// see one error shape regardless of where it originated.
type errorEnvelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"status":  "success",
		"message": message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorEnvelope{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}
