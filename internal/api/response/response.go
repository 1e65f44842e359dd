package response

import (
	"encoding/json"
	"net/http"
)

// Fields are the payload keys written next to "success".
type Fields map[string]any

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, fields Fields) {
	writeSuccess(w, http.StatusOK, fields)
}

func Created(w http.ResponseWriter, fields Fields) {
	writeSuccess(w, http.StatusCreated, fields)
}

// Collection writes a page of items under key with its size and the number of
// matches before pagination.
func Collection(w http.ResponseWriter, key string, items any, count, total int) {
	writeSuccess(w, http.StatusOK, Fields{key: items, "count": count, "total": total})
}

func Message(w http.ResponseWriter, msg string) {
	writeSuccess(w, http.StatusOK, Fields{"message": msg})
}

func Error(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
	})
}

func writeSuccess(w http.ResponseWriter, status int, fields Fields) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
