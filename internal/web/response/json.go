package response

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the body of operations that return no resource
type MessageResponse struct {
	Message string `json:"message"`
}

// RenderJSON writes payload as JSON with the given status
func RenderJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	writeJSON(w, statusCode, payload)
}

// RenderMessage writes a {"message": ...} body with status 200
func RenderMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
