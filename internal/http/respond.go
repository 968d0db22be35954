package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/log"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes the standard {"message": ...} error envelope.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// serverError logs the underlying failure and returns a generic 500 body.
// Internal details never reach the client.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.ErrorContext(r.Context(), "Request failed",
		log.FieldOperation, op,
		log.FieldError, err,
		log.FieldPath, r.URL.Path)
	writeMessage(w, http.StatusInternalServerError, "Server error")
}
