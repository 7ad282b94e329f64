package http

import (
	"encoding/json"
	"net/http"

	"github.com/avelez/tonewheel/internal/shared/apperror"
)

// writeError maps the error taxonomy onto HTTP statuses. Storage and
// unclassified failures render a fixed message; their detail belongs in the
// server log only.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		status = http.StatusBadRequest
	case apperror.KindConflict:
		status = http.StatusConflict
	case apperror.KindAuth:
		status = http.StatusUnauthorized
	case apperror.KindNotFound:
		status = http.StatusNotFound
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
