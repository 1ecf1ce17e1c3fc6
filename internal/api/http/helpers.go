package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/certlab/protodrill/internal/errs"
	"github.com/certlab/protodrill/internal/quiz"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the error taxonomy to HTTP statuses. Unknown errors are
// internal.
func writeErr(w http.ResponseWriter, err error) {
	var ve *errs.ValidationError
	var ce *errs.CollaboratorError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, quiz.ErrAllCovered):
		writeJSONStatus(w, http.StatusNotFound, map[string]any{
			"error":       "no questions remain in group",
			"all_covered": true,
		})
	case errors.As(err, &ce):
		http.Error(w, ce.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
