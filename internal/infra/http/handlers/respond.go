package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps the use case failure taxonomy onto HTTP statuses.
// Anything untyped is a 500 with a generic body.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case usecase.IsValidationError(err), usecase.IsInvalidEnumError(err), usecase.IsIndexError(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case usecase.IsNotFoundError(err):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
