package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type UserHandler struct {
	Users usecase.UserRepositoryInterface
}

func NewUserHandler(users usecase.UserRepositoryInterface) *UserHandler {
	return &UserHandler{Users: users}
}

// List exposes the user directory for assignment pickers.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
