package handlers

import (
	"net/http"

	"tagfeed/internal/apperror"
	"tagfeed/internal/service"
)

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	// Getting the user from the context
	userID, ok := service.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, apperror.Authentication("Authentication required"))
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "User retrieved successfully", user)
}
