package api

import (
	"net/http"

	"github.com/taskify-app/taskify-api/internal/api/shared"
	"github.com/taskify-app/taskify-api/internal/service"
)

// UserHandler serves the caller's profile.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetUser handles GET /users/{userId}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelfPath(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Rename handles PUT /users/{userId}/name.
func (h *UserHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelfPath(w, r)
	if !ok {
		return
	}

	var req RenameUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.users.Rename(r.Context(), userID, req.NewName); err != nil {
		HandleAPIError(w, r, err, "Failed to update name")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Name updated successfully")
}

// ChangePassword handles PUT /users/{userId}/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelfPath(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "Failed to update password")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Password updated successfully")
}
