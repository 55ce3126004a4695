package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskify-app/taskify-api/internal/api/shared"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/service"
)

// AuthHandler handles registration, sessions and password recovery.
type AuthHandler struct {
	users    service.UserService
	sessions service.SessionService
	resets   service.PasswordResetService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	sessions service.SessionService,
	resets service.PasswordResetService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		resets:   resets,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// Login handles POST /users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("session issued",
		slog.String("user_id", session.UserID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		UserID:       session.UserID,
	})
}

// RefreshToken handles POST /users/refreshToken and POST /auth/refreshToken.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	// A missing body is a missing token, which Refresh reports as 401.
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	accessToken, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{AccessToken: accessToken})
}

// Logout handles POST /users/{userId}/logout. Repeated calls succeed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelfPath(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Logout(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "User logged out successfully")
}

// ForgotPassword handles POST /auth/forgotPassword.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.resets.RequestReset(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err, "Failed to send reset email")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Email sent successfully")
}

// ResetPassword handles PUT /auth/resetPassword.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.resets.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "Failed to reset password")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Password reset successfully")
}
