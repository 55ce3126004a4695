package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/api/shared"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/service/auth"
)

// getUserIDFromContext extracts the authenticated user's UUID from the request context.
// The user ID is placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrValidation, paramName)
	}

	return id, nil
}

// requireCaller returns the authenticated caller, writing a 401 when the
// request carries no identity.
func requireCaller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUIDs parses the named path parameters in order, writing a 400 for the
// first one that is missing or malformed.
func pathUUIDs(w http.ResponseWriter, r *http.Request, paramNames ...string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(paramNames))
	for _, name := range paramNames {
		id, err := getPathUUID(r, name)
		if err != nil {
			logger.FromContext(r.Context()).Debug("invalid path parameter",
				slog.String("param_name", name),
				slog.String("value", chi.URLParam(r, name)))
			HandleAPIError(w, r, err, "")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// handleUserIDAndPathUUID extracts both the caller from context and one UUID
// from the path. It writes an error response if either extraction fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireCaller(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	ids, ok := pathUUIDs(w, r, paramName)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, ids[0], true
}

// decodeAndValidate reads the JSON body into v and runs struct validation,
// writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// requireSelfPath checks that the {userId} path parameter names the caller.
func requireSelfPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	callerID, pathID, ok := handleUserIDAndPathUUID(w, r, "userId")
	if !ok {
		return uuid.Nil, false
	}
	if callerID != pathID {
		HandleAPIError(w, r, fmt.Errorf("%w: users may only act on their own account", domain.ErrForbidden), "")
		return uuid.Nil, false
	}
	return callerID, true
}
