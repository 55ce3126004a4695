package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskify-app/taskify-api/internal/api/shared"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/service"
)

// ListHandler serves the caller's lists.
type ListHandler struct {
	lists  service.ListService
	logger *slog.Logger
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists service.ListService, logger *slog.Logger) *ListHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListHandler{
		lists:  lists,
		logger: logger.With(slog.String("component", "list_handler")),
	}
}

// GetLists handles GET /lists.
func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	views, err := h.lists.GetUserLists(r.Context(), callerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get lists")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listsToResponse(views))
}

// GetList handles GET /lists/{listId}.
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	callerID, listID, ok := handleUserIDAndPathUUID(w, r, "listId")
	if !ok {
		return
	}

	view, err := h.lists.GetList(r.Context(), callerID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listToResponse(view))
}

// CreateList handles POST /lists.
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreateListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.lists.CreateList(r.Context(), callerID, service.CreateListInput{
		Title:         req.Title,
		Daily:         req.Daily,
		Collaborators: req.CollaboratorsEmails,
		Fixed:         req.Fixed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create list")
		return
	}

	log.Debug("list created", slog.String("list_id", view.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, listToResponse(view))
}

// UpdateList handles PUT /lists/{listId}.
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	callerID, listID, ok := handleUserIDAndPathUUID(w, r, "listId")
	if !ok {
		return
	}

	var req UpdateListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.lists.UpdateList(r.Context(), callerID, listID, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listToResponse(view))
}

// DeleteList handles DELETE /lists/{listId}. Owners delete the list;
// collaborators leave it.
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, listID, ok := handleUserIDAndPathUUID(w, r, "listId")
	if !ok {
		return
	}

	result, err := h.lists.DeleteList(r.Context(), callerID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete list")
		return
	}

	var message string
	switch result.Action {
	case domain.DeleteActionLeave:
		message = fmt.Sprintf("You left the list %s.", result.Title)
	default:
		message = fmt.Sprintf("List %s deleted successfully.", result.Title)
	}

	log.Debug("list delete handled",
		slog.String("list_id", listID.String()),
		slog.Int("action", int(result.Action)))
	shared.RespondWithMessage(w, r, http.StatusOK, message)
}
