package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskify-app/taskify-api/internal/api/shared"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/service"
)

// TaskHandler serves the tasks of lists.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// GetTasks handles GET /tasks/{listId}.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	_, listID, ok := handleUserIDAndPathUUID(w, r, "listId")
	if !ok {
		return
	}

	tasks, err := h.tasks.GetTasks(r.Context(), listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{listId}/{taskId}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCaller(w, r); !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "listId", "taskId")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /tasks/{listId}.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, listID, ok := handleUserIDAndPathUUID(w, r, "listId")
	if !ok {
		return
	}

	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), listID, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created",
		slog.String("list_id", listID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{listId}/{taskId}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCaller(w, r); !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "listId", "taskId")
	if !ok {
		return
	}

	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), ids[0], ids[1], req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{listId}/{taskId}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCaller(w, r); !ok {
		return
	}
	ids, ok := pathUUIDs(w, r, "listId", "taskId")
	if !ok {
		return
	}

	title, err := h.tasks.DeleteTask(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, fmt.Sprintf("Task %s deleted successfully.", title))
}

// PlannedTasks handles GET /tasks/planned/{userId}.
func (h *TaskHandler) PlannedTasks(w http.ResponseWriter, r *http.Request) {
	callerID, userID, ok := handleUserIDAndPathUUID(w, r, "userId")
	if !ok {
		return
	}

	tasks, err := h.tasks.PlannedTasks(r.Context(), callerID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get planned tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// ImportantTasks handles GET /tasks/important/{userId}.
func (h *TaskHandler) ImportantTasks(w http.ResponseWriter, r *http.Request) {
	callerID, userID, ok := handleUserIDAndPathUUID(w, r, "userId")
	if !ok {
		return
	}

	tasks, err := h.tasks.ImportantTasks(r.Context(), callerID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get important tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}
