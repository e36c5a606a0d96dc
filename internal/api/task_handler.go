package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskboardhq/taskboard-api/internal/api/shared"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/service"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// createTaskRequest represents the request body for creating a task.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      int64  `json:"userId"`
}

// updateTaskRequest represents the request body for a partial task update.
// Absent fields leave the stored values untouched.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	UserID      *int64  `json:"userId"`
}

// updateTaskStatusRequest represents the request body for the status endpoint.
type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// GetAllTasks handles GET /api/tasks requests, with an optional userId
// query filter.
func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := getQueryInt64(r, "userId")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	tasks, err := h.taskService.GetAll(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetTaskByID handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID", nil)
		return
	}

	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Task with ID %d not found", id), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	task, err := h.taskService.Create(r.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		UserID:      req.UserID,
	})
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	h.logger.Info("task created via API",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.UserID))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID", nil)
		return
	}

	var req updateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			HandleServiceError(w, r, err, "")
			return
		}
		patch.Status = &status
	}

	task, err := h.taskService.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Task with ID %d not found", id), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/{id}/status requests.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID", nil)
		return
	}

	var req updateTaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	// The field must be present regardless of whether its value parses.
	if req.Status == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Status is required", nil)
		return
	}

	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), id, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Task with ID %d not found", id), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID", nil)
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("Task with ID %d not found", id), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
