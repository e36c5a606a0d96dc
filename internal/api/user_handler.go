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

// createUserRequest represents the request body for creating a user.
type createUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// updateUserRequest represents the request body for a partial user update.
// Absent fields leave the stored values untouched.
type updateUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// GetAllUsers handles GET /api/users requests.
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAll(r.Context())
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// GetUserByID handles GET /api/users/{id} requests.
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("User with ID %d not found", id), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// CreateUser handles POST /api/users requests.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	user, err := h.userService.Create(r.Context(), req.Email, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict,
				fmt.Sprintf("User with email %s already exists", req.Email), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	h.logger.Info("user created via API", slog.Int64("user_id", user.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/users/{id} requests.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req updateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	user, err := h.userService.Update(r.Context(), id, domain.UserPatch{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("User with ID %d not found", id), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/{id} requests.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound,
				fmt.Sprintf("User with ID %d not found", id), nil)
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
