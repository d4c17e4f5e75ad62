package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tomasvoj/taskboard/internal/auth"
	"github.com/tomasvoj/taskboard/internal/httputil"
	"github.com/tomasvoj/taskboard/internal/logging"
)

// Handler contains HTTP handlers for task endpoints. All routes are mounted
// behind auth.Middleware.RequireAuth, so the caller is always resolved.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// CreateTaskRequest represents the task creation request body
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
}

// UpdateTaskRequest represents a partial task update; omitted fields are
// untouched. Description accepts an explicit null to clear it.
type UpdateTaskRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=1,max=255"`
	Description OptionalString `json:"description"`
	Priority    *string        `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string        `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
}

// Create handles task creation
// @Summary      Create a task
// @Description  Create a new task for the authenticated user. A notification job is queued in the background.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body CreateTaskRequest true "Task payload"
// @Security     BearerAuth
// @Success      201 {object} Task
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	caller, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.Warn("task creation validation failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, validationMessage(err), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), caller, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    Priority(req.Priority),
		Status:      Status(req.Status),
	})
	if err != nil {
		h.respondServiceError(w, r, err, "failed to create task")
		return
	}

	logger.Info("task created", "task_id", created.ID, "user_id", caller.ID)
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// List handles task listing with optional filters
// @Summary      List tasks
// @Description  List the authenticated user's tasks, newest first, optionally filtered by status and priority
// @Tags         tasks
// @Produce      json
// @Param        status   query string false "Filter by status"   Enums(pending, in-progress, completed)
// @Param        priority query string false "Filter by priority" Enums(low, medium, high)
// @Security     BearerAuth
// @Success      200 {array} Task
// @Failure      400 {object} httputil.ErrorResponse "Invalid filter value"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var filter ListFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("priority"); raw != "" {
		priority := Priority(raw)
		filter.Priority = &priority
	}

	tasks, err := h.service.List(r.Context(), caller.ID, filter)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to list tasks")
		return
	}

	httputil.RespondJSON(w, tasks, http.StatusOK)
}

// Search handles free-text task search
// @Summary      Search tasks
// @Description  Case-insensitive substring search across title and description of the authenticated user's tasks
// @Tags         tasks
// @Produce      json
// @Param        q query string true "Search query"
// @Security     BearerAuth
// @Success      200 {array} Task
// @Failure      400 {object} httputil.ErrorResponse "Missing query"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /tasks/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	tasks, err := h.service.Search(r.Context(), caller.ID, r.URL.Query().Get("q"))
	if err != nil {
		h.respondServiceError(w, r, err, "failed to search tasks")
		return
	}

	httputil.RespondJSON(w, tasks, http.StatusOK)
}

// Get handles fetching a single task
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Security     BearerAuth
// @Success      200 {object} Task
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /tasks/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	taskID, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), caller.ID, taskID)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to get task")
		return
	}

	httputil.RespondJSON(w, found, http.StatusOK)
}

// Update handles partial task updates
// @Summary      Update a task
// @Description  Update only the supplied fields of the authenticated user's task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to update"
// @Security     BearerAuth
// @Success      200 {object} Task
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /tasks/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	caller, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	taskID, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger.Warn("task update validation failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, validationMessage(err), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	in := UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		priority := Priority(*req.Priority)
		in.Priority = &priority
	}
	if req.Status != nil {
		status := Status(*req.Status)
		in.Status = &status
	}

	updated, err := h.service.Update(r.Context(), caller.ID, taskID, in)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to update task")
		return
	}

	logger.Info("task updated", "task_id", updated.ID, "user_id", caller.ID)
	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles task deletion
// @Summary      Delete a task
// @Tags         tasks
// @Param        id path string true "Task ID"
// @Security     BearerAuth
// @Success      204 "No Content"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	caller, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	taskID, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller.ID, taskID); err != nil {
		h.respondServiceError(w, r, err, "failed to delete task")
		return
	}

	logger.Info("task deleted", "task_id", taskID, "user_id", caller.ID)
	w.WriteHeader(http.StatusNoContent)
}

// pathTaskID parses the {id} URL parameter, writing a 400 on malformed ids
func (h *Handler) pathTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeValidationFailed, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return taskID, true
}

// respondServiceError maps service errors to HTTP responses
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	logger := logging.GetLoggerFromContext(r.Context())

	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "task not found", httputil.CodeNotFound, http.StatusNotFound)
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrTitleTooLong),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrEmptyQuery):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
	default:
		logger.Error(internalMsg, "error", err.Error())
		httputil.RespondErrorWithCode(w, internalMsg, httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

// validationMessage flattens a validator error into a single client-safe line
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "validation failed"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " is too long"
	case "min":
		return fe.Field() + " is too short"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	}
	return fe.Field() + " is invalid"
}
