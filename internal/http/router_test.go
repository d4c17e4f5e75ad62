package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasvoj/taskboard/internal/auth"
	"github.com/tomasvoj/taskboard/internal/config"
	"github.com/tomasvoj/taskboard/internal/logging"
	"github.com/tomasvoj/taskboard/internal/notify"
	"github.com/tomasvoj/taskboard/internal/task"
	"github.com/tomasvoj/taskboard/internal/user"
)

// emptyUserStore satisfies auth.UserStore with a single static user
type emptyUserStore struct{}

func (emptyUserStore) Create(ctx context.Context, email, passwordHash string, fullName *string) (*user.User, error) {
	return &user.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, IsActive: true}, nil
}

func (emptyUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (emptyUserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, user.ErrNotFound
}

// emptyTaskStore satisfies task.Store with no data
type emptyTaskStore struct{}

func (emptyTaskStore) Create(ctx context.Context, userID uuid.UUID, title string, description *string, priority task.Priority, status task.Status) (*task.Task, error) {
	return &task.Task{ID: uuid.New(), UserID: userID, Title: title, Priority: priority, Status: status}, nil
}

func (emptyTaskStore) ListByOwner(ctx context.Context, userID uuid.UUID, filter task.ListFilter) ([]*task.Task, error) {
	return nil, nil
}

func (emptyTaskStore) SearchByOwner(ctx context.Context, userID uuid.UUID, query string) ([]*task.Task, error) {
	return nil, nil
}

func (emptyTaskStore) GetByOwner(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	return nil, task.ErrNotFound
}

func (emptyTaskStore) UpdateByOwner(ctx context.Context, t *task.Task) (*task.Task, error) {
	return nil, task.ErrNotFound
}

func (emptyTaskStore) DeleteByOwner(ctx context.Context, userID, taskID uuid.UUID) error {
	return task.ErrNotFound
}

// noopQueue drops every job
type noopQueue struct{}

func (noopQueue) Enqueue(ctx context.Context, job notify.Job) (uuid.UUID, error) {
	return uuid.New(), nil
}

type noopLimiter struct{}

func (noopLimiter) CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error) {
	return false, nil
}

func (noopLimiter) RecordIPRequest(ctx context.Context, ip, purpose string) error {
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = "prod"
	cfg.Server.TrustedOrigins = []string{"http://localhost:3000"}

	logger := logging.NewLogger(true)

	tokenService, err := auth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	authService := auth.NewService(emptyUserStore{}, tokenService, 30*time.Minute)
	authHandler := auth.NewHandler(authService, noopLimiter{})
	authMiddleware := auth.NewMiddleware(tokenService, emptyUserStore{})

	dispatcher := notify.NewDispatcher(noopQueue{}, logger)
	taskService := task.NewService(emptyTaskStore{}, dispatcher)
	taskHandler := task.NewHandler(taskService)

	return NewRouter(cfg, authHandler, authMiddleware, taskHandler, logger)
}

func TestRouter_Root(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Taskboard API", body["message"])
	assert.Equal(t, "/health", body["health"])
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeaders_SwaggerCSP(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self' 'unsafe-inline'")
}

func TestRouter_ProtectedRoutesRejectAnonymous(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SwaggerDisabledOutsideDev(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
