package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tomasvoj/taskboard/internal/httputil"
	"github.com/tomasvoj/taskboard/internal/logging"
	"github.com/tomasvoj/taskboard/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// CurrentUserContextKey holds the resolved *user.User for the request
const CurrentUserContextKey ContextKey = "current_user"

// genericAuthMessage is returned for every authentication failure so the
// response never reveals whether the token was forged, expired, missing a
// claim, or referenced a deleted account.
const genericAuthMessage = "could not validate credentials"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	userStore    UserStore
}

func NewMiddleware(tokenService TokenService, userStore UserStore) *Middleware {
	return &Middleware{tokenService: tokenService, userStore: userStore}
}

// RequireAuth validates the bearer token and resolves it to a stored active
// user before the handler runs. Nothing downstream executes on failure.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, genericAuthMessage, httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondErrorWithCode(w, genericAuthMessage, httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(parts[1])
		if err != nil {
			logger.Warn("token verification failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, genericAuthMessage, httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			logger.Warn("token carries malformed user id")
			httputil.RespondErrorWithCode(w, genericAuthMessage, httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		currentUser, err := m.userStore.GetByID(r.Context(), userID)
		if err != nil || !currentUser.IsActive {
			logger.Warn("token subject did not resolve to an active user", "user_id", userID)
			httputil.RespondErrorWithCode(w, genericAuthMessage, httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), CurrentUserContextKey, currentUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(CurrentUserContextKey).(*user.User)
	return u, ok
}
