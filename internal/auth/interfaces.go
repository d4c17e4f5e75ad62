package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomasvoj/taskboard/internal/user"
)

// TokenService defines the interface for access token creation and validation
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserStore defines the user persistence operations the auth layer needs
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string, fullName *string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}
