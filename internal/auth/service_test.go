package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasvoj/taskboard/internal/user"
)

func newTestService(t *testing.T, store UserStore) *Service {
	t.Helper()

	tokenService, err := NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	return NewService(store, tokenService, 30*time.Minute)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"missing email", "", "secret1", ErrEmailRequired},
		{"invalid email", "not-an-email", "secret1", ErrInvalidEmailFormat},
		{"missing password", "alice@example.com", "", ErrPasswordRequired},
		{"password too short", "alice@example.com", "12345", ErrPasswordTooShort},
		{"valid", "alice@example.com", "secret1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, newFakeUserStore())

			u, err := svc.Register(context.Background(), tt.email, tt.password, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.email, u.Email)
			assert.True(t, u.IsActive)
			assert.NotEqual(t, tt.password, u.PasswordHash)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(t, store)

	_, err := svc.Register(context.Background(), "alice@example.com", "secret1", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice@example.com", "another1", nil)
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestService_Register_StoresVerifiableHash(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(t, store)

	u, err := svc.Register(context.Background(), "alice@example.com", "secret1", nil)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(u.PasswordHash, "secret1"))
}

func TestService_Login(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(t, store)

	_, err := svc.Register(context.Background(), "alice@example.com", "secret1", nil)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		tokens, err := svc.Login(context.Background(), "alice@example.com", "secret1")
		require.NoError(t, err)

		assert.Equal(t, "bearer", tokens.TokenType)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Equal(t, int64(1800), tokens.ExpiresIn)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("email is matched exactly", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "Alice@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Login_InactiveUser(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(t, store)

	u, err := svc.Register(context.Background(), "alice@example.com", "secret1", nil)
	require.NoError(t, err)

	u.IsActive = false

	_, err = svc.Login(context.Background(), "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_TokenResolvesBack(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(t, store)

	registered, err := svc.Register(context.Background(), "alice@example.com", "secret1", nil)
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	claims, err := svc.tokenService.VerifyToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID.String(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}
