package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomasvoj/taskboard/internal/user"
)

// fakeUserStore is an in-memory UserStore for tests
type fakeUserStore struct {
	byEmail map[string]*user.User
	byID    map[uuid.UUID]*user.User
	err     error // returned by every call when set
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*user.User),
		byID:    make(map[uuid.UUID]*user.User),
	}
}

func (s *fakeUserStore) add(u *user.User) {
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
}

func (s *fakeUserStore) Create(ctx context.Context, email, passwordHash string, fullName *string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if _, exists := s.byEmail[email]; exists {
		return nil, user.ErrDuplicateEmail
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.add(u)
	return u, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

// noopRateLimiter never limits
type noopRateLimiter struct{}

func (noopRateLimiter) CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error) {
	return false, nil
}

func (noopRateLimiter) RecordIPRequest(ctx context.Context, ip, purpose string) error {
	return nil
}
