package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/warmap/internal/domain"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by username

	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	if _, taken := r.users[user.Username]; taken {
		return domain.ErrUserExists
	}
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audit := NewAuditService(&fakeAuditRepo{}, logger)
	return NewAuthService(repo, audit, "test-secret", time.Hour)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "scout", "correct-horse-battery")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "scout", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct-horse-battery", user.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "ab", "correct-horse-battery"},
		{"username too long", "0123456789012345678901234567890", "correct-horse-battery"},
		{"password too short", "scout", "short"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := newTestAuthService(repo)

			_, err := svc.Register(context.Background(), tc.username, tc.password)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
			assert.Zero(t, repo.createCalls)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "scout", "correct-horse-battery")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "scout", "another-password-1")
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLogin_RoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "scout", "correct-horse-battery")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "scout", "correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "scout", "correct-horse-battery")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "scout", "wrong-password-123")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "nobody", "whatever-password")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.ValidateToken("not-a-jwt")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "scout", "correct-horse-battery")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "scout", "correct-horse-battery")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	other := NewAuthService(repo, NewAuditService(&fakeAuditRepo{}, logger), "other-secret", time.Hour)

	_, err = other.ValidateToken(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
