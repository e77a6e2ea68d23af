package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	authService "github.com/voluntr/volunteer-api/internal/service/auth"
	jwtauth "github.com/voluntr/volunteer-api/pkg/auth"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func newService(repo *fakeUserRepo) *authService.Service {
	jwtSvc := jwtauth.NewJWTService("test-secret", time.Hour)
	return authService.NewService(repo, jwtSvc, nil, nil, logger.NewLogger(nil))
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct-horse",
		Role:     "volunteer",
	}
}

func TestRegisterCreatesActiveUser(t *testing.T) {
	svc := newService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, model.RoleVolunteer, user.Role)
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newService(newFakeUserRepo())

	req := registerRequest()
	req.Role = "admin"
	_, err := svc.Register(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestLoginReturnsToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Empty(t, resp.User.PasswordHash)
	assert.NotNil(t, resp.User.LastLoginAt)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, model.RoleVolunteer, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(context.Background(), user.ID, model.UserStatusInactive))

	_, err = svc.Login(context.Background(), "alice@example.com", "correct-horse")
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
