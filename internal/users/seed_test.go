package users

import (
	"context"
	"io"
	"testing"

	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/errors"
	"github.com/aulaeco/recicla-backend/pkg/logger"
	"github.com/aulaeco/recicla-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsersRepo struct {
	byUsername map[string]*models.User
	created    []*models.User
	nextID     uint
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{byUsername: map[string]*models.User{}, nextID: 1}
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	for _, user := range s.byUsername {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, errors.New(errors.CodeNotFound, "user not found")
}

func (s *stubUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, errors.New(errors.CodeNotFound, "user not found")
}

func (s *stubUsersRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.byUsername[user.Username] = user
	s.created = append(s.created, user)
	return nil
}

func (s *stubUsersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.byUsername)), nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestEnsureDemoUsersCreatesFullRoster(t *testing.T) {
	repo := newStubUsersRepo()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	err := EnsureDemoUsers(context.Background(), repo, testPasswordConfig(), logg)
	require.NoError(t, err)
	require.Len(t, repo.created, 4)

	admin := repo.created[0]
	assert.Equal(t, uint(1), admin.ID)
	assert.Equal(t, "Santiago", admin.Username)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	recyclers := repo.created[1:]
	for i, want := range []string{"Julian", "Anita", "Mauricio"} {
		assert.Equal(t, want, recyclers[i].Username)
		assert.Equal(t, models.RoleUser, recyclers[i].Role)
		assert.Equal(t, uint(i+2), recyclers[i].ID)
	}

	ok, err := security.VerifyPassword("julian123", repo.byUsername["Julian"].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureDemoUsersIsIdempotent(t *testing.T) {
	repo := newStubUsersRepo()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	require.NoError(t, EnsureDemoUsers(context.Background(), repo, testPasswordConfig(), logg))
	require.NoError(t, EnsureDemoUsers(context.Background(), repo, testPasswordConfig(), logg))

	assert.Len(t, repo.created, 4, "second run must not duplicate accounts")
}
