package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkmark/internal/common"
	"github.com/dmitrijs2005/linkmark/internal/logging"
	"github.com/dmitrijs2005/linkmark/internal/server/auth"
	"github.com/dmitrijs2005/linkmark/internal/server/config"
	"github.com/dmitrijs2005/linkmark/internal/server/models"
	"github.com/dmitrijs2005/linkmark/internal/server/userkeys"
)

type fakeRepo struct {
	byID      map[string]*models.User
	keys      map[string]struct{}
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*models.User{}, keys: map[string]struct{}{}}
}

func (r *fakeRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	user.CreatedAt = time.Now()
	r.byID[user.ID] = user
	r.keys[user.UserKey] = struct{}{}
	return user, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (r *fakeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeRepo) ExistsByUserKey(_ context.Context, key string) (bool, error) {
	_, ok := r.keys[key]
	return ok, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := &config.Config{
		TokenSecretKey:        strings.Repeat("k", config.MinSecretKeyLength),
		TokenValidityDuration: time.Hour,
	}
	tokens := auth.NewService(cfg)
	allocator := userkeys.NewAllocator(repo, logger)
	return NewService(repo, allocator, tokens, logger), repo
}

func TestRegister_AllocatesKeyAndPersists(t *testing.T) {
	s, repo := newTestService(t)

	user, err := s.Register(context.Background(), "alice@example.com", "Alice", false)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Len(t, user.UserKey, 4, "first principals get 4-character keys")
	assert.Contains(t, repo.byID, user.ID)
}

func TestRegister_KeysAreUnique(t *testing.T) {
	s, _ := newTestService(t)

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		user, err := s.Register(context.Background(), "u@example.com", "U", false)
		require.NoError(t, err)
		_, dup := seen[user.UserKey]
		require.False(t, dup, "duplicate user key %q", user.UserKey)
		seen[user.UserKey] = struct{}{}
	}
}

func TestRegister_CreateErrorPropagates(t *testing.T) {
	s, repo := newTestService(t)
	repo.createErr = errors.New("unique violation")

	_, err := s.Register(context.Background(), "a@example.com", "A", false)
	require.Error(t, err)
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	s, _ := newTestService(t)

	user, err := s.Register(context.Background(), "alice@example.com", "Alice", true)
	require.NoError(t, err)

	token, err := s.IssueToken(user)
	require.NoError(t, err)

	got, err := s.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.UserKey, got.UserKey)
	assert.True(t, got.IsAdmin)
}

func TestAuthenticate_AdminFlagComesFromStore(t *testing.T) {
	s, repo := newTestService(t)

	user, err := s.Register(context.Background(), "alice@example.com", "Alice", true)
	require.NoError(t, err)

	token, err := s.IssueToken(user)
	require.NoError(t, err)

	// Admin revoked after the token was issued: the stale claim must
	// not win over the store.
	repo.byID[user.ID].IsAdmin = false

	got, err := s.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	s, repo := newTestService(t)

	user, err := s.Register(context.Background(), "alice@example.com", "Alice", false)
	require.NoError(t, err)

	token, err := s.IssueToken(user)
	require.NoError(t, err)

	delete(repo.byID, user.ID)

	_, err = s.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
