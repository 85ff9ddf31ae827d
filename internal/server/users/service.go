// Package users provisions principals and authenticates requests
// against the persistent user store.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/linkmark/internal/common"
	"github.com/dmitrijs2005/linkmark/internal/logging"
	"github.com/dmitrijs2005/linkmark/internal/server/auth"
	"github.com/dmitrijs2005/linkmark/internal/server/models"
	"github.com/dmitrijs2005/linkmark/internal/server/userkeys"
)

type Service struct {
	repo      Repository
	allocator *userkeys.Allocator
	tokens    *auth.Service
	logger    logging.Logger
}

func NewService(repo Repository, allocator *userkeys.Allocator, tokens *auth.Service, logger logging.Logger) *Service {
	return &Service{
		repo:      repo,
		allocator: allocator,
		tokens:    tokens,
		logger:    logger.With("module", "user_service"),
	}
}

// Register provisions a new principal with a freshly allocated public
// user key. The user_key unique constraint in the store remains the
// authoritative uniqueness guard; the allocator's own check only avoids
// constraint-violation round-trips.
func (s *Service) Register(ctx context.Context, email, name string, isAdmin bool) (*models.User, error) {

	key, err := s.allocator.Allocate(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating user key: %w", err)
	}

	user := &models.User{
		ID:      uuid.NewString(),
		Email:   email,
		Name:    name,
		UserKey: key,
		IsAdmin: isAdmin,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_key", user.UserKey)

	return user, nil
}

// IssueToken signs a session token for the user.
func (s *Service) IssueToken(user *models.User) (string, error) {
	return s.tokens.Issue(user)
}

// Authenticate verifies the token and re-fetches the persistent
// principal. The claims are only used to locate the record; every
// authorization-sensitive field comes from the store. All verification
// failures surface as common.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	return user, nil
}
