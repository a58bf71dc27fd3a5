package service

import (
	"context"
	"errors"
	"fmt"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Guard derives the acting user from a token and enforces ownership.
type Guard interface {
	Identify(ctx context.Context, token string) (*domain.User, error)
	RequireOwner(ownerID, actorID int64) error
}

type guard struct {
	tokens TokenVerifier
	users  repository.UserRepository
}

func NewGuard(tokens TokenVerifier, users repository.UserRepository) Guard {
	return &guard{tokens: tokens, users: users}
}

func (g *guard) Identify(ctx context.Context, token string) (*domain.User, error) {
	userID, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// RequireOwner must only be called once the resource is known to exist,
// so that missing resources report ErrNotFound rather than ErrForbidden.
func (g *guard) RequireOwner(ownerID, actorID int64) error {
	if ownerID != actorID {
		return domain.ErrForbidden
	}
	return nil
}
