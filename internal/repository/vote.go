package repository

import (
	"context"

	"posts-service/internal/domain"
)

// VoteRepository persists the presence or absence of a (post, user) vote.
type VoteRepository interface {
	Init(ctx context.Context) error
	// Create inserts the vote in one statement. A duplicate yields domain.ErrConflict,
	// a missing post domain.ErrNotFound.
	Create(ctx context.Context, vote domain.Vote) error
	// Delete removes the vote or returns domain.ErrNotFound when there was none.
	Delete(ctx context.Context, vote domain.Vote) error
	CountByPost(ctx context.Context, postID int64) (int64, error)
}
