package repository

import (
	"context"

	"posts-service/internal/domain"
)

// PostRepository exposes persistence operations for posts and their vote counts.
// Ownership rules are enforced by the service layer, not here.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) (int64, error)
	// Get returns the post with its owner summary, or domain.ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Post, error)
	// GetWithVotes is Get plus the aggregated vote count.
	GetWithVotes(ctx context.Context, id int64) (*domain.PostWithVotes, error)
	// List left-joins votes so posts without votes are reported with zero, ordered by id.
	List(ctx context.Context, filter domain.PostFilter) ([]domain.PostWithVotes, error)
	// Update overwrites title, content and published. Returns domain.ErrNotFound if the row is gone.
	Update(ctx context.Context, post *domain.Post) error
	// Delete removes the post; its votes go with it through the foreign key.
	Delete(ctx context.Context, id int64) error
}
