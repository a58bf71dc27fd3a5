package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

const createVotesTable = `
CREATE TABLE IF NOT EXISTS votes (
	post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	PRIMARY KEY (post_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_votes_user_id ON votes(user_id);
`

type VoteRepository struct {
	pool *pgxpool.Pool
}

func NewVoteRepository(pool *pgxpool.Pool) repository.VoteRepository {
	return &VoteRepository{pool: pool}
}

func (r *VoteRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createVotesTable); err != nil {
		return fmt.Errorf("create votes table: %w", err)
	}
	return nil
}

func (r *VoteRepository) Create(ctx context.Context, vote domain.Vote) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO votes (post_id, user_id)
VALUES ($1, $2)`,
		vote.PostID,
		vote.UserID,
	)
	if err == nil {
		return nil
	}
	switch pgCode(err) {
	case uniqueViolation:
		return fmt.Errorf("user %d has already voted on post %d: %w", vote.UserID, vote.PostID, domain.ErrConflict)
	case foreignKeyViolation:
		return fmt.Errorf("post with id: %d does not exist: %w", vote.PostID, domain.ErrNotFound)
	default:
		return fmt.Errorf("insert vote: %w", err)
	}
}

func (r *VoteRepository) Delete(ctx context.Context, vote domain.Vote) error {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM votes
WHERE post_id=$1 AND user_id=$2`,
		vote.PostID,
		vote.UserID,
	)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote does not exist: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *VoteRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE post_id=$1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}
