package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

const createVotesTable = `
CREATE TABLE IF NOT EXISTS votes (
	post_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	PRIMARY KEY (post_id, user_id),
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_votes_user_id ON votes(user_id);
`

type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) repository.VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVotesTable); err != nil {
		return fmt.Errorf("create votes table: %w", err)
	}
	return nil
}

func (r *VoteRepository) Create(ctx context.Context, vote domain.Vote) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO votes (post_id, user_id)
VALUES (?, ?)`,
		vote.PostID,
		vote.UserID,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("user %d has already voted on post %d: %w", vote.UserID, vote.PostID, domain.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("post with id: %d does not exist: %w", vote.PostID, domain.ErrNotFound)
	default:
		return fmt.Errorf("insert vote: %w", err)
	}
}

func (r *VoteRepository) Delete(ctx context.Context, vote domain.Vote) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM votes
WHERE post_id=? AND user_id=?`,
		vote.PostID,
		vote.UserID,
	)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("vote delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("vote does not exist: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *VoteRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE post_id=?`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}
