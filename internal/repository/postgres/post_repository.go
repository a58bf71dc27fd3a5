package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	published BOOLEAN NOT NULL DEFAULT TRUE,
	owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_posts_owner_id ON posts(owner_id);
`

const postColumns = `p.id, p.title, p.content, p.published, p.owner_id, p.created_at, u.id, u.email, u.created_at`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) repository.PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	err := r.pool.QueryRow(ctx, `
INSERT INTO posts (title, content, published, owner_id)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`,
		post.Title,
		post.Content,
		post.Published,
		post.OwnerID,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return 0, fmt.Errorf("owner %d: %w", post.OwnerID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return post.ID, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	err := r.pool.QueryRow(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.owner_id
WHERE p.id = $1`,
		id,
	).Scan(postDest(&post)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post with id: %d was not found: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) GetWithVotes(ctx context.Context, id int64) (*domain.PostWithVotes, error) {
	var pv domain.PostWithVotes
	err := r.pool.QueryRow(ctx, `
SELECT `+postColumns+`, COUNT(v.post_id)
FROM posts p
JOIN users u ON u.id = p.owner_id
LEFT JOIN votes v ON v.post_id = p.id
WHERE p.id = $1
GROUP BY p.id, u.id`,
		id,
	).Scan(append(postDest(&pv.Post), &pv.Votes)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post with id: %d was not found: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &pv, nil
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.PostWithVotes, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+postColumns+`, COUNT(v.post_id)
FROM posts p
JOIN users u ON u.id = p.owner_id
LEFT JOIN votes v ON v.post_id = p.id
WHERE strpos(p.title, $1) > 0
GROUP BY p.id, u.id
ORDER BY p.id ASC
LIMIT $2 OFFSET $3`,
		filter.Search,
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.PostWithVotes{}
	for rows.Next() {
		var pv domain.PostWithVotes
		if err := rows.Scan(append(postDest(&pv.Post), &pv.Votes)...); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, pv)
	}

	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE posts
SET title=$1, content=$2, published=$3
WHERE id=$4`,
		post.Title,
		post.Content,
		post.Published,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post with id: %d was not found: %w", post.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post with id: %d was not found: %w", id, domain.ErrNotFound)
	}
	return nil
}

func postDest(post *domain.Post) []any {
	return []any{
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Published,
		&post.OwnerID,
		&post.CreatedAt,
		&post.Owner.ID,
		&post.Owner.Email,
		&post.Owner.CreatedAt,
	}
}
