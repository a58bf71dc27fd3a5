package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	published BOOLEAN NOT NULL DEFAULT 1,
	owner_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY(owner_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_posts_owner_id ON posts(owner_id);
`

const postColumns = `p.id, p.title, p.content, p.published, p.owner_id, p.created_at, u.id, u.email, u.created_at`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	post.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (title, content, published, owner_id, created_at)
VALUES (?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		post.Published,
		post.OwnerID,
		post.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("owner %d: %w", post.OwnerID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+postColumns+`
FROM posts p
JOIN users u ON u.id = p.owner_id
WHERE p.id = ?`,
		id,
	)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id: %d was not found: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) GetWithVotes(ctx context.Context, id int64) (*domain.PostWithVotes, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+postColumns+`, COUNT(v.post_id)
FROM posts p
JOIN users u ON u.id = p.owner_id
LEFT JOIN votes v ON v.post_id = p.id
WHERE p.id = ?
GROUP BY p.id`,
		id,
	)

	post, err := scanPostWithVotes(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id: %d was not found: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.PostWithVotes, error) {
	// instr is case-sensitive, unlike LIKE
	rows, err := r.db.QueryContext(ctx, `
SELECT `+postColumns+`, COUNT(v.post_id)
FROM posts p
JOIN users u ON u.id = p.owner_id
LEFT JOIN votes v ON v.post_id = p.id
WHERE instr(p.title, ?) > 0
GROUP BY p.id
ORDER BY p.id ASC
LIMIT ? OFFSET ?`,
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
		post, err := scanPostWithVotes(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE posts
SET title=?, content=?, published=?
WHERE id=?`,
		post.Title,
		post.Content,
		post.Published,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("post with id: %d was not found: %w", post.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("post with id: %d was not found: %w", id, domain.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(postDest(&post)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &post, nil
}

func scanPostWithVotes(row scanner) (*domain.PostWithVotes, error) {
	var pv domain.PostWithVotes
	dest := append(postDest(&pv.Post), &pv.Votes)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &pv, nil
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
