package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"posts-service/internal/repository"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
// Foreign keys are switched on per connection through the DSN so cascades always apply.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// single writer; sqlite serialises writes anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return db, nil
}

// NewStore wires all sqlite repositories onto db.
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Users: NewUserRepository(db),
		Posts: NewPostRepository(db),
		Votes: NewVoteRepository(db),
		Ping: func(ctx context.Context) error {
			return db.PingContext(ctx)
		},
		Close: func() {
			_ = db.Close()
		},
	}
}
