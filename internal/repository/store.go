package repository

import (
	"context"
	"fmt"
)

// Store bundles the repositories backed by one database handle.
type Store struct {
	Users UserRepository
	Posts PostRepository
	Votes VoteRepository

	// Ping checks that the underlying database is reachable.
	Ping func(ctx context.Context) error
	// Close releases the underlying database handle.
	Close func()
}

// Init creates the schema. Order matters because of foreign keys.
func (s *Store) Init(ctx context.Context) error {
	if err := s.Users.Init(ctx); err != nil {
		return fmt.Errorf("init user repository: %w", err)
	}
	if err := s.Posts.Init(ctx); err != nil {
		return fmt.Errorf("init post repository: %w", err)
	}
	if err := s.Votes.Init(ctx); err != nil {
		return fmt.Errorf("init vote repository: %w", err)
	}
	return nil
}
