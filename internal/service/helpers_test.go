package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"posts-service/internal/auth"
	"posts-service/internal/domain"
	"posts-service/internal/repository"
	"posts-service/internal/repository/sqlite"
)

type fixture struct {
	db     *sql.DB
	store  *repository.Store
	tokens *auth.TokenIssuer
	users  UserService
	guard  Guard
	posts  PostService
	votes  VoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "posts.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: "test", TTL: time.Hour})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	guard := NewGuard(tokens, store.Users)
	return &fixture{
		db:     db,
		store:  store,
		tokens: tokens,
		users:  NewUserService(store.Users, auth.NewPasswordHasher(bcrypt.MinCost)),
		guard:  guard,
		posts:  NewPostService(store.Posts, guard, PostOptions{}),
		votes:  NewVoteService(store.Votes),
	}
}

func (f *fixture) register(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func (f *fixture) createPost(t *testing.T, owner *domain.User, title, content string) *domain.Post {
	t.Helper()
	post, err := f.posts.Create(context.Background(), owner.ID, domain.PostInput{Title: title, Content: content, Published: true})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}
