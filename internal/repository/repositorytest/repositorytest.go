// Package repositorytest holds behaviour checks shared by every repository.Store backend.
package repositorytest

import (
	"context"
	"errors"
	"testing"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

// Run executes the shared checks. newStore must return an initialised, empty store.
func Run(t *testing.T, newStore func(t *testing.T) *repository.Store) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, store *repository.Store)
	}{
		{"users", testUsers},
		{"vote counts", testVoteCounts},
		{"title search", testTitleSearch},
		{"missing rows", testMissingRows},
		{"vote constraints", testVoteConstraints},
		{"delete cascades votes", testDeleteCascades},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c.fn(t, newStore(t))
		})
	}
}

func mustUser(t *testing.T, store *repository.Store, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, PasswordHash: "hash"}
	if _, err := store.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustPost(t *testing.T, store *repository.Store, post *domain.Post) *domain.Post {
	t.Helper()
	if _, err := store.Posts.Create(context.Background(), post); err != nil {
		t.Fatalf("create post %q: %v", post.Title, err)
	}
	return post
}

func testUsers(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	user := mustUser(t, store, "a@x.com")
	if user.ID == 0 || user.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", user)
	}

	if _, err := store.Users.Create(ctx, &domain.User{Email: "a@x.com", PasswordHash: "h"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	byEmail, err := store.Users.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", byEmail)
	}

	if _, err := store.Users.GetByEmail(ctx, "b@x.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound by email, got %v", err)
	}
	if _, err := store.Users.GetByID(ctx, user.ID+1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testVoteCounts(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	a := mustUser(t, store, "a@x.com")
	b := mustUser(t, store, "b@x.com")

	first := mustPost(t, store, &domain.Post{Title: "first", Content: "c", Published: true, OwnerID: a.ID})
	second := mustPost(t, store, &domain.Post{Title: "second", Content: "c", Published: false, OwnerID: b.ID})

	for _, v := range []domain.Vote{{PostID: second.ID, UserID: a.ID}, {PostID: second.ID, UserID: b.ID}} {
		if err := store.Votes.Create(ctx, v); err != nil {
			t.Fatalf("create vote: %v", err)
		}
	}

	list, err := store.Posts.List(ctx, domain.PostFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(list))
	}
	if list[0].Post.ID != first.ID || list[0].Votes != 0 {
		t.Fatalf("expected first post with 0 votes, got %+v", list[0])
	}
	if list[1].Post.ID != second.ID || list[1].Votes != 2 || list[1].Post.Published {
		t.Fatalf("expected unpublished second post with 2 votes, got %+v", list[1])
	}
	if list[1].Post.Owner.Email != "b@x.com" {
		t.Fatalf("expected owner b@x.com, got %+v", list[1].Post.Owner)
	}

	got, err := store.Posts.GetWithVotes(ctx, second.ID)
	if err != nil {
		t.Fatalf("get with votes: %v", err)
	}
	if got.Votes != 2 {
		t.Fatalf("expected 2 votes, got %d", got.Votes)
	}
	n, err := store.Votes.CountByPost(ctx, first.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 votes, got %d", n)
	}
}

func testTitleSearch(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	a := mustUser(t, store, "a@x.com")
	for _, title := range []string{"Go tips", "go basics", "100% Go", "Tom & Jerry"} {
		mustPost(t, store, &domain.Post{Title: title, Published: true, OwnerID: a.ID})
	}

	cases := []struct {
		search string
		want   int
	}{
		{"", 4},
		{"Go", 2},
		{"go", 1},
		{"%", 1},
		{"_", 0},
		{"Tom & Jerry", 1},
		{"GO", 0},
	}
	for _, c := range cases {
		list, err := store.Posts.List(ctx, domain.PostFilter{Search: c.search, Limit: 10})
		if err != nil {
			t.Fatalf("search %q: %v", c.search, err)
		}
		if len(list) != c.want {
			t.Fatalf("search %q: expected %d posts, got %d", c.search, c.want, len(list))
		}
	}

	page, err := store.Posts.List(ctx, domain.PostFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 || page[0].Post.Title != "go basics" || page[1].Post.Title != "100% Go" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func testMissingRows(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	if _, err := store.Posts.Create(ctx, &domain.Post{Title: "t", OwnerID: 99}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown owner, got %v", err)
	}
	if err := store.Posts.Update(ctx, &domain.Post{ID: 5, Title: "t"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := store.Posts.Delete(ctx, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if _, err := store.Posts.Get(ctx, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
	if _, err := store.Posts.GetWithVotes(ctx, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get with votes, got %v", err)
	}
}

func testVoteConstraints(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	a := mustUser(t, store, "a@x.com")
	post := mustPost(t, store, &domain.Post{Title: "t", Published: true, OwnerID: a.ID})

	vote := domain.Vote{PostID: post.ID, UserID: a.ID}
	if err := store.Votes.Create(ctx, vote); err != nil {
		t.Fatalf("create vote: %v", err)
	}
	if err := store.Votes.Create(ctx, vote); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := store.Votes.Create(ctx, domain.Vote{PostID: post.ID + 1, UserID: a.ID}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Votes.Delete(ctx, vote); err != nil {
		t.Fatalf("delete vote: %v", err)
	}
	if err := store.Votes.Delete(ctx, vote); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testDeleteCascades(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	a := mustUser(t, store, "a@x.com")
	post := mustPost(t, store, &domain.Post{Title: "t", Published: true, OwnerID: a.ID})
	if err := store.Votes.Create(ctx, domain.Vote{PostID: post.ID, UserID: a.ID}); err != nil {
		t.Fatalf("create vote: %v", err)
	}

	if err := store.Posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	n, err := store.Votes.CountByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected votes to cascade, %d left", n)
	}
}
