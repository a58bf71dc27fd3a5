package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"posts-service/internal/domain"
)

func TestVoteUpTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")
	post := f.createPost(t, a, "Hello", "World")

	if err := f.votes.Cast(ctx, b.ID, post.ID, domain.VoteUp); err != nil {
		t.Fatalf("first upvote: %v", err)
	}
	if err := f.votes.Cast(ctx, b.ID, post.ID, domain.VoteUp); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	// the owner may vote too
	if err := f.votes.Cast(ctx, a.ID, post.ID, domain.VoteUp); err != nil {
		t.Fatalf("owner upvote: %v", err)
	}

	got, err := f.posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Votes != 2 {
		t.Fatalf("expected 2 votes, got %d", got.Votes)
	}
}

func TestVoteMissingPostOrVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	post := f.createPost(t, a, "Hello", "World")

	if err := f.votes.Cast(ctx, a.ID, post.ID+1, domain.VoteUp); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("upvote missing post: expected ErrNotFound, got %v", err)
	}
	if err := f.votes.Cast(ctx, a.ID, post.ID, domain.VoteDown); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("remove missing vote: expected ErrNotFound, got %v", err)
	}
	if err := f.votes.Cast(ctx, a.ID, post.ID, domain.VoteDirection(5)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown direction: expected ErrInvalidInput, got %v", err)
	}
}

func TestDeletePostRemovesVotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")
	post := f.createPost(t, a, "Hello", "World")

	for _, u := range []*domain.User{a, b} {
		if err := f.votes.Cast(ctx, u.ID, post.ID, domain.VoteUp); err != nil {
			t.Fatalf("upvote: %v", err)
		}
	}
	if err := f.posts.Delete(ctx, post.ID, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	n, err := f.store.Votes.CountByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no orphan votes, got %d", n)
	}
	if err := f.votes.Cast(ctx, b.ID, post.ID, domain.VoteDown); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected removed vote to be gone, got %v", err)
	}
}

func TestVoteScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")
	f.createPost(t, a, "Hello", "World")

	votesOfOnlyPost := func() int64 {
		t.Helper()
		list, err := f.posts.List(ctx, domain.PostFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected 1 post, got %d", len(list))
		}
		return list[0].Votes
	}

	if n := votesOfOnlyPost(); n != 0 {
		t.Fatalf("expected 0 votes, got %d", n)
	}
	list, _ := f.posts.List(ctx, domain.PostFilter{})
	postID := list[0].Post.ID

	if err := f.votes.Cast(ctx, b.ID, postID, domain.VoteUp); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if n := votesOfOnlyPost(); n != 1 {
		t.Fatalf("expected 1 vote, got %d", n)
	}
	if err := f.votes.Cast(ctx, b.ID, postID, domain.VoteDown); err != nil {
		t.Fatalf("downvote: %v", err)
	}
	if n := votesOfOnlyPost(); n != 0 {
		t.Fatalf("expected 0 votes, got %d", n)
	}
}

func TestConcurrentUpvotesConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")
	post := f.createPost(t, a, "Hello", "World")

	const n = 8
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = f.votes.Cast(ctx, b.ID, post.ID, domain.VoteUp)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("cast %d: unexpected error %v", i, err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, ok, conflicts)
	}

	count, err := f.store.Votes.CountByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 vote, got %d", count)
	}
}
