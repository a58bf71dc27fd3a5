package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

// PostService applies validation and ownership rules on top of the post repository.
type PostService interface {
	List(ctx context.Context, filter domain.PostFilter) ([]domain.PostWithVotes, error)
	Get(ctx context.Context, id int64) (*domain.PostWithVotes, error)
	Create(ctx context.Context, ownerID int64, input domain.PostInput) (*domain.Post, error)
	Update(ctx context.Context, id, actorID int64, input domain.PostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, actorID int64) error
}

// PostOptions tunes listing limits and content sanitising.
type PostOptions struct {
	DefaultLimit int
	MaxLimit     int
	// Sanitize strips markup from titles and reduces content to safe HTML.
	// Content is then stored HTML-escaped, ready for rendering.
	Sanitize bool
}

type postService struct {
	posts repository.PostRepository
	guard Guard
	opts  PostOptions

	titlePolicy   *bluemonday.Policy
	contentPolicy *bluemonday.Policy
}

func NewPostService(posts repository.PostRepository, guard Guard, opts PostOptions) PostService {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	return &postService{
		posts:         posts,
		guard:         guard,
		opts:          opts,
		titlePolicy:   bluemonday.StrictPolicy(),
		contentPolicy: bluemonday.UGCPolicy(),
	}
}

func (s *postService) List(ctx context.Context, filter domain.PostFilter) ([]domain.PostWithVotes, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and skip must not be negative", domain.ErrInvalidInput)
	}
	if filter.Limit == 0 {
		filter.Limit = s.opts.DefaultLimit
	}
	if filter.Limit > s.opts.MaxLimit {
		filter.Limit = s.opts.MaxLimit
	}
	return s.posts.List(ctx, filter)
}

func (s *postService) Get(ctx context.Context, id int64) (*domain.PostWithVotes, error) {
	return s.posts.GetWithVotes(ctx, id)
}

func (s *postService) Create(ctx context.Context, ownerID int64, input domain.PostInput) (*domain.Post, error) {
	input, err := s.clean(input)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
		OwnerID:   ownerID,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.Get(ctx, post.ID)
}

func (s *postService) Update(ctx context.Context, id, actorID int64, input domain.PostInput) (*domain.Post, error) {
	input, err := s.clean(input)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireOwner(post.OwnerID, actorID); err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Content = input.Content
	post.Published = input.Published
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.Get(ctx, id)
}

func (s *postService) Delete(ctx context.Context, id, actorID int64) error {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.RequireOwner(post.OwnerID, actorID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

func (s *postService) clean(input domain.PostInput) (domain.PostInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	if s.opts.Sanitize {
		// titles stay plain text: strip markup but store the characters as typed
		input.Title = strings.TrimSpace(html.UnescapeString(s.titlePolicy.Sanitize(input.Title)))
		input.Content = s.contentPolicy.Sanitize(input.Content)
	}
	if input.Title == "" {
		return input, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	return input, nil
}
