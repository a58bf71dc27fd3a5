package service

import (
	"context"
	"fmt"

	"posts-service/internal/domain"
	"posts-service/internal/repository"
)

// VoteService casts and withdraws votes.
type VoteService interface {
	Cast(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error
}

type voteService struct {
	votes repository.VoteRepository
}

func NewVoteService(votes repository.VoteRepository) VoteService {
	return &voteService{votes: votes}
}

// Cast inserts the vote for VoteUp and removes it for VoteDown.
// Duplicates are rejected by the store's key, never by a prior lookup.
func (s *voteService) Cast(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error {
	vote := domain.Vote{PostID: postID, UserID: userID}
	switch dir {
	case domain.VoteUp:
		return s.votes.Create(ctx, vote)
	case domain.VoteDown:
		return s.votes.Delete(ctx, vote)
	default:
		return fmt.Errorf("%w: unknown vote direction %d", domain.ErrInvalidInput, dir)
	}
}
