package http

import (
	"time"

	"posts-service/internal/domain"
)

type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type PostResponse struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Published bool         `json:"published"`
	CreatedAt string       `json:"created_at"`
	OwnerID   int64        `json:"owner_id"`
	Owner     UserResponse `json:"owner"`
}

// PostOutResponse pairs a post with its vote count.
type PostOutResponse struct {
	Post  PostResponse `json:"Post"`
	Votes int64        `json:"votes"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func userToResponse(user domain.UserSummary) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Published: post.Published,
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
		OwnerID:   post.OwnerID,
		Owner:     userToResponse(post.Owner),
	}
}

func postOutToResponse(pv domain.PostWithVotes) PostOutResponse {
	return PostOutResponse{
		Post:  postToResponse(pv.Post),
		Votes: pv.Votes,
	}
}
