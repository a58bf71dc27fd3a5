package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posts-service/internal/domain"
)

type voteRequest struct {
	PostID int64 `json:"post_id" binding:"required,gt=0"`
	// Dir is 1 to upvote and 0 to withdraw the vote.
	Dir *int `json:"dir" binding:"required,oneof=0 1"`
}

func (h *Handler) vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	dir := domain.VoteDirection(*req.Dir)
	if err := h.votes.Cast(c.Request.Context(), currentUser(c).ID, req.PostID, dir); err != nil {
		h.writeError(c, err)
		return
	}

	msg := "successfully added vote"
	if dir == domain.VoteDown {
		msg = "successfully deleted vote"
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
