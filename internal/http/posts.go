package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"posts-service/internal/domain"
)

type listPostsQuery struct {
	Limit  int    `form:"limit" binding:"min=0"`
	Skip   int    `form:"skip" binding:"min=0"`
	Search string `form:"search"`
}

type postRequest struct {
	Title     string  `json:"title" binding:"required"`
	Content   *string `json:"content" binding:"required"`
	Published *bool   `json:"published"`
}

func (r postRequest) input() domain.PostInput {
	published := true
	if r.Published != nil {
		published = *r.Published
	}
	return domain.PostInput{
		Title:     r.Title,
		Content:   *r.Content,
		Published: published,
	}
}

func (h *Handler) listPosts(c *gin.Context) {
	var q listPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, err)
		return
	}

	posts, err := h.posts.List(c.Request.Context(), domain.PostFilter{
		Search: q.Search,
		Limit:  q.Limit,
		Offset: q.Skip,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]PostOutResponse, len(posts))
	for i := range posts {
		resp[i] = postOutToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, postOutToResponse(*post))
}

func (h *Handler) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), id, currentUser(c).ID, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}
