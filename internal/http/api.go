package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"posts-service/internal/ratelimit"
	"posts-service/internal/service"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (string, time.Time, error)
}

// Options carries the collaborators of a Handler.
type Options struct {
	Users   service.UserService
	Posts   service.PostService
	Votes   service.VoteService
	Guard   service.Guard
	Tokens  TokenIssuer
	Limiter ratelimit.Limiter
	Logger  *logrus.Logger
	// Ping reports store health for /health.
	Ping           func(ctx context.Context) error
	AllowedOrigins []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	posts   service.PostService
	votes   service.VoteService
	guard   service.Guard
	tokens  TokenIssuer
	limiter ratelimit.Limiter
	logger  *logrus.Logger
	ping    func(ctx context.Context) error
	origins []string
}

func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Handler{
		users:   opts.Users,
		posts:   opts.Posts,
		votes:   opts.Votes,
		guard:   opts.Guard,
		tokens:  opts.Tokens,
		limiter: opts.Limiter,
		logger:  opts.Logger,
		ping:    opts.Ping,
		origins: opts.AllowedOrigins,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), h.accessLog(), gin.Recovery(), h.corsMiddleware())

	router.GET("/health", h.health)

	router.POST("/users", h.rateLimit(), h.createUser)
	router.GET("/users/:id", h.getUser)
	router.POST("/login", h.rateLimit(), h.login)

	protected := router.Group("")
	protected.Use(h.requireAuth())
	{
		protected.GET("/posts", h.listPosts)
		protected.POST("/posts", h.createPost)
		protected.GET("/posts/:id", h.getPost)
		protected.PUT("/posts/:id", h.updatePost)
		protected.DELETE("/posts/:id", h.deletePost)
		protected.POST("/vote", h.vote)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(h.origins) == 1 && h.origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.origins
	}
	return cors.New(cfg)
}

func (h *Handler) health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			h.logger.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
