package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"posts-service/internal/domain"
	"posts-service/internal/service"
)

// errorStatus maps domain errors onto HTTP statuses. Order matters: the more specific
// sentinels wrap the generic ones.
func errorStatus(err error) (int, error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusForbidden, service.ErrInvalidCredentials
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.ErrUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, nil
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, domain.ErrConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, domain.ErrInvalidInput
	default:
		return http.StatusInternalServerError, nil
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, sentinel := errorStatus(err)
	detail := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		h.logger.WithError(err).WithField("request_id", c.GetString(contextRequestIDKey)).Error("request failed")
		detail = "internal server error"
	case errors.Is(err, service.ErrInvalidCredentials):
		detail = "Invalid Credentials"
	case sentinel != nil && detail != sentinel.Error():
		detail = strings.TrimSuffix(detail, ": "+sentinel.Error())
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, gin.H{"detail": detail})
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	h.writeError(c, err)
	c.Abort()
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
}
