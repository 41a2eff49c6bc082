// Package respond turns errors coming out of the services into HTTP responses
package respond

import (
	"errors"
	"net/http"

	"faithconnect/community-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Status returns the HTTP status code for err
func Status(err error) int {
	if errors.Is(err, service.ErrNotVerified) {
		return http.StatusUnauthorized
	}

	switch service.KindOf(err) {
	case service.KindValidation, service.KindConflict, service.KindAuthentication:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// Error aborts the request with a JSON error body. Errors that aren't a
// *service.Error are logged and hidden behind a generic message
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")
	status := Status(err)

	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		c.AbortWithStatusJSON(status, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if status >= http.StatusInternalServerError {
		zap.L().Error(svcErr.Message, zap.Error(svcErr.Err), zap.String("requestID", requestID))
	} else {
		zap.L().Debug(svcErr.Message, zap.String("kind", svcErr.Kind.String()), zap.String("requestID", requestID))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     svcErr.Message,
		"requestID": requestID,
	})
}

// BadBody is used when the request body can't be decoded at all
func BadBody(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":     "Malformed or invalid JSON request body",
		"requestID": requestID,
	})

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
}
