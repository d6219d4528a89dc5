// Package api holds the gin handlers. Handlers stay thin: bind the request,
// call the service, map the error kind to a status code.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/service"
)

// respondErr maps the service error taxonomy onto HTTP statuses: access
// failures are 403, input failures 400, anything else 500.
func respondErr(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case service.IsAccess(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case service.IsInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
