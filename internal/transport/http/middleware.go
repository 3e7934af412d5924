package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/tutorcall-signal/internal/auth"
)

// adminRealm is announced in WWW-Authenticate for the stats endpoints.
const adminRealm = `Basic realm="tutorcall-admin"`

// AdminAuthMiddleware guards operator endpoints with HTTP basic auth checked
// against a bcrypt hash. An empty hash leaves the route open.
func AdminAuthMiddleware(passwordHash string, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passwordHash == "" {
			c.Next()
			return
		}

		_, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", adminRealm)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing credentials"})
			c.Abort()
			return
		}

		if err := auth.VerifyAdminPassword(passwordHash, password); err != nil {
			logger.Debug().Err(err).Str("remote", c.ClientIP()).Msg("admin auth failed")
			c.Header("WWW-Authenticate", adminRealm)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	}
}
