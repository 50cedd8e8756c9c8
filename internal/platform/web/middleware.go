package web

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestLogger replaces gin's default logger with the charm logger.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", append(kv, "error", c.Errors.String())...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", kv...)
		default:
			logger.Debug("request", kv...)
		}
	}
}

// sessionID returns the caller's session id from the cookie, issuing a new
// one when the cookie is missing or malformed. fresh is true for a new id.
func (s *Server) sessionID(c *gin.Context) (id string, fresh bool) {
	if v, err := c.Cookie(s.cfg.CookieName); err == nil {
		if parsed, err := uuid.Parse(v); err == nil {
			return parsed.String(), false
		}
	}

	id = uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, id, int(s.cfg.CookieMaxAge/time.Second), "/", "", false, true)
	return id, true
}
