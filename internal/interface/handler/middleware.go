package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// AgentIDHeader carries the authenticated agent id, set by the portal gateway
const AgentIDHeader = "X-Agent-ID"

const agentIDKey = "agent_id"

// RequestLogger logs every request through the service logger
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.Errors())
		}

		switch {
		case status >= 500:
			log.Error("HTTP Request", fields...)
		case status >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Debug("HTTP Request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 response
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered", "path", c.Request.URL.Path, "panic", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// RequireAgent rejects requests without a valid agent id header
func RequireAgent() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(AgentIDHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + AgentIDHeader})
			return
		}
		c.Set(agentIDKey, id.String())
		c.Next()
	}
}

func agentID(c *gin.Context) string {
	return c.GetString(agentIDKey)
}
