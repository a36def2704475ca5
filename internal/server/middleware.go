package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	userIDKey    = "user_id"
)

// requestIDMiddleware tags each request with a short unique ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := "req_" + uuid.NewString()[:8]

		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func loggingMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		requestID := c.GetString(requestIDKey)

		log.DebugContext(ctx, "Request is started",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path)

		c.Next()

		log.InfoContext(ctx, "Request is completed",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latencyMs", time.Since(start).Milliseconds())
	}
}

// authMiddleware resolves the caller identity before any handler runs.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := s.auth.ResolveIdentity(c.Request)
		if err != nil {
			s.log.WarnContext(c.Request.Context(), "Failed to resolve identity",
				"error", err,
				"requestID", c.GetString(requestIDKey),
				"path", c.Request.URL.Path)

			s.abortWithError(c, err)

			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
