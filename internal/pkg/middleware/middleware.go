package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendloop/service-lending/internal/pkg/response"
)

// UserIDHeader carries the identity of the acting user. Authentication
// happens upstream at the gateway; services trust this header.
const UserIDHeader = "X-Sharer-User-Id"

const userIDKey = "userID"

// RequestIDMiddleware assigns a request ID when the client didn't send one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("requestID", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// LoggerMiddleware logs each request with latency and status.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("requestID")),
		)
	}
}

// RecoveryMiddleware recovers from handler panics and returns a 500.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				response.InternalError(c, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// CORSMiddleware allows cross-origin requests from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", UserIDHeader, "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	})
}

// IdentityMiddleware extracts the acting user ID from the X-Sharer-User-Id
// header and aborts with 400 when it is missing or malformed.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			response.BadRequest(c, "missing "+UserIDHeader+" header")
			c.Abort()
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid "+UserIDHeader+" header")
			c.Abort()
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// GetUserID returns the acting user ID set by IdentityMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
