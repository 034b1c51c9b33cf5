package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mchen1024/todovault/internal/models"
	"github.com/mchen1024/todovault/internal/store"
)

// AuthHeader carries the bearer token on protected requests and the
// freshly issued token on register/login responses.
const AuthHeader = "x-auth"

const (
	ctxUserKey  = "authUser"
	ctxTokenKey = "authToken"
)

// Authenticate gates protected routes. A missing header or a token
// that no longer resolves aborts the request with 401; the response
// body never echoes decode details.
func Authenticate(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(AuthHeader)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		user, err := users.ResolveToken(c.Request.Context(), token)
		if err != nil {
			zap.L().Error("token resolution failed", zap.Error(err))
			abortUnauthorized(c)
			return
		}
		if user == nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
}

// CurrentUser returns the identity attached by Authenticate along
// with the raw token the request presented.
func CurrentUser(c *gin.Context) (*models.User, string) {
	value, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, ""
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, ""
	}
	return user, c.GetString(ctxTokenKey)
}

// RequestLogger logs one line per request with a uuid request id,
// also exposed to clients via the X-Request-ID header.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
