package middleware

import (
	"net/http"
	"time"

	"gamespace/internal/session"
	"gamespace/internal/shared/utils/response"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionContextKey   = "session"
	RequestIDContextKey = "request_id"
	RequestIDHeader     = "X-Request-ID"
)

type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Session hydrates the browser's session once per request from the cookie
// and puts it, with its bearer token, on the request context
func Session(manager *session.Manager, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookie.Name)
		s := manager.Hydrate(c.Request.Context(), id)
		if s.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie.Name, s.ID, int(cookie.MaxAge.Seconds()), "/", "", cookie.Secure, true)
		}

		ctx := session.WithSession(c.Request.Context(), s)
		ctx = apiclient.WithToken(ctx, s.Token)
		c.Request = c.Request.WithContext(ctx)
		c.Set(SessionContextKey, s)
		if s.User != nil {
			c.Set("username", s.User.Username)
		}

		c.Next()
	}
}

// RequireAuth rejects requests whose session has no signed in user
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.MustFromContext(c.Request.Context())
		if !s.IsAuthenticated() {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Please log in to continue", nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestID tags every request with an id, reusing the caller's header
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDContextKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs each request once it has been served, plus the last
// error a handler attached with c.Error
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
		if last := c.Errors.Last(); last != nil {
			l.WithRequestID(c.GetString(RequestIDContextKey)).LogHTTPError(c, last.Err, c.Writer.Status())
		}
	}
}
