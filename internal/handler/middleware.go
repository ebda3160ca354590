package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"slot-machine-service/internal/config"
	"slot-machine-service/internal/model"
)

// Context keys and headers.
const (
	ctxAccount    = "account"
	HeaderSession = "X-Session-Token"
)

// SessionResolver resolves or opens the account behind a token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Account, bool, error)
}

// SessionMiddleware resolves the caller's session before the handler runs.
// The token is read from the session cookie, falling back to the
// X-Session-Token header. A newly minted token is sent back as a cookie
// and echoed in the header.
func SessionMiddleware(sessions SessionResolver, cfg config.SessionConfig) gin.HandlerFunc {
	maxAge := int(cfg.MaxAge / time.Second)

	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			token = c.GetHeader(HeaderSession)
		}

		acc, created, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, acc.Token, maxAge, "/", "", cfg.Secure, true)
			c.Header(HeaderSession, acc.Token)
		}

		c.Set(ctxAccount, acc)
		c.Next()
	}
}

// accountFrom returns the account stored by SessionMiddleware.
func accountFrom(c *gin.Context) *model.Account {
	v, ok := c.Get(ctxAccount)
	if !ok {
		return nil
	}
	acc, _ := v.(*model.Account)
	return acc
}

// LoggingMiddleware logs every request once it has been handled.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logEvent := log.Debug()
		if status >= http.StatusInternalServerError {
			logEvent = log.Warn()
		}
		logEvent.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request handled")
	}
}

// RecoveryMiddleware turns a panic into a 500 response.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("Recovered from panic in handler")
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal error"})
			}
		}()
		c.Next()
	}
}
