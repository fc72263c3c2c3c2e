package clientid

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieName holds the browser's client id.
const CookieName = "console_client"

const (
	contextKey = "client_id"
	maxAge     = 365 * 24 * 60 * 60
)

type ctxKey struct{}

// Middleware ties each browser to a stable client id kept in an HttpOnly
// cookie, issuing a fresh one when the cookie is missing or malformed.
func Middleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || !valid(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, id, maxAge, "/", "", secure, true)
		}

		c.Set(contextKey, id)
		c.Request = c.Request.WithContext(WithValue(c.Request.Context(), id))

		c.Next()
	}
}

func valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Value returns the client ID stored in the Gin context.
func Value(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithValue stores the client id on ctx.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the client id stored by Middleware, if any.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
