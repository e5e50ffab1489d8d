package identity

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ctxKey struct{}

// ginKey is where the middleware stores the *Actor on the gin context.
const ginKey = "actor"

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// CurrentUser returns the actor for ctx, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *Actor {
	a, _ := ctx.Value(ctxKey{}).(*Actor)
	return a
}

// SetOnGin stores the actor on both the gin context and the request context.
func SetOnGin(c *gin.Context, a *Actor) {
	c.Set(ginKey, a)
	c.Request = c.Request.WithContext(WithActor(c.Request.Context(), a))
}

// FromGin returns the actor the identity middleware resolved, if any.
func FromGin(c *gin.Context) (*Actor, bool) {
	v, exists := c.Get(ginKey)
	if !exists {
		return nil, false
	}
	a, ok := v.(*Actor)
	return a, ok && a != nil
}
