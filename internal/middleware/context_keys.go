package middleware

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = contextKey("userID")
	actorKey  = contextKey("actor")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithActor returns a copy of ctx carrying the acting user.
func WithActor(ctx context.Context, actor domain.User) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActorFromContext retrieves the acting user loaded by ActorMiddleware.
func GetActorFromContext(c *gin.Context) (domain.User, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(domain.User)
	return actor, ok
}
