package repositories

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriter defines write operations for user data.
// Users are owned by the identity subsystem; the store only mirrors them.
type UserWriter interface {
	// SaveUser inserts the user or replaces the mirrored copy.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
