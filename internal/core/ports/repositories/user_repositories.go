package repositories

import (
	"context"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a user by unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProviderID retrieves a user by external auth provider id.
	FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's profile fields.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the hashed refresh token and its expiry.
	// Pass nil values to clear the token on logout.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error

	// MarkUserDeleted soft deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
