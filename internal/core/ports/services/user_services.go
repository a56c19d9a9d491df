package services

import (
	"context"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by unique identifier.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a local user with a bcrypt-hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// GetOrCreateGoogleUser finds the user linked to the Google account,
	// creating one on first login.
	GetOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)

	// UpdateUser updates a user's profile fields.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// DeleteUser soft deletes a user.
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error
}

// UserAuthenticationSvc defines credential and refresh-token operations
type UserAuthenticationSvc interface {
	// AuthenticateUser verifies email and password for local login.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// UpdateRefreshTokenDetails stores the hashed refresh token and its expiry.
	UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error

	// ClearRefreshToken removes the stored refresh token on logout.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthenticationSvc
}
