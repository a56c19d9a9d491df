package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/utils"
)

// userService manages user accounts and credentials.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a local user with a bcrypt-hashed password.
// Implements portssvc.UserSvcFacade
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	if existing, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetOrCreateGoogleUser finds the user linked to the Google account,
// creating one on first login.
// Implements portssvc.UserSvcFacade
func (s *userService) GetOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	if !info.VerifiedEmail {
		return nil, fmt.Errorf("%w: google account email is not verified", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByProviderID(ctx, domain.ProviderGoogle, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	newUser := domain.User{
		UserID:         userID,
		Name:           info.Name,
		Email:          info.Email,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: info.ID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to save google user")
		return nil, err
	}

	s.LogInfo(ctx, "User created via google login", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

// GetUserByID retrieves a user by unique identifier.
// Implements portssvc.UserSvcFacade
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByEmail retrieves a user by email address.
// Implements portssvc.UserSvcFacade
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, email)
}

// AuthenticateUser verifies email and password for local login.
// Implements portssvc.UserSvcFacade
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.AuthProvider != domain.ProviderLocal || user.PasswordHash == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// UpdateUser updates a user's profile fields.
// Implements portssvc.UserSvcFacade
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser soft deletes a user.
// Implements portssvc.UserSvcFacade
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		return apperrors.ErrForbidden
	}
	return s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), requestingUserID)
}

// UpdateRefreshTokenDetails stores the hashed refresh token and its expiry.
// Implements portssvc.UserSvcFacade
func (s *userService) UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, &tokenHash, &expiresAt)
}

// ClearRefreshToken removes the stored refresh token on logout.
// Implements portssvc.UserSvcFacade
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil)
}
