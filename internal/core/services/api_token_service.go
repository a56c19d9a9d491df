package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
)

// apiTokenService implements the APITokenSvc interface
type apiTokenService struct {
	tokenRepo portsrepo.APITokenRepository
	userSvc   portssvc.UserSvcFacade
}

// NewAPITokenService creates a new instance of apiTokenService
func NewAPITokenService(tokenRepo portsrepo.APITokenRepository, userSvc portssvc.UserSvcFacade) portssvc.APITokenSvc {
	return &apiTokenService{
		tokenRepo: tokenRepo,
		userSvc:   userSvc,
	}
}

var _ portssvc.APITokenSvc = (*apiTokenService)(nil)

// CreateToken generates a new API token for the user
func (s *apiTokenService) CreateToken(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, *domain.APIToken, error) {
	if userID == "" {
		return "", nil, fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}
	if name == "" {
		return "", nil, fmt.Errorf("%w: token name is required", apperrors.ErrValidation)
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	var expiresAt *time.Time
	if expiresIn != nil {
		expiry := time.Now().Add(*expiresIn)
		expiresAt = &expiry
	}

	now := time.Now().UTC()
	apiToken := &domain.APIToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		TokenHash: hashAPIToken(token),
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tokenRepo.SaveToken(ctx, *apiToken); err != nil {
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	// Return the plaintext token (only time it's available) and the token details
	return token, apiToken, nil
}

// ListTokens returns all API tokens for a user
func (s *apiTokenService) ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}
	return s.tokenRepo.ListByUser(ctx, userID)
}

// RevokeToken deletes a specific API token for a user
func (s *apiTokenService) RevokeToken(ctx context.Context, userID, tokenID string) error {
	if userID == "" || tokenID == "" {
		return fmt.Errorf("%w: user ID and token ID are required", apperrors.ErrValidation)
	}
	return s.tokenRepo.DeleteToken(ctx, userID, tokenID)
}

// ValidateToken checks if a token is valid and returns the associated user
func (s *apiTokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	if tokenString == "" {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.tokenRepo.FindByTokenHash(ctx, hashAPIToken(tokenString))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if token.IsExpired() {
		// Expired tokens are revoked on first use rather than by a sweeper.
		_ = s.tokenRepo.DeleteToken(ctx, token.UserID, token.ID)
		return nil, apperrors.ErrUnauthorized
	}

	// Best effort; a failed timestamp write must not fail authentication.
	_ = s.tokenRepo.UpdateLastUsed(ctx, token.ID, time.Now().UTC())

	return s.userSvc.GetUserByID(ctx, token.UserID)
}

// hashAPIToken produces the deterministic lookup hash stored for a token.
func hashAPIToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// generateSecureToken generates a secure random token
func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// Use URL-safe base64 encoding without padding
	return "clb_" + base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b), nil
}
