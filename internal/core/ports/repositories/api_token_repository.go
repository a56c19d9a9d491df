package repositories

import (
	"context"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// APITokenRepository defines storage operations for API tokens.
type APITokenRepository interface {
	// SaveToken persists a new API token.
	SaveToken(ctx context.Context, token domain.APIToken) error

	// FindByTokenHash retrieves a live token by its hash.
	FindByTokenHash(ctx context.Context, tokenHash string) (*domain.APIToken, error)

	// ListByUser retrieves all live tokens owned by a user.
	ListByUser(ctx context.Context, userID string) ([]domain.APIToken, error)

	// UpdateLastUsed records the time the token last authenticated a request.
	UpdateLastUsed(ctx context.Context, tokenID string, usedAt time.Time) error

	// DeleteToken revokes a token owned by the given user.
	DeleteToken(ctx context.Context, userID, tokenID string) error
}
