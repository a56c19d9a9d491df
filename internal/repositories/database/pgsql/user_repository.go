package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	"github.com/safinah-app/clearance_billing_app/internal/models"
	"github.com/safinah-app/clearance_billing_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userSelectColumns = `
	user_id, name, email, COALESCE(password_hash, ''), auth_provider, COALESCE(provider_user_id, ''),
	COALESCE(refresh_token_hash, ''), refresh_token_expiry_time,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID, &m.Name, &m.Email, &m.PasswordHash, &m.AuthProvider, &m.ProviderUserID,
		&m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxUserRepository) findUser(ctx context.Context, where string, args ...interface{}) (*domain.User, error) {
	query := `SELECT` + userSelectColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL;`
	m, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

// FindUserByID retrieves a user by unique identifier.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, "user_id = $1", userID)
}

// FindUserByEmail retrieves a user by email address.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, "email = $1", email)
}

// FindUserByProviderID retrieves a user by external auth provider id.
func (r *PgxUserRepository) FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findUser(ctx, "auth_provider = $1 AND provider_user_id = $2", string(provider), providerUserID)
}

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (
			user_id, name, email, password_hash, auth_provider, provider_user_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.UserID, m.Name, m.Email, m.PasswordHash, m.AuthProvider, m.ProviderUserID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// UpdateUser updates a user's profile fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, m.UserID, m.Name, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRefreshToken stores or clears the hashed refresh token.
func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_expiry_time = $3, last_updated_at = NOW(), last_updated_by = $1
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkUserDeleted soft deletes a user.
func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE users
		SET deleted_at = $2, refresh_token_hash = NULL, refresh_token_expiry_time = NULL,
		    last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, userID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
