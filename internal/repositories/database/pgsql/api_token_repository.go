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

type PgxAPITokenRepository struct {
	db *pgxpool.Pool
}

func newPgxAPITokenRepository(db *pgxpool.Pool) portsrepo.APITokenRepository {
	return &PgxAPITokenRepository{db: db}
}

// Ensure PgxAPITokenRepository implements portsrepo.APITokenRepository
var _ portsrepo.APITokenRepository = (*PgxAPITokenRepository)(nil)

const apiTokenSelectColumns = `
	id, user_id, name, token_hash, last_used_at, expires_at, created_at, updated_at, deleted_at`

func scanAPIToken(row pgx.Row) (*models.APIToken, error) {
	var m models.APIToken
	err := row.Scan(
		&m.ID, &m.UserID, &m.Name, &m.TokenHash, &m.LastUsedAt, &m.ExpiresAt,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveToken persists a new API token.
func (r *PgxAPITokenRepository) SaveToken(ctx context.Context, token domain.APIToken) error {
	m := mapping.ToModelAPIToken(token)
	query := `
		INSERT INTO api_tokens (id, user_id, name, token_hash, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.UserID, m.Name, m.TokenHash, m.ExpiresAt, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save api token: %w", err)
	}
	return nil
}

// FindByTokenHash retrieves a live token by its hash.
func (r *PgxAPITokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.APIToken, error) {
	query := `SELECT` + apiTokenSelectColumns + `
		FROM api_tokens
		WHERE token_hash = $1 AND deleted_at IS NULL;
	`
	m, err := scanAPIToken(r.db.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find api token by hash: %w", err)
	}
	token := mapping.ToDomainAPIToken(*m)
	return &token, nil
}

// ListByUser retrieves all live tokens owned by a user.
func (r *PgxAPITokenRepository) ListByUser(ctx context.Context, userID string) ([]domain.APIToken, error) {
	query := `SELECT` + apiTokenSelectColumns + `
		FROM api_tokens
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query api tokens for user %s: %w", userID, err)
	}
	defer rows.Close()

	var tokens []domain.APIToken
	for rows.Next() {
		m, err := scanAPIToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api token: %w", err)
		}
		tokens = append(tokens, mapping.ToDomainAPIToken(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating api tokens: %w", err)
	}

	return tokens, nil
}

// UpdateLastUsed records the time the token last authenticated a request.
func (r *PgxAPITokenRepository) UpdateLastUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	query := `
		UPDATE api_tokens
		SET last_used_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL;
	`
	_, err := r.db.Exec(ctx, query, tokenID, usedAt)
	if err != nil {
		return fmt.Errorf("failed to update last used for token %s: %w", tokenID, err)
	}
	return nil
}

// DeleteToken revokes a token owned by the given user.
func (r *PgxAPITokenRepository) DeleteToken(ctx context.Context, userID, tokenID string) error {
	query := `
		UPDATE api_tokens
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, tokenID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete api token %s: %w", tokenID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
