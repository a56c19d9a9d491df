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
	"github.com/safinah-app/clearance_billing_app/internal/utils/pagination"
)

type PgxClientRepository struct {
	db *pgxpool.Pool
}

func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{db: db}
}

// Ensure PgxClientRepository implements portsrepo.ClientRepositoryFacade
var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const clientSelectColumns = `
	client_id, company_id, name, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(tax_registration_no, ''), COALESCE(address, ''), is_active,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	var m models.Client
	err := row.Scan(
		&m.ClientID, &m.CompanyID, &m.Name, &m.Email, &m.Phone,
		&m.TaxRegistrationNo, &m.Address, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveClient persists a new client.
func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (
			client_id, company_id, name, email, phone, tax_registration_no, address, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.ClientID, m.CompanyID, m.Name, m.Email, m.Phone, m.TaxRegistrationNo, m.Address, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// FindClientByID retrieves a client owned by the given company.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	query := `SELECT` + clientSelectColumns + `
		FROM clients
		WHERE client_id = $1 AND company_id = $2 AND deleted_at IS NULL;
	`
	m, err := scanClient(r.db.QueryRow(ctx, query, clientID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}
	client := mapping.ToDomainClient(*m)
	return &client, nil
}

// ListClientsByCompany retrieves a page of clients ordered by creation time descending.
func (r *PgxClientRepository) ListClientsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Client, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT` + clientSelectColumns + ` FROM clients WHERE company_id = $1 AND deleted_at IS NULL`
	args := []interface{}{companyID}

	if nextToken != nil && *nextToken != "" {
		createdAt, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		args = append(args, createdAt)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d;", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var ms []models.Client
	for rows.Next() {
		m, err := scanClient(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan client: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating clients: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		t := pagination.EncodeDateBasedToken(ms[len(ms)-1].CreatedAt)
		token = &t
	}

	return mapping.ToDomainClientSlice(ms), token, nil
}

// UpdateClient updates an existing client's details.
func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		UPDATE clients
		SET name = $3, email = $4, phone = $5, tax_registration_no = $6, address = $7, is_active = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE client_id = $1 AND company_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query,
		m.ClientID, m.CompanyID, m.Name, m.Email, m.Phone, m.TaxRegistrationNo, m.Address, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", client.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkClientDeleted soft deletes a client.
func (r *PgxClientRepository) MarkClientDeleted(ctx context.Context, companyID, clientID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE clients
		SET deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE client_id = $1 AND company_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, clientID, companyID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
