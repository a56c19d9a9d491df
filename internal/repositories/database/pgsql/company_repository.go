package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	"github.com/safinah-app/clearance_billing_app/internal/models"
	"github.com/safinah-app/clearance_billing_app/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	db *pgxpool.Pool
}

func newPgxCompanyRepository(db *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{db: db}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

// SaveCompany persists a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (
			company_id, name, description, default_currency_code, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		m.CompanyID, m.Name, m.Description, m.DefaultCurrencyCode, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

// FindCompanyByID retrieves a company by its identifier.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, COALESCE(description, ''), default_currency_code, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.db.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID, &m.Name, &m.Description, &m.DefaultCurrencyCode, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

// ListCompaniesByUser retrieves the companies a user is an active member of.
func (r *PgxCompanyRepository) ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, COALESCE(c.description, ''), c.default_currency_code, c.is_active,
		       c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN user_companies uc ON uc.company_id = c.company_id
		WHERE uc.user_id = $1 AND uc.role <> $2
		ORDER BY c.name ASC;
	`
	rows, err := r.db.Query(ctx, query, userID, string(domain.RoleRemoved))
	if err != nil {
		return nil, fmt.Errorf("failed to query companies for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ms []models.Company
	for rows.Next() {
		var m models.Company
		err := rows.Scan(
			&m.CompanyID, &m.Name, &m.Description, &m.DefaultCurrencyCode, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return mapping.ToDomainCompanySlice(ms), nil
}

// FindUserCompanyRole retrieves the role a user holds in a company. Removed
// memberships count as not found.
func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompanyRole, error) {
	query := `
		SELECT role
		FROM user_companies
		WHERE user_id = $1 AND company_id = $2 AND role <> $3;
	`
	var role string
	err := r.db.QueryRow(ctx, query, userID, companyID, string(domain.RoleRemoved)).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find role for user %s in company %s: %w", userID, companyID, err)
	}
	userRole := domain.UserCompanyRole(role)
	return &userRole, nil
}

// SaveUserCompany upserts a user's membership in a company.
func (r *PgxCompanyRepository) SaveUserCompany(ctx context.Context, userCompany domain.UserCompany) error {
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, company_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.db.Exec(ctx, query,
		userCompany.UserID, userCompany.CompanyID, string(userCompany.Role), userCompany.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save membership for user %s in company %s: %w", userCompany.UserID, userCompany.CompanyID, err)
	}
	return nil
}
