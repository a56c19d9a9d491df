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

type PgxSettingsRepository struct {
	db *pgxpool.Pool
}

func newPgxSettingsRepository(db *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{db: db}
}

// Ensure PgxSettingsRepository implements portsrepo.SettingsRepositoryFacade
var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

// FindSettingsByCompany retrieves the settings singleton for a company.
func (r *PgxSettingsRepository) FindSettingsByCompany(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	query := `
		SELECT company_id, legal_name, tax_registration_no, address, default_currency_code,
		       invoice_prefix, next_sequence, sequence_scope, sequence_reset_period, numbering_policy,
		       default_locale, created_at, created_by, last_updated_at, last_updated_by
		FROM company_settings
		WHERE company_id = $1;
	`
	var m models.CompanySettings
	err := r.db.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID, &m.LegalName, &m.TaxRegistrationNo, &m.Address, &m.DefaultCurrencyCode,
		&m.InvoicePrefix, &m.NextSequence, &m.SequenceScope, &m.SequenceResetPeriod, &m.NumberingPolicy,
		&m.DefaultLocale, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settings for company %s: %w", companyID, err)
	}
	settings := mapping.ToDomainCompanySettings(m)
	return &settings, nil
}

// SaveSettings upserts the settings singleton. Sequence columns are written
// only on first insert; once the row exists the allocator owns them.
func (r *PgxSettingsRepository) SaveSettings(ctx context.Context, settings domain.CompanySettings) error {
	m := mapping.ToModelCompanySettings(settings)
	query := `
		INSERT INTO company_settings (
			company_id, legal_name, tax_registration_no, address, default_currency_code,
			invoice_prefix, next_sequence, sequence_scope, sequence_reset_period, numbering_policy,
			default_locale, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (company_id) DO UPDATE SET
			legal_name = EXCLUDED.legal_name,
			tax_registration_no = EXCLUDED.tax_registration_no,
			address = EXCLUDED.address,
			default_currency_code = EXCLUDED.default_currency_code,
			invoice_prefix = EXCLUDED.invoice_prefix,
			sequence_reset_period = EXCLUDED.sequence_reset_period,
			numbering_policy = EXCLUDED.numbering_policy,
			default_locale = EXCLUDED.default_locale,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		m.CompanyID, m.LegalName, m.TaxRegistrationNo, m.Address, m.DefaultCurrencyCode,
		m.InvoicePrefix, m.NextSequence, m.SequenceScope, m.SequenceResetPeriod, m.NumberingPolicy,
		m.DefaultLocale, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings for company %s: %w", settings.CompanyID, err)
	}
	return nil
}
