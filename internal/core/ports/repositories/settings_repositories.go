package repositories

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// SettingsReader defines read operations for company settings.
type SettingsReader interface {
	// FindSettingsByCompany retrieves the settings singleton for a company.
	// Returns apperrors.ErrNotFound when the company has never saved settings.
	FindSettingsByCompany(ctx context.Context, companyID string) (*domain.CompanySettings, error)
}

// SettingsWriter defines write operations for company settings. The invoice
// number allocator advances the sequence columns inside its own transaction;
// SaveSettings deliberately never touches them once the row exists.
type SettingsWriter interface {
	// SaveSettings upserts the settings singleton for a company.
	SaveSettings(ctx context.Context, settings domain.CompanySettings) error
}

// SettingsRepositoryFacade combines settings repository interfaces.
type SettingsRepositoryFacade interface {
	SettingsReader
	SettingsWriter
}
