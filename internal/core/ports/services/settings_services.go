package services

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// SettingsReaderSvc defines read operations for company settings.
type SettingsReaderSvc interface {
	// GetSettings retrieves the company's settings, falling back to defaults
	// when none were ever saved.
	GetSettings(ctx context.Context, companyID string, requestingUserID string) (*domain.CompanySettings, error)
}

// SettingsWriterSvc defines write operations for company settings.
type SettingsWriterSvc interface {
	// UpdateSettings saves the company's settings. Admin only.
	UpdateSettings(ctx context.Context, companyID string, req dto.UpdateSettingsRequest, requestingUserID string) (*domain.CompanySettings, error)
}

// SettingsSvcFacade combines settings service interfaces.
type SettingsSvcFacade interface {
	SettingsReaderSvc
	SettingsWriterSvc
}
