package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

// settingsService manages the per-company settings singleton.
type settingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade
	companySvc   portssvc.CompanySvcFacade
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade, companySvc portssvc.CompanySvcFacade) portssvc.SettingsSvcFacade {
	return &settingsService{
		settingsRepo: settingsRepo,
		companySvc:   companySvc,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetSettings retrieves the company's settings, falling back to defaults.
// Implements portssvc.SettingsSvcFacade
func (s *settingsService) GetSettings(ctx context.Context, companyID string, requestingUserID string) (*domain.CompanySettings, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.FindSettingsByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			def := domain.DefaultCompanySettings(companyID)
			return &def, nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings saves the company's settings. Admin only. Sequence state is
// never written here; the numbering engine owns it.
// Implements portssvc.SettingsSvcFacade
func (s *settingsService) UpdateSettings(ctx context.Context, companyID string, req dto.UpdateSettingsRequest, requestingUserID string) (*domain.CompanySettings, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for UpdateSettings", slog.String("user_id", requestingUserID), slog.String("company_id", companyID))
		return nil, err
	}

	settings, err := s.settingsRepo.FindSettingsByCompany(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		def := domain.DefaultCompanySettings(companyID)
		settings = &def
		now := time.Now().UTC()
		settings.CreatedAt = now
		settings.CreatedBy = requestingUserID
	}

	if req.LegalName != nil {
		settings.LegalName = *req.LegalName
	}
	if req.TaxRegistrationNo != nil {
		settings.TaxRegistrationNo = *req.TaxRegistrationNo
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.DefaultCurrencyCode != nil {
		settings.DefaultCurrencyCode = *req.DefaultCurrencyCode
	}
	if req.InvoicePrefix != nil {
		settings.InvoicePrefix = *req.InvoicePrefix
	}
	if req.SequenceResetPeriod != nil {
		settings.SequenceResetPeriod = domain.SequenceResetPeriod(*req.SequenceResetPeriod)
	}
	if req.NumberingPolicy != nil {
		settings.NumberingPolicy = domain.NumberingPolicy(*req.NumberingPolicy)
	}
	if req.DefaultLocale != nil {
		settings.DefaultLocale = *req.DefaultLocale
	}

	settings.LastUpdatedAt = time.Now().UTC()
	settings.LastUpdatedBy = requestingUserID

	if err := s.settingsRepo.SaveSettings(ctx, *settings); err != nil {
		logger.Error("Failed to save settings", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}
	return settings, nil
}
