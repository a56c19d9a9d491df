package dto

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// --- Company settings DTOs ---

// UpdateSettingsRequest defines data for saving company settings. Sequence
// state is owned by the numbering engine and is absent here on purpose.
type UpdateSettingsRequest struct {
	LegalName           *string `json:"legalName"`
	TaxRegistrationNo   *string `json:"taxRegistrationNo"`
	Address             *string `json:"address"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode" binding:"omitempty,iso4217"`
	InvoicePrefix       *string `json:"invoicePrefix" binding:"omitempty,min=1,max=10,alphanum"`
	SequenceResetPeriod *string `json:"sequenceResetPeriod" binding:"omitempty,oneof=never yearly monthly"`
	NumberingPolicy     *string `json:"numberingPolicy" binding:"omitempty,oneof=on_create on_send"`
	DefaultLocale       *string `json:"defaultLocale" binding:"omitempty,bcp47_language_tag"`
}

// SettingsResponse defines data returned for company settings.
type SettingsResponse struct {
	CompanyID           string `json:"companyID"`
	LegalName           string `json:"legalName"`
	TaxRegistrationNo   string `json:"taxRegistrationNo"`
	Address             string `json:"address"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
	InvoicePrefix       string `json:"invoicePrefix"`
	NextSequence        int64  `json:"nextSequence"`
	SequenceResetPeriod string `json:"sequenceResetPeriod"`
	NumberingPolicy     string `json:"numberingPolicy"`
	DefaultLocale       string `json:"defaultLocale"`
}

// ToSettingsResponse converts domain.CompanySettings to DTO.
func ToSettingsResponse(s *domain.CompanySettings) SettingsResponse {
	return SettingsResponse{
		CompanyID:           s.CompanyID,
		LegalName:           s.LegalName,
		TaxRegistrationNo:   s.TaxRegistrationNo,
		Address:             s.Address,
		DefaultCurrencyCode: s.DefaultCurrencyCode,
		InvoicePrefix:       s.InvoicePrefix,
		NextSequence:        s.NextSequence,
		SequenceResetPeriod: string(s.SequenceResetPeriod),
		NumberingPolicy:     string(s.NumberingPolicy),
		DefaultLocale:       s.DefaultLocale,
	}
}
