package mapping

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/models"
)

// ToModelCompanySettings converts domain CompanySettings to the model form.
func ToModelCompanySettings(d domain.CompanySettings) models.CompanySettings {
	return models.CompanySettings{
		CompanyID:           d.CompanyID,
		LegalName:           d.LegalName,
		TaxRegistrationNo:   d.TaxRegistrationNo,
		Address:             d.Address,
		DefaultCurrencyCode: d.DefaultCurrencyCode,
		InvoicePrefix:       d.InvoicePrefix,
		NextSequence:        d.NextSequence,
		SequenceScope:       d.SequenceScope,
		SequenceResetPeriod: string(d.SequenceResetPeriod),
		NumberingPolicy:     string(d.NumberingPolicy),
		DefaultLocale:       d.DefaultLocale,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompanySettings converts model CompanySettings to the domain form.
func ToDomainCompanySettings(m models.CompanySettings) domain.CompanySettings {
	return domain.CompanySettings{
		CompanyID:           m.CompanyID,
		LegalName:           m.LegalName,
		TaxRegistrationNo:   m.TaxRegistrationNo,
		Address:             m.Address,
		DefaultCurrencyCode: m.DefaultCurrencyCode,
		InvoicePrefix:       m.InvoicePrefix,
		NextSequence:        m.NextSequence,
		SequenceScope:       m.SequenceScope,
		SequenceResetPeriod: domain.SequenceResetPeriod(m.SequenceResetPeriod),
		NumberingPolicy:     domain.NumberingPolicy(m.NumberingPolicy),
		DefaultLocale:       m.DefaultLocale,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
