package mapping

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/models"
)

// ToModelCompany converts a domain Company to a model Company.
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:           d.CompanyID,
		Name:                d.Name,
		Description:         d.Description,
		DefaultCurrencyCode: d.DefaultCurrencyCode,
		IsActive:            d.IsActive,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:           m.CompanyID,
		Name:                m.Name,
		Description:         m.Description,
		DefaultCurrencyCode: m.DefaultCurrencyCode,
		IsActive:            m.IsActive,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCompanySlice converts model Companies to domain Companies.
func ToDomainCompanySlice(ms []models.Company) []domain.Company {
	ds := make([]domain.Company, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCompany(m)
	}
	return ds
}
