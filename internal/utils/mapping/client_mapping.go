package mapping

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/models"
)

// ToModelClient converts a domain Client to a model Client.
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:          d.ClientID,
		CompanyID:         d.CompanyID,
		Name:              d.Name,
		Email:             d.Email,
		Phone:             d.Phone,
		TaxRegistrationNo: d.TaxRegistrationNo,
		Address:           d.Address,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
		DeletedAt:         d.DeletedAt,
	}
}

// ToDomainClient converts a model Client to a domain Client.
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:          m.ClientID,
		CompanyID:         m.CompanyID,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		TaxRegistrationNo: m.TaxRegistrationNo,
		Address:           m.Address,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		DeletedAt:         m.DeletedAt,
	}
}

// ToDomainClientSlice converts a slice of model Clients to domain Clients.
func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}
