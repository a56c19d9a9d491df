package mapping

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/models"
)

// ToModelUser converts a domain User to a model User.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                 d.UserID,
		Name:                   d.Name,
		Email:                  d.Email,
		PasswordHash:           d.PasswordHash,
		AuthProvider:           string(d.AuthProvider),
		ProviderUserID:         d.ProviderUserID,
		RefreshTokenHash:       d.RefreshTokenHash,
		RefreshTokenExpiryTime: d.RefreshTokenExpiryTime,
		AuditFields:            ToModelAuditFields(d.AuditFields),
		DeletedAt:              d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                 m.UserID,
		Name:                   m.Name,
		Email:                  m.Email,
		PasswordHash:           m.PasswordHash,
		AuthProvider:           domain.AuthProvider(m.AuthProvider),
		ProviderUserID:         m.ProviderUserID,
		RefreshTokenHash:       m.RefreshTokenHash,
		RefreshTokenExpiryTime: m.RefreshTokenExpiryTime,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
		DeletedAt:              m.DeletedAt,
	}
}

// ToDomainUserSlice converts model Users to domain Users.
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
