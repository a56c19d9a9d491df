package repositories

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// CompanyReader defines read operations for company data.
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByUser retrieves all companies a user belongs to.
	ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error)

	// FindUserCompanyRole retrieves the role a user holds in a company.
	// Returns apperrors.ErrNotFound when the user is not a member.
	FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompanyRole, error)
}

// CompanyWriter defines write operations for company data.
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// SaveUserCompany persists or updates a user's membership in a company.
	SaveUserCompany(ctx context.Context, userCompany domain.UserCompany) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces.
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
