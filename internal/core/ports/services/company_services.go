package services

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListUserCompanies retrieves companies a user belongs to.
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a new company and makes the creator its admin.
	CreateCompany(ctx context.Context, name, description, defaultCurrencyCode, creatorUserID string) (*domain.Company, error)
}

// CompanyMembershipSvc defines operations for managing company membership
type CompanyMembershipSvc interface {
	// AddUserToCompany adds a user to a company with a specific role.
	// Only company admins can add users.
	AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error
}

// CompanyAuthorizerSvc defines operations for company authorization
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has required permissions for a company.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error
}

// CompanySvcFacade combines all company-related service interfaces
// This is a facade for clients that need access to all operations
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyMembershipSvc
	CompanyAuthorizerSvc
}
