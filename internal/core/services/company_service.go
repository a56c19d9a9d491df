package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
)

// companyService manages companies and their memberships.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: companyRepo,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// CreateCompany persists a new company and makes the creator its admin.
// Implements portssvc.CompanySvcFacade
func (s *companyService) CreateCompany(ctx context.Context, name, description, defaultCurrencyCode, creatorUserID string) (*domain.Company, error) {
	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:           uuid.NewString(),
		Name:                name,
		Description:         description,
		DefaultCurrencyCode: &defaultCurrencyCode,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("creator_user_id", creatorUserID))
		return nil, err
	}

	membership := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: company.CompanyID,
		Role:      domain.RoleAdmin,
		JoinedAt:  now,
	}
	if err := s.companyRepo.SaveUserCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to save creator membership", slog.String("company_id", company.CompanyID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID), slog.String("creator_user_id", creatorUserID))
	return &company, nil
}

// FindCompanyByID retrieves a specific company by its ID.
// Implements portssvc.CompanySvcFacade
func (s *companyService) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// ListUserCompanies retrieves companies a user belongs to.
// Implements portssvc.CompanySvcFacade
func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	return s.companyRepo.ListCompaniesByUser(ctx, userID)
}

// AddUserToCompany adds a user to a company with a specific role.
// Implements portssvc.CompanySvcFacade
func (s *companyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	if err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.RoleAdmin); err != nil {
		s.LogDebug(ctx, "User not authorized to add members to company",
			slog.String("adding_user_id", addingUserID),
			slog.String("company_id", companyID))
		return err
	}

	membership := domain.UserCompany{
		UserID:    targetUserID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.companyRepo.SaveUserCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to company",
			slog.String("target_user_id", targetUserID),
			slog.String("company_id", companyID))
		return err
	}

	s.LogInfo(ctx, "User added to company",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions for a company
// Implements portssvc.CompanySvcFacade
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	role, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of company",
				slog.String("user_id", userID),
				slog.String("company_id", companyID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find user company role",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return err
	}

	if !hasRequiredRole(*role, requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("user_role", string(*role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}
	return nil
}

// hasRequiredRole checks if the user's role meets or exceeds the required role
func hasRequiredRole(userRole, requiredRole domain.UserCompanyRole) bool {
	// Simple role hierarchy check
	switch requiredRole {
	case domain.RoleReadOnly:
		return userRole == domain.RoleReadOnly || userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleMember:
		return userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleAdmin:
		return userRole == domain.RoleAdmin
	default:
		return false
	}
}
