package dto

import (
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// --- Company DTOs ---

// CreateCompanyRequest defines data for creating a new company.
type CreateCompanyRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode" binding:"required,iso4217"`
}

// CompanyResponse defines data returned for a company.
type CompanyResponse struct {
	CompanyID           string    `json:"companyID"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	DefaultCurrencyCode *string   `json:"defaultCurrencyCode,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	CreatedBy           string    `json:"createdBy"` // UserID
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy       string    `json:"lastUpdatedBy"` // UserID
}

// ToCompanyResponse converts domain.Company to DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:           c.CompanyID,
		Name:                c.Name,
		Description:         c.Description,
		DefaultCurrencyCode: c.DefaultCurrencyCode,
		CreatedAt:           c.CreatedAt,
		CreatedBy:           c.CreatedBy,
		LastUpdatedAt:       c.LastUpdatedAt,
		LastUpdatedBy:       c.LastUpdatedBy,
	}
}

// ListCompaniesResponse wraps a list of companies.
type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// ToListCompaniesResponse converts a slice of domain.Company to DTO.
func ToListCompaniesResponse(cs []domain.Company) ListCompaniesResponse {
	list := make([]CompanyResponse, len(cs))
	for i, c := range cs {
		list[i] = ToCompanyResponse(&c)
	}
	return ListCompaniesResponse{Companies: list}
}

// --- Company membership DTOs ---

// AddUserToCompanyRequest defines data for adding a user to a company.
type AddUserToCompanyRequest struct {
	UserID string                 `json:"userID" binding:"required"`
	Role   domain.UserCompanyRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// UserCompanyResponse defines data returned about a user's membership.
type UserCompanyResponse struct {
	UserID    string                 `json:"userID"`
	CompanyID string                 `json:"companyID"`
	Role      domain.UserCompanyRole `json:"role"`
	JoinedAt  time.Time              `json:"joinedAt"`
}

// ToUserCompanyResponse converts domain.UserCompany to DTO.
func ToUserCompanyResponse(uc *domain.UserCompany) UserCompanyResponse {
	return UserCompanyResponse{
		UserID:    uc.UserID,
		CompanyID: uc.CompanyID,
		Role:      uc.Role,
		JoinedAt:  uc.JoinedAt,
	}
}
