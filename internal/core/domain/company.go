package domain

import "time"

// Company is the tenancy unit. Every invoice, client, and statement belongs
// to exactly one company, and every read is scoped by company membership.
type Company struct {
	CompanyID           string  `json:"companyID"` // Primary Key (UUID)
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"` // e.g. "SAR"
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// UserCompanyRole defines the possible roles a user can have within a company.
type UserCompanyRole string

const (
	RoleAdmin    UserCompanyRole = "ADMIN"
	RoleMember   UserCompanyRole = "MEMBER"
	RoleReadOnly UserCompanyRole = "READONLY"
	RoleRemoved  UserCompanyRole = "REMOVED"
)

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string          `json:"userID"`
	UserName  string          `json:"userName"`
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	JoinedAt  time.Time       `json:"joinedAt"`
}
