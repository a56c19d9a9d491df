package models

import "time"

// Company is the companies table row.
type Company struct {
	CompanyID           string  `db:"company_id"`
	Name                string  `db:"name"`
	Description         string  `db:"description"`
	DefaultCurrencyCode *string `db:"default_currency_code"`
	IsActive            bool    `db:"is_active"`
	AuditFields
}

// UserCompany is the user_companies membership table row.
type UserCompany struct {
	UserID    string    `db:"user_id"`
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}
