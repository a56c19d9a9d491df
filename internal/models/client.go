package models

import "time"

// Client is the clients table row.
type Client struct {
	ClientID          string `db:"client_id"`
	CompanyID         string `db:"company_id"`
	Name              string `db:"name"`
	Email             string `db:"email"`
	Phone             string `db:"phone"`
	TaxRegistrationNo string `db:"tax_registration_no"`
	Address           string `db:"address"`
	IsActive          bool   `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
