package domain

import "time"

// Client is a customer of a company: the importer/exporter whose shipments
// are being cleared and billed.
type Client struct {
	ClientID          string `json:"clientID"`  // Primary Key (UUID)
	CompanyID         string `json:"companyID"` // FK -> companies.company_id (Not Null)
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	TaxRegistrationNo string `json:"taxRegistrationNo"`
	Address           string `json:"address"`
	IsActive          bool   `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
