package models

// CompanySettings is the company_settings table row; at most one per company.
type CompanySettings struct {
	CompanyID           string `db:"company_id"`
	LegalName           string `db:"legal_name"`
	TaxRegistrationNo   string `db:"tax_registration_no"`
	Address             string `db:"address"`
	DefaultCurrencyCode string `db:"default_currency_code"`
	InvoicePrefix       string `db:"invoice_prefix"`
	NextSequence        int64  `db:"next_sequence"`
	SequenceScope       string `db:"sequence_scope"`
	SequenceResetPeriod string `db:"sequence_reset_period"`
	NumberingPolicy     string `db:"numbering_policy"`
	DefaultLocale       string `db:"default_locale"`
	AuditFields
}
