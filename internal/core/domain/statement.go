package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementOfAccount summarises billed activity for a single client over a
// period. It mirrors the invoice structure (ordered lines, recomputed
// totals) but is scoped to a client rather than one transaction.
type StatementOfAccount struct {
	StatementID  string          `json:"statementID"` // Primary Key (UUID)
	CompanyID    string          `json:"companyID"`   // FK -> companies.company_id (Not Null)
	ClientID     string          `json:"clientID"`    // FK -> clients.client_id (Not Null)
	CurrencyCode string          `json:"currencyCode"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	VATAmount    decimal.Decimal `json:"vatAmount"`
	Total        decimal.Decimal `json:"total"`
	AuditFields
}

// StatementEntry is a single line on a statement of account. Ordering is
// governed by SortOrder, same as invoice items.
type StatementEntry struct {
	EntryID     string          `json:"entryID"`     // Primary Key (UUID)
	StatementID string          `json:"statementID"` // FK -> statements.statement_id (Not Null)
	Description string          `json:"description"`
	FeeCategory FeeCategory     `json:"feeCategory"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	SortOrder   int             `json:"sortOrder"`
	AuditFields
}
