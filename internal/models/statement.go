package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementOfAccount is the statements table row.
type StatementOfAccount struct {
	StatementID  string          `db:"statement_id"`
	CompanyID    string          `db:"company_id"`
	ClientID     string          `db:"client_id"`
	CurrencyCode string          `db:"currency_code"`
	PeriodStart  time.Time       `db:"period_start"`
	PeriodEnd    time.Time       `db:"period_end"`
	Subtotal     decimal.Decimal `db:"subtotal"`
	Discount     decimal.Decimal `db:"discount"`
	VATAmount    decimal.Decimal `db:"vat_amount"`
	Total        decimal.Decimal `db:"total"`
	AuditFields
}

// StatementEntry is the statement_entries table row.
type StatementEntry struct {
	EntryID     string          `db:"entry_id"`
	StatementID string          `db:"statement_id"`
	Description string          `db:"description"`
	FeeCategory string          `db:"fee_category"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total"`
	SortOrder   int             `db:"sort_order"`
	AuditFields
}
