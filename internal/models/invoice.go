package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors domain.InvoiceStatus at the storage layer.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is the invoices table row. InvoiceNumber is NULLable in the
// schema (drafts under on_send numbering carry none); the empty string maps
// to NULL so the partial unique index on (company_id, invoice_number) never
// sees two unnumbered drafts as duplicates.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	CompanyID     string          `db:"company_id"`
	ClientID      string          `db:"client_id"`
	InvoiceNumber string          `db:"invoice_number"`
	InvoiceType   string          `db:"invoice_type"`
	Status        InvoiceStatus   `db:"status"`
	CurrencyCode  string          `db:"currency_code"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Discount      decimal.Decimal `db:"discount"`
	VATAmount     decimal.Decimal `db:"vat_amount"`
	Total         decimal.Decimal `db:"total"`
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       time.Time       `db:"due_date"`
	Notes         string          `db:"notes"`
	AuditFields
}

// InvoiceItem is the invoice_items table row.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	FeeCategory string          `db:"fee_category"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total"`
	SortOrder   int             `db:"sort_order"`
	AuditFields
}
