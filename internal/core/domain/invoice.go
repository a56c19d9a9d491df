package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VATRate is the flat value-added-tax rate applied uniformly to the
// discounted subtotal of every invoice. There is no per-line override.
var VATRate = decimal.RequireFromString("0.15")

// InvoiceType classifies the kind of work an invoice bills for.
type InvoiceType string

const (
	InvoiceTypeStandard  InvoiceType = "STANDARD"
	InvoiceTypeClearance InvoiceType = "CLEARANCE"
	InvoiceTypePort      InvoiceType = "PORT"
	InvoiceTypeTransport InvoiceType = "TRANSPORT"
)

// ValidInvoiceType reports whether t is a known invoice type.
func ValidInvoiceType(t InvoiceType) bool {
	switch t {
	case InvoiceTypeStandard, InvoiceTypeClearance, InvoiceTypePort, InvoiceTypeTransport:
		return true
	}
	return false
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// invoiceTransitions is the single source of truth for the legal status
// state machine. SENT never goes back to DRAFT; PAID and CANCELLED are
// terminal.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusSent},
	InvoiceStatusSent:      {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:      {},
	InvoiceStatusCancelled: {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Invoice represents a billing document issued by a company to one of its clients.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`     // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`     // FK -> companies.company_id (Not Null)
	ClientID      string          `json:"clientID"`      // FK -> clients.client_id (Not Null)
	InvoiceNumber string          `json:"invoiceNumber"` // Human-readable, unique per company; empty until allocated
	InvoiceType   InvoiceType     `json:"invoiceType"`
	Status        InvoiceStatus   `json:"status"`
	CurrencyCode  string          `json:"currencyCode"`
	Subtotal      decimal.Decimal `json:"subtotal"`  // Sum of line totals, before discount
	Discount      decimal.Decimal `json:"discount"`  // Flat currency amount, not a percentage
	VATAmount     decimal.Decimal `json:"vatAmount"` // Rounded once, at computation time
	Total         decimal.Decimal `json:"total"`     // taxableBase + vatAmount
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Notes         string          `json:"notes"` // Nullable user notes
	AuditFields
}

// IsTerminal reports whether the invoice has reached a terminal status.
func (inv *Invoice) IsTerminal() bool {
	return inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled
}

// IsEditable reports whether header fields and fee lines may still be modified.
// Only DRAFT and SENT invoices are editable; OVERDUE is a payment state, not
// an editing state, and terminal invoices are immutable financial records.
func (inv *Invoice) IsEditable() bool {
	return inv.Status == InvoiceStatusDraft || inv.Status == InvoiceStatusSent
}

// IsOverdueAt reports whether the invoice should be surfaced as OVERDUE at
// the given instant. Evaluated lazily on read; there is no background timer.
func (inv *Invoice) IsOverdueAt(now time.Time) bool {
	return inv.Status == InvoiceStatusSent && inv.DueDate.Before(now)
}
