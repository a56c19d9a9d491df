package domain

import "github.com/shopspring/decimal"

// FeeCategory classifies an invoice fee line. The set is closed; anything
// that does not fit an explicit category is booked as OTHER.
type FeeCategory string

const (
	FeeCustomsDuty   FeeCategory = "CUSTOMS_DUTY"
	FeePortCharge    FeeCategory = "PORT_CHARGE"
	FeeServiceFee    FeeCategory = "SERVICE_FEE"
	FeeTransport     FeeCategory = "TRANSPORT"
	FeeStorage       FeeCategory = "STORAGE"
	FeeInspection    FeeCategory = "INSPECTION"
	FeeDocumentation FeeCategory = "DOCUMENTATION"
	FeeOther         FeeCategory = "OTHER"
)

// ValidFeeCategory reports whether c is a known fee category.
func ValidFeeCategory(c FeeCategory) bool {
	switch c {
	case FeeCustomsDuty, FeePortCharge, FeeServiceFee, FeeTransport,
		FeeStorage, FeeInspection, FeeDocumentation, FeeOther:
		return true
	}
	return false
}

// InvoiceItem is a single fee line on an invoice. Rendering order is
// governed by SortOrder, never by insertion time.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`    // Primary Key (UUID)
	InvoiceID   string          `json:"invoiceID"` // FK -> invoices.invoice_id (Not Null)
	Description string          `json:"description"`
	FeeCategory FeeCategory     `json:"feeCategory"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"` // quantity * unitPrice
	SortOrder   int             `json:"sortOrder"`
	AuditFields
}
