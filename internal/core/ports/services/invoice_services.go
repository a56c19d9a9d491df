package services

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data.
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its fee lines. A SENT invoice
	// whose due date has passed is surfaced (and persisted) as OVERDUE.
	GetInvoiceByID(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, []domain.InvoiceItem, error)

	// ListInvoices retrieves a paginated list of invoices in a company.
	ListInvoices(ctx context.Context, companyID string, requestingUserID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
}

// InvoiceWriterSvc defines write operations for invoice data.
type InvoiceWriterSvc interface {
	// CreateInvoice persists a new draft invoice with its fee lines, computing
	// all totals server side. The invoice number is allocated now or at send
	// time depending on the company's numbering policy.
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, []domain.InvoiceItem, error)

	// CreateInvoiceFromPreset persists a new draft pre-filled from a named
	// preset or clearance stage template.
	CreateInvoiceFromPreset(ctx context.Context, companyID string, req dto.CreateInvoiceFromPresetRequest, creatorUserID string) (*domain.Invoice, []domain.InvoiceItem, error)

	// UpdateInvoice edits an invoice's mutable fields and replaces its fee
	// lines, recomputing totals. Rejected with apperrors.ErrImmutableInvoice
	// once the invoice leaves the editable statuses.
	UpdateInvoice(ctx context.Context, companyID string, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, []domain.InvoiceItem, error)

	// DeleteInvoice removes a DRAFT invoice. Any other status is rejected.
	DeleteInvoice(ctx context.Context, companyID string, invoiceID string, requestingUserID string) error
}

// InvoiceLifecycleSvc defines status transition operations.
type InvoiceLifecycleSvc interface {
	// SendInvoice moves DRAFT to SENT, finalizing the invoice number when the
	// company numbers at send time.
	SendInvoice(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// MarkInvoicePaid moves SENT or OVERDUE to PAID.
	MarkInvoicePaid(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// CancelInvoice moves SENT or OVERDUE to CANCELLED.
	CancelInvoice(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)
}

// InvoiceDocumentSvc defines printable document operations.
type InvoiceDocumentSvc interface {
	// RenderInvoicePDF produces the printable PDF for an invoice in the given
	// locale ("ar" renders Arabic-Indic numerals and the amount in words).
	RenderInvoicePDF(ctx context.Context, companyID string, invoiceID string, locale string, requestingUserID string) ([]byte, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
// This is a facade for clients that need access to all operations
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceLifecycleSvc
	InvoiceDocumentSvc
}
