package repositories

import (
	"context"
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// InvoiceListFilter narrows invoice listings. Nil fields mean "no filter".
type InvoiceListFilter struct {
	ClientID *string
	Status   *domain.InvoiceStatus
}

// InvoiceReader defines read operations for invoice data. All reads are
// scoped by company id; an invoice owned by another company behaves exactly
// like a missing one.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice owned by the given company.
	FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceItems retrieves the fee lines of an invoice ordered by sort_order.
	FindInvoiceItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error)

	// ListInvoicesByCompany retrieves a page of invoices using token-based pagination.
	ListInvoicesByCompany(ctx context.Context, companyID string, filter InvoiceListFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data. Number
// allocation, row insertion, and fee-line writes are each a single storage
// transaction so concurrent requests can never observe a half-written
// invoice or share a sequence value.
type InvoiceWriter interface {
	// CreateInvoice persists a new invoice with its fee lines. When
	// allocateNumber is true the per-company sequence is advanced and the
	// resulting number stored, all inside one transaction; a unique-index
	// collision is retried once with a re-read sequence before surfacing
	// apperrors.ErrConflict. The stored invoice (with any allocated
	// number) is returned.
	CreateInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem, allocateNumber bool) (*domain.Invoice, error)

	// UpdateInvoiceWithItems replaces the invoice header fields, totals, and
	// the full fee-line set atomically. The write is conditional on the row
	// still holding an editable status (DRAFT or SENT): a concurrent move to
	// a terminal status returns apperrors.ErrConflict, a missing invoice
	// apperrors.ErrNotFound.
	UpdateInvoiceWithItems(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem) error

	// UpdateInvoiceStatus performs a conditional status move (WHERE status =
	// from). Returns apperrors.ErrConflict when the row was concurrently
	// moved out of the expected status, apperrors.ErrNotFound when the
	// invoice does not exist for this company.
	UpdateInvoiceStatus(ctx context.Context, companyID, invoiceID string, from, to domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error

	// MarkInvoiceSent moves a DRAFT invoice to SENT, allocating its number
	// first if it has none, in one transaction.
	MarkInvoiceSent(ctx context.Context, companyID, invoiceID, updatedBy string, sentAt time.Time) (*domain.Invoice, error)

	// MarkInvoiceOverdueIfDue flips SENT to OVERDUE when the due date has
	// elapsed. Idempotent: a no-op (false) when the invoice is not SENT or
	// not yet due.
	MarkInvoiceOverdueIfDue(ctx context.Context, companyID, invoiceID string, asOf time.Time, updatedBy string) (bool, error)

	// DeleteDraftInvoice removes a DRAFT invoice and its fee lines.
	DeleteDraftInvoice(ctx context.Context, companyID, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities.
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
