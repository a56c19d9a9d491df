package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	"github.com/safinah-app/clearance_billing_app/internal/models"
	"github.com/safinah-app/clearance_billing_app/internal/utils/mapping"
	"github.com/safinah-app/clearance_billing_app/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice and fee line data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceSelectColumns = `
	invoice_id, company_id, client_id, COALESCE(invoice_number, ''), invoice_type, status,
	currency_code, subtotal, discount, vat_amount, total, issue_date, due_date, COALESCE(notes, ''),
	created_at, created_by, last_updated_at, last_updated_by`

// scanInvoice scans one invoices row in invoiceSelectColumns order.
func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID, &m.CompanyID, &m.ClientID, &m.InvoiceNumber, &m.InvoiceType, &m.Status,
		&m.CurrencyCode, &m.Subtotal, &m.Discount, &m.VATAmount, &m.Total, &m.IssueDate, &m.DueDate, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// isUniqueViolation reports whether err is a unique_violation on the named constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" { // unique_violation
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// invoiceNumberConstraint is the partial unique index guarding one number per company.
const invoiceNumberConstraint = "idx_invoices_company_number"

// editableStatuses mirror domain.Invoice.IsEditable for conditional writes:
// header and fee-line edits only land while the row still holds one of these.
var editableStatuses = []string{string(domain.InvoiceStatusDraft), string(domain.InvoiceStatusSent)}

// nextInScope picks the sequence value for an invoice issued at issuedAt.
// A stored scope left over from a previous month or year restarts numbering at 1.
func nextInScope(settings domain.CompanySettings, storedScope string, issuedAt time.Time) (int64, string) {
	scope := settings.ScopeFor(issuedAt)
	if scope != storedScope {
		return 1, scope
	}
	return settings.NextSequence, scope
}

// allocateNumberTx advances the company's sequence and returns the formatted
// invoice number. The settings row is locked FOR UPDATE for the rest of the
// enclosing transaction, serializing allocation per company. A scope change
// (new month or year under a reset period) restarts the sequence at 1.
func (r *PgxInvoiceRepository) allocateNumberTx(ctx context.Context, tx pgx.Tx, companyID string, issuedAt time.Time, userID string) (string, error) {
	// Companies that never saved settings still get numbered invoices:
	// seed the row with defaults before locking it.
	def := mapping.ToModelCompanySettings(domain.DefaultCompanySettings(companyID))
	now := time.Now().UTC()
	_, err := tx.Exec(ctx, `
		INSERT INTO company_settings (
			company_id, legal_name, tax_registration_no, address, default_currency_code,
			invoice_prefix, next_sequence, sequence_scope, sequence_reset_period, numbering_policy,
			default_locale, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (company_id) DO NOTHING;
	`,
		def.CompanyID, def.LegalName, def.TaxRegistrationNo, def.Address, def.DefaultCurrencyCode,
		def.InvoicePrefix, def.NextSequence, def.SequenceScope, def.SequenceResetPeriod, def.NumberingPolicy,
		def.DefaultLocale, now, userID, now, userID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to seed company settings: %w", err)
	}

	settings := domain.CompanySettings{CompanyID: companyID}
	var storedScope string
	err = tx.QueryRow(ctx, `
		SELECT invoice_prefix, next_sequence, sequence_scope, sequence_reset_period
		FROM company_settings
		WHERE company_id = $1
		FOR UPDATE;
	`, companyID).Scan(&settings.InvoicePrefix, &settings.NextSequence, &storedScope, &settings.SequenceResetPeriod)
	if err != nil {
		return "", fmt.Errorf("failed to lock company settings: %w", err)
	}

	seq, scope := nextInScope(settings, storedScope, issuedAt)
	number := settings.FormatInvoiceNumber(seq, issuedAt)

	_, err = tx.Exec(ctx, `
		UPDATE company_settings
		SET next_sequence = $2, sequence_scope = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1;
	`, companyID, seq+1, scope, now, userID)
	if err != nil {
		return "", fmt.Errorf("failed to advance invoice sequence: %w", err)
	}
	return number, nil
}

// insertItemsTx batch inserts the invoice's fee lines.
func insertItemsTx(ctx context.Context, tx pgx.Tx, items []domain.InvoiceItem) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO invoice_items (
			item_id, invoice_id, description, fee_category, quantity, unit_price, line_total, sort_order,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, item := range items {
		m := mapping.ToModelInvoiceItem(item)
		batch.Queue(query,
			m.ItemID, m.InvoiceID, m.Description, m.FeeCategory, m.Quantity, m.UnitPrice, m.LineTotal, m.SortOrder,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

// createInvoiceOnce runs one creation attempt in its own transaction.
func (r *PgxInvoiceRepository) createInvoiceOnce(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem, allocateNumber bool) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if allocateNumber {
		number, err := r.allocateNumberTx(ctx, tx, invoice.CompanyID, invoice.IssueDate, invoice.CreatedBy)
		if err != nil {
			return nil, err
		}
		invoice.InvoiceNumber = number
	}

	m := mapping.ToModelInvoice(invoice)
	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (
			invoice_id, company_id, client_id, invoice_number, invoice_type, status,
			currency_code, subtotal, discount, vat_amount, total, issue_date, due_date, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`,
		m.InvoiceID, m.CompanyID, m.ClientID, m.InvoiceNumber, m.InvoiceType, m.Status,
		m.CurrencyCode, m.Subtotal, m.Discount, m.VATAmount, m.Total, m.IssueDate, m.DueDate, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := insertItemsTx(ctx, tx, items); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice persists a new invoice with its fee lines. A number collision
// (possible when a company changes its prefix back to one it used before) is
// retried once with a freshly read sequence before surfacing ErrConflict.
func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem, allocateNumber bool) (*domain.Invoice, error) {
	return createWithNumberRetry(allocateNumber, func() (*domain.Invoice, error) {
		return r.createInvoiceOnce(ctx, invoice, items, allocateNumber)
	})
}

// createWithNumberRetry classifies creation failures. A collision on the
// invoice number index gets one more attempt, which re-reads the advanced
// sequence in a fresh transaction; a second collision surfaces ErrConflict.
// A unique violation on any other constraint means the invoice row itself
// already exists.
func createWithNumberRetry(allocateNumber bool, attempt func() (*domain.Invoice, error)) (*domain.Invoice, error) {
	saved, err := attempt()
	if err == nil {
		return saved, nil
	}
	if allocateNumber && isUniqueViolation(err, invoiceNumberConstraint) {
		saved, err = attempt()
		if err == nil {
			return saved, nil
		}
		if isUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: invoice number collision persisted after retry", apperrors.ErrConflict)
		}
		return nil, err
	}
	if isUniqueViolation(err, "") {
		return nil, fmt.Errorf("%w: invoice already exists", apperrors.ErrDuplicate)
	}
	return nil, fmt.Errorf("failed to create invoice: %w", err)
}

// FindInvoiceByID retrieves an invoice owned by the given company.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT` + invoiceSelectColumns + `
		FROM invoices
		WHERE invoice_id = $1 AND company_id = $2;
	`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	inv := mapping.ToDomainInvoice(*m)
	return &inv, nil
}

// FindInvoiceItems retrieves the fee lines of an invoice ordered by sort_order.
func (r *PgxInvoiceRepository) FindInvoiceItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
		SELECT item_id, invoice_id, description, fee_category, quantity, unit_price, line_total, sort_order,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY sort_order ASC;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var ms []models.InvoiceItem
	for rows.Next() {
		var m models.InvoiceItem
		if err := rows.Scan(
			&m.ItemID, &m.InvoiceID, &m.Description, &m.FeeCategory, &m.Quantity, &m.UnitPrice, &m.LineTotal, &m.SortOrder,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}
	return mapping.ToDomainInvoiceItemSlice(ms), nil
}

// ListInvoicesByCompany retrieves a page of invoices ordered by issue date
// descending with keyset pagination.
func (r *PgxInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, filter portsrepo.InvoiceListFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT` + invoiceSelectColumns + ` FROM invoices WHERE company_id = $1`
	args := []interface{}{companyID}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if nextToken != nil && *nextToken != "" {
		issueDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		args = append(args, issueDate, createdAt)
		query += fmt.Sprintf(" AND (issue_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY issue_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var ms []models.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.IssueDate, last.CreatedAt)
		token = &t
	}

	invoices := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		invoices[i] = mapping.ToDomainInvoice(m)
	}
	return invoices, token, nil
}

// UpdateInvoiceWithItems replaces header fields, totals, and the full
// fee-line set atomically. The update only lands while the row still holds
// an editable status; a concurrent move to PAID or CANCELLED between the
// caller's read and this write surfaces ErrConflict instead of rewriting a
// finalized invoice.
func (r *PgxInvoiceRepository) UpdateInvoiceWithItems(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	tag, err := tx.Exec(ctx, `
		UPDATE invoices
		SET subtotal = $3, discount = $4, vat_amount = $5, total = $6,
		    due_date = $7, notes = $8, last_updated_at = $9, last_updated_by = $10
		WHERE invoice_id = $1 AND company_id = $2 AND status = ANY($11);
	`,
		m.InvoiceID, m.CompanyID, m.Subtotal, m.Discount, m.VATAmount, m.Total,
		m.DueDate, m.Notes, m.LastUpdatedAt, m.LastUpdatedBy, editableStatuses,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_id = $1 AND company_id = $2);`, invoice.InvoiceID, invoice.CompanyID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check invoice existence: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: invoice left an editable status concurrently", apperrors.ErrConflict)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return fmt.Errorf("failed to clear invoice items: %w", err)
	}
	if err := insertItemsTx(ctx, tx, items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceStatus performs a conditional status move (WHERE status = from).
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, companyID, invoiceID string, from, to domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE invoices
		SET status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1 AND company_id = $2 AND status = $3;
	`, invoiceID, companyID, string(from), string(to), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing invoice from one that moved concurrently.
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_id = $1 AND company_id = $2);`, invoiceID, companyID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check invoice existence: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: invoice left status %s concurrently", apperrors.ErrConflict, from)
	}
	return nil
}

// markSentOnce runs one send attempt in its own transaction.
func (r *PgxInvoiceRepository) markSentOnce(ctx context.Context, companyID, invoiceID, updatedBy string, sentAt time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT` + invoiceSelectColumns + `
		FROM invoices
		WHERE invoice_id = $1 AND company_id = $2
		FOR UPDATE;
	`
	m, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock invoice %s: %w", invoiceID, err)
	}
	if m.Status != models.InvoiceStatusDraft {
		return nil, fmt.Errorf("%w: invoice left status DRAFT concurrently", apperrors.ErrConflict)
	}

	if m.InvoiceNumber == "" {
		number, err := r.allocateNumberTx(ctx, tx, companyID, sentAt, updatedBy)
		if err != nil {
			return nil, err
		}
		m.InvoiceNumber = number
	}

	m.Status = models.InvoiceStatusSent
	m.LastUpdatedAt = sentAt
	m.LastUpdatedBy = updatedBy
	_, err = tx.Exec(ctx, `
		UPDATE invoices
		SET status = $3, invoice_number = NULLIF($4, ''), last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1 AND company_id = $2;
	`, invoiceID, companyID, m.Status, m.InvoiceNumber, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	inv := mapping.ToDomainInvoice(*m)
	return &inv, nil
}

// MarkInvoiceSent moves a DRAFT invoice to SENT, allocating its number first
// if it has none. Number collisions get the same single retry as creation.
func (r *PgxInvoiceRepository) MarkInvoiceSent(ctx context.Context, companyID, invoiceID, updatedBy string, sentAt time.Time) (*domain.Invoice, error) {
	return sendWithNumberRetry(func() (*domain.Invoice, error) {
		return r.markSentOnce(ctx, companyID, invoiceID, updatedBy, sentAt)
	})
}

// sendWithNumberRetry gives send-time number allocation the same single
// retry as creation.
func sendWithNumberRetry(attempt func() (*domain.Invoice, error)) (*domain.Invoice, error) {
	sent, err := attempt()
	if err == nil || !isUniqueViolation(err, invoiceNumberConstraint) {
		return sent, err
	}
	sent, err = attempt()
	if err == nil {
		return sent, nil
	}
	if isUniqueViolation(err, "") {
		return nil, fmt.Errorf("%w: invoice number collision persisted after retry", apperrors.ErrConflict)
	}
	return nil, err
}

// MarkInvoiceOverdueIfDue flips SENT to OVERDUE when the due date has elapsed.
func (r *PgxInvoiceRepository) MarkInvoiceOverdueIfDue(ctx context.Context, companyID, invoiceID string, asOf time.Time, updatedBy string) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE invoices
		SET status = $4, last_updated_at = $3, last_updated_by = $5
		WHERE invoice_id = $1 AND company_id = $2 AND status = $6 AND due_date < $3;
	`, invoiceID, companyID, asOf, string(domain.InvoiceStatusOverdue), updatedBy, string(domain.InvoiceStatusSent))
	if err != nil {
		return false, fmt.Errorf("failed to mark invoice overdue: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteDraftInvoice removes a DRAFT invoice and its fee lines.
func (r *PgxInvoiceRepository) DeleteDraftInvoice(ctx context.Context, companyID, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice items: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM invoices
		WHERE invoice_id = $1 AND company_id = $2 AND status = $3;
	`, invoiceID, companyID, string(domain.InvoiceStatusDraft))
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_id = $1 AND company_id = $2);`, invoiceID, companyID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check invoice existence: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: invoice left status DRAFT concurrently", apperrors.ErrConflict)
	}

	return r.Commit(ctx, tx)
}
