package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	"github.com/safinah-app/clearance_billing_app/internal/models"
	"github.com/safinah-app/clearance_billing_app/internal/utils/mapping"
	"github.com/safinah-app/clearance_billing_app/internal/utils/pagination"
)

type PgxStatementRepository struct {
	BaseRepository
}

func newPgxStatementRepository(db *pgxpool.Pool) portsrepo.StatementRepositoryFacade {
	return &PgxStatementRepository{BaseRepository{Pool: db}}
}

// Ensure PgxStatementRepository implements portsrepo.StatementRepositoryFacade
var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

const statementSelectColumns = `
	statement_id, company_id, client_id, currency_code, period_start, period_end,
	subtotal, discount, vat_amount, total,
	created_at, created_by, last_updated_at, last_updated_by`

func scanStatement(row pgx.Row) (*models.StatementOfAccount, error) {
	var m models.StatementOfAccount
	err := row.Scan(
		&m.StatementID, &m.CompanyID, &m.ClientID, &m.CurrencyCode, &m.PeriodStart, &m.PeriodEnd,
		&m.Subtotal, &m.Discount, &m.VATAmount, &m.Total,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveStatement persists a statement header together with its entries in one
// transaction.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.StatementOfAccount, entries []domain.StatementEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelStatement(statement)
	headerQuery := `
		INSERT INTO statements (
			statement_id, company_id, client_id, currency_code, period_start, period_end,
			subtotal, discount, vat_amount, total,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.StatementID, m.CompanyID, m.ClientID, m.CurrencyCode, m.PeriodStart, m.PeriodEnd,
		m.Subtotal, m.Discount, m.VATAmount, m.Total,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}

	if len(entries) > 0 {
		entryQuery := `
			INSERT INTO statement_entries (
				entry_id, statement_id, description, fee_category, quantity, unit_price, line_total, sort_order,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		batch := &pgx.Batch{}
		for _, entry := range entries {
			em := mapping.ToModelStatementEntry(entry)
			batch.Queue(entryQuery,
				em.EntryID, em.StatementID, em.Description, em.FeeCategory, em.Quantity, em.UnitPrice, em.LineTotal, em.SortOrder,
				em.CreatedAt, em.CreatedBy, em.LastUpdatedAt, em.LastUpdatedBy,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range entries {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert statement entry: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close statement entry batch: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindStatementByID retrieves a statement owned by the given company.
func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, companyID, statementID string) (*domain.StatementOfAccount, error) {
	query := `SELECT` + statementSelectColumns + `
		FROM statements
		WHERE statement_id = $1 AND company_id = $2;
	`
	m, err := scanStatement(r.Pool.QueryRow(ctx, query, statementID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	statement := mapping.ToDomainStatement(*m)
	return &statement, nil
}

// FindStatementEntries retrieves a statement's entries ordered by position.
func (r *PgxStatementRepository) FindStatementEntries(ctx context.Context, statementID string) ([]domain.StatementEntry, error) {
	query := `
		SELECT entry_id, statement_id, description, fee_category, quantity, unit_price, line_total, sort_order,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM statement_entries
		WHERE statement_id = $1
		ORDER BY sort_order ASC;
	`
	rows, err := r.Pool.Query(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement entries: %w", err)
	}
	defer rows.Close()

	var ms []models.StatementEntry
	for rows.Next() {
		var m models.StatementEntry
		err := rows.Scan(
			&m.EntryID, &m.StatementID, &m.Description, &m.FeeCategory, &m.Quantity, &m.UnitPrice, &m.LineTotal, &m.SortOrder,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement entry: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement entries: %w", err)
	}

	return mapping.ToDomainStatementEntrySlice(ms), nil
}

// ListStatementsByClient retrieves a page of statements for one client ordered
// by creation time descending.
func (r *PgxStatementRepository) ListStatementsByClient(ctx context.Context, companyID, clientID string, limit int, nextToken *string) ([]domain.StatementOfAccount, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT` + statementSelectColumns + ` FROM statements WHERE company_id = $1 AND client_id = $2`
	args := []interface{}{companyID, clientID}

	if nextToken != nil && *nextToken != "" {
		createdAt, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		args = append(args, createdAt)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query statements: %w", err)
	}
	defer rows.Close()

	var statements []domain.StatementOfAccount
	var ms []models.StatementOfAccount
	for rows.Next() {
		m, err := scanStatement(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating statements: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		t := pagination.EncodeDateBasedToken(ms[len(ms)-1].CreatedAt)
		token = &t
	}
	for _, m := range ms {
		statements = append(statements, mapping.ToDomainStatement(m))
	}

	return statements, token, nil
}
