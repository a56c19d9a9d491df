package repositories

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// StatementReader defines read operations for statements of account.
type StatementReader interface {
	// FindStatementByID retrieves a statement owned by the given company.
	FindStatementByID(ctx context.Context, companyID, statementID string) (*domain.StatementOfAccount, error)

	// FindStatementEntries retrieves the entries of a statement ordered by issue date.
	FindStatementEntries(ctx context.Context, statementID string) ([]domain.StatementEntry, error)

	// ListStatementsByClient retrieves a page of statements for one client.
	ListStatementsByClient(ctx context.Context, companyID, clientID string, limit int, nextToken *string) ([]domain.StatementOfAccount, *string, error)
}

// StatementWriter defines write operations for statements of account.
type StatementWriter interface {
	// SaveStatement persists a statement with its entries atomically.
	SaveStatement(ctx context.Context, statement domain.StatementOfAccount, entries []domain.StatementEntry) error
}

// StatementRepositoryFacade combines statement repository interfaces.
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
