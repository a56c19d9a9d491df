package services

import (
	"context"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// StatementReaderSvc defines read operations for statements of account.
type StatementReaderSvc interface {
	// GetStatementByID retrieves a statement with its entries.
	GetStatementByID(ctx context.Context, companyID string, statementID string, requestingUserID string) (*domain.StatementOfAccount, []domain.StatementEntry, error)

	// ListStatements retrieves a paginated list of a client's statements.
	ListStatements(ctx context.Context, companyID string, requestingUserID string, params dto.ListStatementsParams) (*dto.ListStatementsResponse, error)
}

// StatementWriterSvc defines write operations for statements of account.
type StatementWriterSvc interface {
	// GenerateStatement builds and persists a statement of account from the
	// client's non-cancelled invoices issued inside the period.
	GenerateStatement(ctx context.Context, companyID string, req dto.CreateStatementRequest, creatorUserID string) (*domain.StatementOfAccount, []domain.StatementEntry, error)
}

// StatementSvcFacade combines statement service interfaces.
type StatementSvcFacade interface {
	StatementReaderSvc
	StatementWriterSvc
}
