package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
	"github.com/safinah-app/clearance_billing_app/internal/middleware"
)

var ErrEmptyStatementPeriod = errors.New("no issued invoices in the requested period")

// statementGenerationPageSize bounds each invoice page read while building a
// statement.
const statementGenerationPageSize = 100

// statementService builds and serves per-client statements of account.
type statementService struct {
	statementRepo portsrepo.StatementRepositoryFacade
	invoiceRepo   portsrepo.InvoiceReader
	clientRepo    portsrepo.ClientReader
	settingsRepo  portsrepo.SettingsRepositoryFacade
	companySvc    portssvc.CompanySvcFacade
}

// NewStatementService creates a new StatementService.
func NewStatementService(
	statementRepo portsrepo.StatementRepositoryFacade,
	invoiceRepo portsrepo.InvoiceReader,
	clientRepo portsrepo.ClientReader,
	settingsRepo portsrepo.SettingsRepositoryFacade,
	companySvc portssvc.CompanySvcFacade,
) portssvc.StatementSvcFacade {
	return &statementService{
		statementRepo: statementRepo,
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		settingsRepo:  settingsRepo,
		companySvc:    companySvc,
	}
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// issuedInPeriod reports whether the invoice belongs on a statement for the
// given period: issued inside it and not a draft or cancellation.
func issuedInPeriod(inv *domain.Invoice, start, end time.Time) bool {
	switch inv.Status {
	case domain.InvoiceStatusDraft, domain.InvoiceStatusCancelled:
		return false
	}
	return !inv.IssueDate.Before(start) && !inv.IssueDate.After(end)
}

// GenerateStatement builds and persists a statement of account from the
// client's issued invoices inside the period.
// Implements portssvc.StatementSvcFacade
func (s *statementService) GenerateStatement(ctx context.Context, companyID string, req dto.CreateStatementRequest, creatorUserID string) (*domain.StatementOfAccount, []domain.StatementEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		return nil, nil, err
	}
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, nil, fmt.Errorf("%w: period end must be after period start", apperrors.ErrValidation)
	}

	client, err := s.clientRepo.FindClientByID(ctx, companyID, req.ClientID)
	if err != nil {
		return nil, nil, err
	}

	currency := ""
	if settings, err := s.settingsRepo.FindSettingsByCompany(ctx, companyID); err == nil {
		currency = settings.DefaultCurrencyCode
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, err
	}

	// Walk every invoice page for the client; the period filter is applied in
	// memory since issue date is not part of the list filter.
	filter := portsrepo.InvoiceListFilter{ClientID: &client.ClientID}
	var included []domain.Invoice
	var nextToken *string
	for {
		page, token, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, filter, statementGenerationPageSize, nextToken)
		if err != nil {
			return nil, nil, err
		}
		for _, inv := range page {
			if issuedInPeriod(&inv, req.PeriodStart, req.PeriodEnd) {
				included = append(included, inv)
			}
		}
		if token == nil {
			break
		}
		nextToken = token
	}
	if len(included) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEmptyStatementPeriod)
	}

	now := time.Now().UTC()
	statementID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	subtotal, discount, vat, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	entries := make([]domain.StatementEntry, len(included))
	for i, inv := range included {
		if currency == "" {
			currency = inv.CurrencyCode
		}
		subtotal = subtotal.Add(inv.Subtotal)
		discount = discount.Add(inv.Discount)
		vat = vat.Add(inv.VATAmount)
		total = total.Add(inv.Total)

		entries[i] = domain.StatementEntry{
			EntryID:     uuid.NewString(),
			StatementID: statementID,
			Description: fmt.Sprintf("Invoice %s (%s)", inv.InvoiceNumber, inv.InvoiceType),
			FeeCategory: domain.FeeOther,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   inv.Total,
			LineTotal:   inv.Total,
			SortOrder:   i,
			AuditFields: audit,
		}
	}

	statement := domain.StatementOfAccount{
		StatementID:  statementID,
		CompanyID:    companyID,
		ClientID:     client.ClientID,
		CurrencyCode: currency,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		Subtotal:     subtotal,
		Discount:     discount,
		VATAmount:    vat,
		Total:        total,
		AuditFields:  audit,
	}

	if err := s.statementRepo.SaveStatement(ctx, statement, entries); err != nil {
		logger.Error("Failed to save statement", slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	logger.Info("Statement generated",
		slog.String("statement_id", statementID),
		slog.String("client_id", client.ClientID),
		slog.Int("invoice_count", len(included)),
	)
	return &statement, entries, nil
}

// GetStatementByID retrieves a statement with its entries.
// Implements portssvc.StatementSvcFacade
func (s *statementService) GetStatementByID(ctx context.Context, companyID string, statementID string, requestingUserID string) (*domain.StatementOfAccount, []domain.StatementEntry, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}

	statement, err := s.statementRepo.FindStatementByID(ctx, companyID, statementID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.statementRepo.FindStatementEntries(ctx, statementID)
	if err != nil {
		return nil, nil, err
	}
	return statement, entries, nil
}

// ListStatements retrieves a paginated list of a client's statements.
// Implements portssvc.StatementSvcFacade
func (s *statementService) ListStatements(ctx context.Context, companyID string, requestingUserID string, params dto.ListStatementsParams) (*dto.ListStatementsResponse, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	statements, nextToken, err := s.statementRepo.ListStatementsByClient(ctx, companyID, params.ClientID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	resp := dto.ToListStatementsResponse(statements, nextToken)
	return &resp, nil
}
