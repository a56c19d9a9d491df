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
	"github.com/safinah-app/clearance_billing_app/internal/utils/billing"
)

var (
	ErrClientInactive   = errors.New("client is inactive")
	ErrUnknownPreset    = errors.New("unknown fee preset")
	ErrDueBeforeIssue   = errors.New("due date must not precede issue date")
	ErrInvoiceHasNumber = errors.New("invoice already has a number")
)

// invoiceService provides core invoice numbering, totals, and lifecycle operations.
type invoiceService struct {
	invoiceRepo  portsrepo.InvoiceRepositoryWithTx
	settingsRepo portsrepo.SettingsRepositoryFacade
	clientRepo   portsrepo.ClientReader
	companySvc   portssvc.CompanySvcFacade
	renderer     portssvc.DocumentRenderer
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	settingsRepo portsrepo.SettingsRepositoryFacade,
	clientRepo portsrepo.ClientReader,
	companySvc portssvc.CompanySvcFacade,
	renderer portssvc.DocumentRenderer,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		clientRepo:   clientRepo,
		companySvc:   companySvc,
		renderer:     renderer,
	}
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// settingsOrDefault loads the company settings, falling back to defaults for
// companies that create invoices before ever saving settings.
func (s *invoiceService) settingsOrDefault(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	settings, err := s.settingsRepo.FindSettingsByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			def := domain.DefaultCompanySettings(companyID)
			return &def, nil
		}
		return nil, fmt.Errorf("failed to load company settings: %w", err)
	}
	return settings, nil
}

// feeLinesFromRequest converts request items into billing fee lines.
func feeLinesFromRequest(items []dto.InvoiceItemRequest) []billing.FeeLine {
	lines := make([]billing.FeeLine, len(items))
	for i, item := range items {
		lines[i] = billing.FeeLine{
			Description: item.Description,
			FeeCategory: domain.FeeCategory(item.FeeCategory),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return lines
}

// buildItems materializes domain fee lines for a given invoice, assigning
// ids, sort order, and the precomputed line totals.
func buildItems(invoiceID string, lines []billing.FeeLine, lineTotals []decimal.Decimal, now time.Time, userID string) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, len(lines))
	for i, line := range lines {
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: line.Description,
			FeeCategory: line.FeeCategory,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   lineTotals[i],
			SortOrder:   i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return items
}

// createDraft runs the shared creation path for both explicit and preset-based requests.
func (s *invoiceService) createDraft(ctx context.Context, companyID, clientID string, invoiceType domain.InvoiceType, currencyCode string, lines []billing.FeeLine, discount decimal.Decimal, issueDate, dueDate time.Time, notes, creatorUserID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateInvoice", slog.String("user_id", creatorUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	if dueDate.Before(issueDate) {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrDueBeforeIssue)
	}
	if !domain.ValidInvoiceType(invoiceType) {
		return nil, nil, fmt.Errorf("%w: unknown invoice type %q", apperrors.ErrValidation, invoiceType)
	}

	client, err := s.clientRepo.FindClientByID(ctx, companyID, clientID)
	if err != nil {
		return nil, nil, err
	}
	if !client.IsActive {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrClientInactive)
	}

	totals, err := billing.ComputeTotals(lines, discount, domain.VATRate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	settings, err := s.settingsOrDefault(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	if currencyCode == "" {
		currencyCode = settings.DefaultCurrencyCode
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()

	invoice := domain.Invoice{
		InvoiceID:    invoiceID,
		CompanyID:    companyID,
		ClientID:     clientID,
		InvoiceType:  invoiceType,
		Status:       domain.InvoiceStatusDraft,
		CurrencyCode: currencyCode,
		Subtotal:     totals.Subtotal,
		Discount:     discount,
		VATAmount:    totals.VATAmount,
		Total:        totals.Total,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Notes:        notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	items := buildItems(invoiceID, lines, totals.LineTotals, now, creatorUserID)

	allocateNow := settings.NumberingPolicy == domain.NumberOnCreate
	saved, err := s.invoiceRepo.CreateInvoice(ctx, invoice, items, allocateNow)
	if err != nil {
		logger.Error("Failed to persist invoice", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, nil, err
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", saved.InvoiceID),
		slog.String("company_id", companyID),
		slog.String("invoice_number", saved.InvoiceNumber),
		slog.String("total", saved.Total.String()),
	)
	return saved, items, nil
}

// CreateInvoice creates a new draft invoice with server-computed totals.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	return s.createDraft(ctx, companyID, req.ClientID, domain.InvoiceType(req.InvoiceType), req.CurrencyCode,
		feeLinesFromRequest(req.Items), req.Discount, req.IssueDate, req.DueDate, req.Notes, creatorUserID)
}

// CreateInvoiceFromPreset creates a draft pre-filled from a named preset or a
// clearance stage template.
func (s *invoiceService) CreateInvoiceFromPreset(ctx context.Context, companyID string, req dto.CreateInvoiceFromPresetRequest, creatorUserID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	var preset []domain.PresetLine
	switch {
	case req.Preset != "":
		var ok bool
		preset, ok = domain.QuickFeePresets[req.Preset]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s: %q", apperrors.ErrValidation, ErrUnknownPreset, req.Preset)
		}
	case req.Stage != "":
		var ok bool
		preset, ok = domain.StageFeeTemplates[domain.ClearanceStage(req.Stage)]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s: %q", apperrors.ErrValidation, ErrUnknownPreset, req.Stage)
		}
	default:
		return nil, nil, fmt.Errorf("%w: either preset or stage is required", apperrors.ErrValidation)
	}

	return s.createDraft(ctx, companyID, req.ClientID, domain.InvoiceTypeClearance, "",
		billing.LinesFromPreset(preset), decimal.Zero, req.IssueDate, req.DueDate, "", creatorUserID)
}

// refreshOverdue applies the lazy OVERDUE flip to an invoice that was read
// while past due. Best effort: a lost race just means another reader already
// persisted the same flip.
func (s *invoiceService) refreshOverdue(ctx context.Context, invoice *domain.Invoice, requestingUserID string) {
	now := time.Now().UTC()
	if !invoice.IsOverdueAt(now) {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	if _, err := s.invoiceRepo.MarkInvoiceOverdueIfDue(ctx, invoice.CompanyID, invoice.InvoiceID, now, requestingUserID); err != nil {
		logger.Warn("Failed to persist overdue flip", slog.String("invoice_id", invoice.InvoiceID), slog.String("error", err.Error()))
	}
	invoice.Status = domain.InvoiceStatusOverdue
}

// GetInvoiceByID retrieves an invoice with its fee lines.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) GetInvoiceByID(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	s.refreshOverdue(ctx, invoice, requestingUserID)

	items, err := s.invoiceRepo.FindInvoiceItems(ctx, invoice.InvoiceID)
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

// ListInvoices retrieves a paginated list of invoices in a company.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) ListInvoices(ctx context.Context, companyID string, requestingUserID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	filter := portsrepo.InvoiceListFilter{ClientID: params.ClientID}
	if params.Status != nil {
		status := domain.InvoiceStatus(*params.Status)
		filter.Status = &status
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		s.refreshOverdue(ctx, &invoices[i], requestingUserID)
	}

	resp := dto.ToListInvoicesResponse(invoices, nextToken)
	return &resp, nil
}

// UpdateInvoice edits mutable fields and replaces fee lines, recomputing totals.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) UpdateInvoice(ctx context.Context, companyID string, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	s.refreshOverdue(ctx, invoice, requestingUserID)
	if !invoice.IsEditable() {
		return nil, nil, fmt.Errorf("%w: status is %s", apperrors.ErrImmutableInvoice, invoice.Status)
	}

	var lines []billing.FeeLine
	if req.Items != nil {
		lines = feeLinesFromRequest(req.Items)
	} else {
		existing, err := s.invoiceRepo.FindInvoiceItems(ctx, invoice.InvoiceID)
		if err != nil {
			return nil, nil, err
		}
		lines = make([]billing.FeeLine, len(existing))
		for i, item := range existing {
			lines[i] = billing.FeeLine{
				Description: item.Description,
				FeeCategory: item.FeeCategory,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			}
		}
	}

	discount := invoice.Discount
	if req.Discount != nil {
		discount = *req.Discount
	}
	if req.DueDate != nil {
		if req.DueDate.Before(invoice.IssueDate) {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrDueBeforeIssue)
		}
		invoice.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	totals, err := billing.ComputeTotals(lines, discount, domain.VATRate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	invoice.Discount = discount
	invoice.Subtotal = totals.Subtotal
	invoice.VATAmount = totals.VATAmount
	invoice.Total = totals.Total
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	items := buildItems(invoice.InvoiceID, lines, totals.LineTotals, now, requestingUserID)
	if err := s.invoiceRepo.UpdateInvoiceWithItems(ctx, *invoice, items); err != nil {
		logger.Error("Failed to update invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	return invoice, items, nil
}

// DeleteInvoice removes a DRAFT invoice.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) DeleteInvoice(ctx context.Context, companyID string, invoiceID string, requestingUserID string) error {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return fmt.Errorf("%w: only drafts can be deleted, status is %s", apperrors.ErrImmutableInvoice, invoice.Status)
	}

	return s.invoiceRepo.DeleteDraftInvoice(ctx, companyID, invoiceID)
}

// SendInvoice moves DRAFT to SENT, finalizing the invoice number if the
// company numbers at send time.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) SendInvoice(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(invoice.Status, domain.InvoiceStatusSent) {
		return nil, fmt.Errorf("%w: cannot send invoice in status %s", apperrors.ErrValidation, invoice.Status)
	}

	sent, err := s.invoiceRepo.MarkInvoiceSent(ctx, companyID, invoiceID, requestingUserID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to send invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Invoice sent", slog.String("invoice_id", invoiceID), slog.String("invoice_number", sent.InvoiceNumber))
	return sent, nil
}

// transition applies a status move with the lazy overdue flip folded in.
func (s *invoiceService) transition(ctx context.Context, companyID, invoiceID, requestingUserID string, to domain.InvoiceStatus) (*domain.Invoice, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	s.refreshOverdue(ctx, invoice, requestingUserID)
	if !domain.CanTransition(invoice.Status, to) {
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", apperrors.ErrValidation, invoice.Status, to)
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, companyID, invoiceID, invoice.Status, to, requestingUserID, now); err != nil {
		return nil, err
	}
	invoice.Status = to
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID
	return invoice, nil
}

// MarkInvoicePaid moves SENT or OVERDUE to PAID.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) MarkInvoicePaid(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	return s.transition(ctx, companyID, invoiceID, requestingUserID, domain.InvoiceStatusPaid)
}

// CancelInvoice moves SENT or OVERDUE to CANCELLED.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) CancelInvoice(ctx context.Context, companyID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	return s.transition(ctx, companyID, invoiceID, requestingUserID, domain.InvoiceStatusCancelled)
}

// RenderInvoicePDF produces the printable PDF for an invoice.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) RenderInvoicePDF(ctx context.Context, companyID string, invoiceID string, locale string, requestingUserID string) ([]byte, error) {
	invoice, items, err := s.GetInvoiceByID(ctx, companyID, invoiceID, requestingUserID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsOrDefault(ctx, companyID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindClientByID(ctx, companyID, invoice.ClientID)
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = settings.DefaultLocale
	}

	html, err := buildInvoiceHTML(invoice, items, settings, client, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice document: %w", err)
	}
	return s.renderer.RenderHTML(ctx, html)
}
