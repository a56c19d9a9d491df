package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portsrepo "github.com/safinah-app/clearance_billing_app/internal/core/ports/repositories"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/core/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// MockInvoiceRepository is a mock type for the InvoiceRepositoryWithTx interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, filter portsrepo.InvoiceListFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Invoice), token, args.Error(2)
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem, allocateNumber bool) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice, items, allocateNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoiceWithItems(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem) error {
	args := m.Called(ctx, invoice, items)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, companyID, invoiceID string, from, to domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, companyID, invoiceID, from, to, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkInvoiceSent(ctx context.Context, companyID, invoiceID, updatedBy string, sentAt time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, updatedBy, sentAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) MarkInvoiceOverdueIfDue(ctx context.Context, companyID, invoiceID string, asOf time.Time, updatedBy string) (bool, error) {
	args := m.Called(ctx, companyID, invoiceID, asOf, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) DeleteDraftInvoice(ctx context.Context, companyID, invoiceID string) error {
	args := m.Called(ctx, companyID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockSettingsRepository is a mock type for the SettingsRepositoryFacade interface
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindSettingsByCompany(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, settings domain.CompanySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockClientReader is a mock type for the ClientReader interface
type MockClientReader struct {
	mock.Mock
}

func (m *MockClientReader) FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, companyID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientReader) ListClientsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Client, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Client), token, args.Error(2)
}

// MockCompanySvc is a mock type for the CompanySvcFacade interface
type MockCompanySvc struct {
	mock.Mock
}

func (m *MockCompanySvc) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanySvc) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanySvc) CreateCompany(ctx context.Context, name, description, defaultCurrencyCode, creatorUserID string) (*domain.Company, error) {
	args := m.Called(ctx, name, description, defaultCurrencyCode, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanySvc) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	args := m.Called(ctx, addingUserID, targetUserID, companyID, role)
	return args.Error(0)
}

func (m *MockCompanySvc) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	args := m.Called(ctx, userID, companyID, requiredRole)
	return args.Error(0)
}

// MockDocumentRenderer is a mock type for the DocumentRenderer interface
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Test Suite Setup ---

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockSettingsRepo *MockSettingsRepository
	mockClientRepo   *MockClientReader
	mockCompanySvc   *MockCompanySvc
	mockRenderer     *MockDocumentRenderer
	service          portssvc.InvoiceSvcFacade

	companyID string
	clientID  string
	userID    string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.mockClientRepo = new(MockClientReader)
	suite.mockCompanySvc = new(MockCompanySvc)
	suite.mockRenderer = new(MockDocumentRenderer)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockSettingsRepo,
		suite.mockClientRepo,
		suite.mockCompanySvc,
		suite.mockRenderer,
	)

	suite.companyID = uuid.NewString()
	suite.clientID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *InvoiceServiceTestSuite) activeClient() *domain.Client {
	return &domain.Client{
		ClientID:  suite.clientID,
		CompanyID: suite.companyID,
		Name:      "Red Sea Imports",
		IsActive:  true,
	}
}

func (suite *InvoiceServiceTestSuite) createRequest() dto.CreateInvoiceRequest {
	issue := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return dto.CreateInvoiceRequest{
		ClientID:     suite.clientID,
		InvoiceType:  "CLEARANCE",
		CurrencyCode: "SAR",
		Discount:     decimal.RequireFromString("100"),
		IssueDate:    issue,
		DueDate:      issue.AddDate(0, 0, 30),
		Items: []dto.InvoiceItemRequest{
			{Description: "Clearance service", FeeCategory: "SERVICE_FEE", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("800")},
			{Description: "Port handling", FeeCategory: "PORT_CHARGE", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("100")},
		},
	}
}

// --- Create ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_AllocatesNumberOnCreate() {
	ctx := context.Background()
	req := suite.createRequest()
	settings := domain.DefaultCompanySettings(suite.companyID)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(&settings, nil).Once()

	var captured domain.Invoice
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem"), true).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.Invoice)
		}).
		Return(&domain.Invoice{InvoiceID: "stored", InvoiceNumber: "INV-202503-0001"}, nil).Once()

	invoice, items, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal("INV-202503-0001", invoice.InvoiceNumber)
	suite.Len(items, 2)

	// subtotal 1000, discount 100, VAT 15% of 900 = 135, total 1035
	suite.True(captured.Subtotal.Equal(decimal.RequireFromString("1000")), "subtotal %s", captured.Subtotal)
	suite.True(captured.VATAmount.Equal(decimal.RequireFromString("135")), "vat %s", captured.VATAmount)
	suite.True(captured.Total.Equal(decimal.RequireFromString("1035")), "total %s", captured.Total)
	suite.Equal(domain.InvoiceStatusDraft, captured.Status)
	suite.Equal(suite.userID, captured.CreatedBy)

	suite.True(items[0].LineTotal.Equal(decimal.RequireFromString("800")))
	suite.True(items[1].LineTotal.Equal(decimal.RequireFromString("200")))
	suite.Equal(1, items[1].SortOrder)

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockCompanySvc.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DefersNumberOnSendPolicy() {
	ctx := context.Background()
	req := suite.createRequest()
	settings := domain.DefaultCompanySettings(suite.companyID)
	settings.NumberingPolicy = domain.NumberOnSend

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(&settings, nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem"), false).
		Return(&domain.Invoice{InvoiceID: "stored", Status: domain.InvoiceStatusDraft}, nil).Once()

	invoice, _, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(invoice.InvoiceNumber)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DefaultsWhenNoSettingsSaved() {
	ctx := context.Background()
	req := suite.createRequest()
	req.CurrencyCode = ""

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(nil, apperrors.ErrNotFound).Once()

	var captured domain.Invoice
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem"), true).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.Invoice)
		}).
		Return(&domain.Invoice{InvoiceID: "stored"}, nil).Once()

	_, _, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("SAR", captured.CurrencyCode)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_InactiveClient() {
	ctx := context.Background()
	req := suite.createRequest()
	client := suite.activeClient()
	client.IsActive = false

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(client, nil).Once()

	_, _, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice")
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DueDateBeforeIssueDate() {
	ctx := context.Background()
	req := suite.createRequest()
	req.DueDate = req.IssueDate.AddDate(0, 0, -1)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, _, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByID")
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_NegativeQuantityRejected() {
	ctx := context.Background()
	req := suite.createRequest()
	req.Items[0].Quantity = decimal.RequireFromString("-1")

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()

	_, _, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Forbidden() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(apperrors.ErrForbidden).Once()

	_, _, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice")
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromPreset_Success() {
	ctx := context.Background()
	issue := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateInvoiceFromPresetRequest{
		ClientID:  suite.clientID,
		Preset:    "BASIC_CLEARANCE",
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 14),
	}
	settings := domain.DefaultCompanySettings(suite.companyID)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(&settings, nil).Once()

	var captured domain.Invoice
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem"), true).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.Invoice)
		}).
		Return(&domain.Invoice{InvoiceID: "stored"}, nil).Once()

	_, items, err := suite.service.CreateInvoiceFromPreset(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(items, 2)
	suite.Equal(domain.InvoiceTypeClearance, captured.InvoiceType)
	// 350 + 75 with 15% VAT
	suite.True(captured.Subtotal.Equal(decimal.RequireFromString("425")), "subtotal %s", captured.Subtotal)
	suite.True(captured.VATAmount.Equal(decimal.RequireFromString("63.75")), "vat %s", captured.VATAmount)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromPreset_UnknownPreset() {
	ctx := context.Background()
	req := dto.CreateInvoiceFromPresetRequest{
		ClientID:  suite.clientID,
		Preset:    "NOT_A_PRESET",
		IssueDate: time.Now().UTC(),
		DueDate:   time.Now().UTC().AddDate(0, 0, 7),
	}

	_, _, err := suite.service.CreateInvoiceFromPreset(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice")
}

// --- Read ---

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_FlipsOverdueLazily() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	pastDue := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceStatusSent,
		DueDate:   time.Now().UTC().AddDate(0, 0, -3),
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(pastDue, nil).Once()
	suite.mockInvoiceRepo.On("MarkInvoiceOverdueIfDue", ctx, suite.companyID, invoiceID, mock.AnythingOfType("time.Time"), suite.userID).Return(true, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceItems", ctx, invoiceID).Return([]domain.InvoiceItem{}, nil).Once()

	invoice, _, err := suite.service.GetInvoiceByID(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusOverdue, invoice.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_NoFlipBeforeDueDate() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	current := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceStatusSent,
		DueDate:   time.Now().UTC().AddDate(0, 0, 3),
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(current, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceItems", ctx, invoiceID).Return([]domain.InvoiceItem{}, nil).Once()

	invoice, _, err := suite.service.GetInvoiceByID(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusSent, invoice.Status)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "MarkInvoiceOverdueIfDue")
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_NotFound() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetInvoiceByID(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Update ---

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_RecomputesTotals() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	existing := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceStatusDraft,
		Discount:  decimal.Zero,
		IssueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	}
	req := dto.UpdateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{
			{Description: "Storage", FeeCategory: "STORAGE", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.RequireFromString("45")},
		},
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(existing, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceWithItems", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem")).Return(nil).Once()

	invoice, items, err := suite.service.UpdateInvoice(ctx, suite.companyID, invoiceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(items, 1)
	// 4 * 45 = 180, VAT 27, total 207
	suite.True(invoice.Subtotal.Equal(decimal.RequireFromString("180")))
	suite.True(invoice.VATAmount.Equal(decimal.RequireFromString("27")))
	suite.True(invoice.Total.Equal(decimal.RequireFromString("207")))
	suite.Equal(suite.userID, invoice.LastUpdatedBy)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_DiscountClampedToZeroBase() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	existing := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceStatusDraft,
		IssueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	}
	bigDiscount := decimal.RequireFromString("500")
	req := dto.UpdateInvoiceRequest{
		Discount: &bigDiscount,
		Items: []dto.InvoiceItemRequest{
			{Description: "Docs", FeeCategory: "DOCUMENTATION", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("75")},
		},
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(existing, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceWithItems", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem")).Return(nil).Once()

	invoice, _, err := suite.service.UpdateInvoice(ctx, suite.companyID, invoiceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(invoice.VATAmount.IsZero())
	suite.True(invoice.Total.IsZero())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_PaidIsImmutable() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	paid := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceStatusPaid,
	}
	notes := "late note"

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(paid, nil).Once()

	_, _, err := suite.service.UpdateInvoice(ctx, suite.companyID, invoiceID, dto.UpdateInvoiceRequest{Notes: &notes}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImmutableInvoice)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceWithItems")
}

// An invoice can be marked PAID by another request between this request's
// read and its write. The repository's conditional write rejects the edit;
// the conflict must reach the caller instead of being swallowed.
func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_ConcurrentPaymentSurfacesConflict() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	sent := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceStatusSent,
		Discount:  decimal.Zero,
		IssueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Now().UTC().AddDate(0, 0, 7),
	}
	req := dto.UpdateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{
			{Description: "Storage", FeeCategory: "STORAGE", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("50")},
		},
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(sent, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceWithItems", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem")).
		Return(fmt.Errorf("%w: invoice left an editable status concurrently", apperrors.ErrConflict)).Once()

	_, _, err := suite.service.UpdateInvoice(ctx, suite.companyID, invoiceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

// --- Delete ---

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_DraftOnly() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	sent := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceStatusSent, DueDate: time.Now().UTC().AddDate(0, 0, 7)}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(sent, nil).Once()

	err := suite.service.DeleteInvoice(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImmutableInvoice)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "DeleteDraftInvoice")
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_Success() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	draft := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceStatusDraft}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("DeleteDraftInvoice", ctx, suite.companyID, invoiceID).Return(nil).Once()

	err := suite.service.DeleteInvoice(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

// --- Lifecycle ---

func (suite *InvoiceServiceTestSuite) TestSendInvoice_Success() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	draft := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceStatusDraft}
	sent := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceStatusSent, InvoiceNumber: "INV-202503-0007"}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("MarkInvoiceSent", ctx, suite.companyID, invoiceID, suite.userID, mock.AnythingOfType("time.Time")).Return(sent, nil).Once()

	result, err := suite.service.SendInvoice(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusSent, result.Status)
	suite.Equal("INV-202503-0007", result.InvoiceNumber)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_AlreadySent() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	sent := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceStatusSent, DueDate: time.Now().UTC().AddDate(0, 0, 7)}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(sent, nil).Once()

	_, err := suite.service.SendInvoice(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "MarkInvoiceSent")
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_FromSent() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	sent := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceStatusSent, DueDate: time.Now().UTC().AddDate(0, 0, 7)}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(sent, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, suite.companyID, invoiceID, domain.InvoiceStatusSent, domain.InvoiceStatusPaid, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.MarkInvoicePaid(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusPaid, result.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_FromDraftRejected() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	draft := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceStatusDraft}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(draft, nil).Once()

	_, err := suite.service.MarkInvoicePaid(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus")
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_FromOverdueViaLazyFlip() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	// Stored as SENT but past due; the flip happens on read and the
	// cancellation proceeds from OVERDUE.
	pastDue := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceStatusSent,
		DueDate:   time.Now().UTC().AddDate(0, 0, -1),
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(pastDue, nil).Once()
	suite.mockInvoiceRepo.On("MarkInvoiceOverdueIfDue", ctx, suite.companyID, invoiceID, mock.AnythingOfType("time.Time"), suite.userID).Return(true, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, suite.companyID, invoiceID, domain.InvoiceStatusOverdue, domain.InvoiceStatusCancelled, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.CancelInvoice(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusCancelled, result.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

// --- List ---

func (suite *InvoiceServiceTestSuite) TestListInvoices_PassesFilter() {
	ctx := context.Background()
	status := "PAID"
	params := dto.ListInvoicesParams{Status: &status, Limit: 10}
	paid := domain.InvoiceStatusPaid
	expectedFilter := portsrepo.InvoiceListFilter{Status: &paid}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockInvoiceRepo.On("ListInvoicesByCompany", ctx, suite.companyID, mock.MatchedBy(func(f portsrepo.InvoiceListFilter) bool {
		return f.ClientID == expectedFilter.ClientID && f.Status != nil && *f.Status == paid
	}), 10, (*string)(nil)).Return([]domain.Invoice{{InvoiceID: "a", Status: domain.InvoiceStatusPaid}}, nil, nil).Once()

	resp, err := suite.service.ListInvoices(ctx, suite.companyID, suite.userID, params)

	suite.Require().NoError(err)
	suite.Len(resp.Invoices, 1)
	suite.Nil(resp.NextToken)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestRenderInvoicePDF_Success() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		CompanyID:     suite.companyID,
		ClientID:      suite.clientID,
		InvoiceNumber: "INV-202503-0001",
		Status:        domain.InvoiceStatusSent,
		CurrencyCode:  "SAR",
		DueDate:       time.Now().UTC().AddDate(0, 0, 7),
		IssueDate:     time.Now().UTC(),
	}
	settings := domain.DefaultCompanySettings(suite.companyID)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceItems", ctx, invoiceID).Return([]domain.InvoiceItem{}, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(&settings, nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockRenderer.On("RenderHTML", ctx, mock.AnythingOfType("string")).Return([]byte("%PDF-1.4"), nil).Once()

	pdf, err := suite.service.RenderInvoicePDF(ctx, suite.companyID, invoiceID, "", suite.userID)

	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), pdf)
	suite.mockRenderer.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
