package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/core/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// MockStatementRepository is a mock type for the StatementRepositoryFacade interface
type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) FindStatementByID(ctx context.Context, companyID, statementID string) (*domain.StatementOfAccount, error) {
	args := m.Called(ctx, companyID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementOfAccount), args.Error(1)
}

func (m *MockStatementRepository) FindStatementEntries(ctx context.Context, statementID string) ([]domain.StatementEntry, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementEntry), args.Error(1)
}

func (m *MockStatementRepository) ListStatementsByClient(ctx context.Context, companyID, clientID string, limit int, nextToken *string) ([]domain.StatementOfAccount, *string, error) {
	args := m.Called(ctx, companyID, clientID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.StatementOfAccount), token, args.Error(2)
}

func (m *MockStatementRepository) SaveStatement(ctx context.Context, statement domain.StatementOfAccount, entries []domain.StatementEntry) error {
	args := m.Called(ctx, statement, entries)
	return args.Error(0)
}

// --- Test Suite Setup ---

type StatementServiceTestSuite struct {
	suite.Suite
	mockStatementRepo *MockStatementRepository
	mockInvoiceRepo   *MockInvoiceRepository
	mockClientRepo    *MockClientReader
	mockSettingsRepo  *MockSettingsRepository
	mockCompanySvc    *MockCompanySvc
	service           portssvc.StatementSvcFacade

	companyID string
	clientID  string
	userID    string
}

func (suite *StatementServiceTestSuite) SetupTest() {
	suite.mockStatementRepo = new(MockStatementRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockClientRepo = new(MockClientReader)
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.mockCompanySvc = new(MockCompanySvc)
	suite.service = services.NewStatementService(
		suite.mockStatementRepo,
		suite.mockInvoiceRepo,
		suite.mockClientRepo,
		suite.mockSettingsRepo,
		suite.mockCompanySvc,
	)

	suite.companyID = uuid.NewString()
	suite.clientID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *StatementServiceTestSuite) periodRequest() dto.CreateStatementRequest {
	return dto.CreateStatementRequest{
		ClientID:    suite.clientID,
		PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *StatementServiceTestSuite) invoiceInPeriod(number string, status domain.InvoiceStatus, total string) domain.Invoice {
	totalDec := decimal.RequireFromString(total)
	return domain.Invoice{
		InvoiceID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		ClientID:      suite.clientID,
		InvoiceNumber: number,
		InvoiceType:   domain.InvoiceTypeClearance,
		Status:        status,
		CurrencyCode:  "SAR",
		Subtotal:      totalDec,
		Discount:      decimal.Zero,
		VATAmount:     decimal.Zero,
		Total:         totalDec,
		IssueDate:     time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

// --- Test Cases ---

func (suite *StatementServiceTestSuite) TestGenerateStatement_AggregatesIssuedInvoices() {
	ctx := context.Background()
	req := suite.periodRequest()
	settings := domain.DefaultCompanySettings(suite.companyID)

	page := []domain.Invoice{
		suite.invoiceInPeriod("INV-202503-0001", domain.InvoiceStatusSent, "500"),
		suite.invoiceInPeriod("INV-202503-0002", domain.InvoiceStatusPaid, "250"),
		// Drafts and cancellations never appear on a statement.
		suite.invoiceInPeriod("", domain.InvoiceStatusDraft, "999"),
		suite.invoiceInPeriod("INV-202503-0003", domain.InvoiceStatusCancelled, "999"),
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(&domain.Client{ClientID: suite.clientID, CompanyID: suite.companyID, IsActive: true}, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(&settings, nil).Once()
	suite.mockInvoiceRepo.On("ListInvoicesByCompany", ctx, suite.companyID, mock.AnythingOfType("repositories.InvoiceListFilter"), 100, (*string)(nil)).Return(page, nil, nil).Once()
	suite.mockStatementRepo.On("SaveStatement", ctx, mock.AnythingOfType("domain.StatementOfAccount"), mock.AnythingOfType("[]domain.StatementEntry")).Return(nil).Once()

	statement, entries, err := suite.service.GenerateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(entries, 2)
	suite.True(statement.Total.Equal(decimal.RequireFromString("750")), "total %s", statement.Total)
	suite.Equal("SAR", statement.CurrencyCode)
	suite.Equal(suite.clientID, statement.ClientID)
	suite.Equal(0, entries[0].SortOrder)
	suite.Equal(1, entries[1].SortOrder)
	suite.mockStatementRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestGenerateStatement_WalksAllPages() {
	ctx := context.Background()
	req := suite.periodRequest()
	settings := domain.DefaultCompanySettings(suite.companyID)
	token := "next-page"

	first := []domain.Invoice{suite.invoiceInPeriod("INV-202503-0001", domain.InvoiceStatusSent, "100")}
	second := []domain.Invoice{suite.invoiceInPeriod("INV-202503-0002", domain.InvoiceStatusPaid, "200")}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(&domain.Client{ClientID: suite.clientID, IsActive: true}, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(&settings, nil).Once()
	suite.mockInvoiceRepo.On("ListInvoicesByCompany", ctx, suite.companyID, mock.AnythingOfType("repositories.InvoiceListFilter"), 100, (*string)(nil)).Return(first, &token, nil).Once()
	suite.mockInvoiceRepo.On("ListInvoicesByCompany", ctx, suite.companyID, mock.AnythingOfType("repositories.InvoiceListFilter"), 100, &token).Return(second, nil, nil).Once()
	suite.mockStatementRepo.On("SaveStatement", ctx, mock.AnythingOfType("domain.StatementOfAccount"), mock.AnythingOfType("[]domain.StatementEntry")).Return(nil).Once()

	statement, entries, err := suite.service.GenerateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(entries, 2)
	suite.True(statement.Total.Equal(decimal.RequireFromString("300")))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestGenerateStatement_EmptyPeriod() {
	ctx := context.Background()
	req := suite.periodRequest()
	settings := domain.DefaultCompanySettings(suite.companyID)

	// Issued outside the requested period.
	outside := suite.invoiceInPeriod("INV-202502-0001", domain.InvoiceStatusPaid, "100")
	outside.IssueDate = time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(&domain.Client{ClientID: suite.clientID, IsActive: true}, nil).Once()
	suite.mockSettingsRepo.On("FindSettingsByCompany", ctx, suite.companyID).Return(&settings, nil).Once()
	suite.mockInvoiceRepo.On("ListInvoicesByCompany", ctx, suite.companyID, mock.AnythingOfType("repositories.InvoiceListFilter"), 100, (*string)(nil)).Return([]domain.Invoice{outside}, nil, nil).Once()

	_, _, err := suite.service.GenerateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "SaveStatement")
}

func (suite *StatementServiceTestSuite) TestGenerateStatement_InvalidPeriod() {
	ctx := context.Background()
	req := suite.periodRequest()
	req.PeriodEnd = req.PeriodStart

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, _, err := suite.service.GenerateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByID")
}

func (suite *StatementServiceTestSuite) TestGenerateStatement_UnknownClient() {
	ctx := context.Background()
	req := suite.periodRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GenerateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StatementServiceTestSuite) TestGetStatementByID_Success() {
	ctx := context.Background()
	statementID := uuid.NewString()
	stored := &domain.StatementOfAccount{StatementID: statementID, CompanyID: suite.companyID, ClientID: suite.clientID}
	entries := []domain.StatementEntry{{EntryID: uuid.NewString(), StatementID: statementID}}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.companyID, statementID).Return(stored, nil).Once()
	suite.mockStatementRepo.On("FindStatementEntries", ctx, statementID).Return(entries, nil).Once()

	statement, got, err := suite.service.GetStatementByID(ctx, suite.companyID, statementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(stored, statement)
	suite.Len(got, 1)
	suite.mockStatementRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestListStatements_Forbidden() {
	ctx := context.Background()
	params := dto.ListStatementsParams{ClientID: suite.clientID, Limit: 20}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ListStatements(ctx, suite.companyID, suite.userID, params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "ListStatementsByClient")
}

func TestStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
