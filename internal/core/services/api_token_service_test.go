package services_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/safinah-app/clearance_billing_app/internal/apperrors"
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
	"github.com/safinah-app/clearance_billing_app/internal/core/services"
	"github.com/safinah-app/clearance_billing_app/internal/dto"
)

// MockAPITokenRepository is a mock type for the APITokenRepository interface
type MockAPITokenRepository struct {
	mock.Mock
}

func (m *MockAPITokenRepository) SaveToken(ctx context.Context, token domain.APIToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAPITokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.APIToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIToken), args.Error(1)
}

func (m *MockAPITokenRepository) ListByUser(ctx context.Context, userID string) ([]domain.APIToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.APIToken), args.Error(1)
}

func (m *MockAPITokenRepository) UpdateLastUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *MockAPITokenRepository) DeleteToken(ctx context.Context, userID, tokenID string) error {
	args := m.Called(ctx, userID, tokenID)
	return args.Error(0)
}

// MockUserSvc is a mock type for the UserSvcFacade interface
type MockUserSvc struct {
	mock.Mock
}

func (m *MockUserSvc) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) GetOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}

func (m *MockUserSvc) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserSvc) UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserSvc) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type APITokenServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAPITokenRepository
	mockUserSvc *MockUserSvc
	service     portssvc.APITokenSvc
}

func (suite *APITokenServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAPITokenRepository)
	suite.mockUserSvc = new(MockUserSvc)
	suite.service = services.NewAPITokenService(suite.mockRepo, suite.mockUserSvc)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// --- Test Cases ---

func (suite *APITokenServiceTestSuite) TestCreateToken_StoresHashNotPlaintext() {
	ctx := context.Background()
	userID := uuid.NewString()

	var saved domain.APIToken
	suite.mockRepo.On("SaveToken", ctx, mock.AnythingOfType("domain.APIToken")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.APIToken)
		}).
		Return(nil).Once()

	plaintext, details, err := suite.service.CreateToken(ctx, userID, "ci-pipeline", nil)

	suite.Require().NoError(err)
	suite.Require().NotNil(details)
	suite.True(strings.HasPrefix(plaintext, "clb_"), "token %s", plaintext)
	suite.Equal(sha256Hex(plaintext), saved.TokenHash)
	suite.NotEqual(plaintext, saved.TokenHash)
	suite.Equal(userID, saved.UserID)
	suite.Equal("ci-pipeline", saved.Name)
	suite.Nil(saved.ExpiresAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *APITokenServiceTestSuite) TestCreateToken_WithExpiry() {
	ctx := context.Background()
	userID := uuid.NewString()
	expiresIn := 24 * time.Hour

	var saved domain.APIToken
	suite.mockRepo.On("SaveToken", ctx, mock.AnythingOfType("domain.APIToken")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.APIToken)
		}).
		Return(nil).Once()

	_, _, err := suite.service.CreateToken(ctx, userID, "short-lived", &expiresIn)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved.ExpiresAt)
	suite.WithinDuration(time.Now().Add(expiresIn), *saved.ExpiresAt, time.Minute)
}

func (suite *APITokenServiceTestSuite) TestCreateToken_RequiresName() {
	ctx := context.Background()

	_, _, err := suite.service.CreateToken(ctx, uuid.NewString(), "", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveToken")
}

func (suite *APITokenServiceTestSuite) TestValidateToken_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	plaintext := "clb_testtoken"
	stored := &domain.APIToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: sha256Hex(plaintext),
	}
	user := &domain.User{UserID: userID}

	suite.mockRepo.On("FindByTokenHash", ctx, sha256Hex(plaintext)).Return(stored, nil).Once()
	suite.mockRepo.On("UpdateLastUsed", ctx, stored.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, userID).Return(user, nil).Once()

	got, err := suite.service.ValidateToken(ctx, plaintext)

	suite.Require().NoError(err)
	suite.Equal(userID, got.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockUserSvc.AssertExpectations(suite.T())
}

func (suite *APITokenServiceTestSuite) TestValidateToken_UnknownToken() {
	ctx := context.Background()

	suite.mockRepo.On("FindByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ValidateToken(ctx, "clb_bogus")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *APITokenServiceTestSuite) TestValidateToken_ExpiredIsRevoked() {
	ctx := context.Background()
	userID := uuid.NewString()
	plaintext := "clb_expired"
	past := time.Now().Add(-time.Hour)
	stored := &domain.APIToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: sha256Hex(plaintext),
		ExpiresAt: &past,
	}

	suite.mockRepo.On("FindByTokenHash", ctx, sha256Hex(plaintext)).Return(stored, nil).Once()
	suite.mockRepo.On("DeleteToken", ctx, userID, stored.ID).Return(nil).Once()

	_, err := suite.service.ValidateToken(ctx, plaintext)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateLastUsed")
	suite.mockUserSvc.AssertNotCalled(suite.T(), "GetUserByID")
}

func (suite *APITokenServiceTestSuite) TestValidateToken_EmptyString() {
	ctx := context.Background()

	_, err := suite.service.ValidateToken(ctx, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindByTokenHash")
}

func (suite *APITokenServiceTestSuite) TestRevokeToken_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	tokenID := uuid.NewString()

	suite.mockRepo.On("DeleteToken", ctx, userID, tokenID).Return(nil).Once()

	err := suite.service.RevokeToken(ctx, userID, tokenID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAPITokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(APITokenServiceTestSuite))
}
