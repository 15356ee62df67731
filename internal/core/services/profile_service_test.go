package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harborbank/corebank_backend/internal/apperrors"
	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/core/services"
	"github.com/harborbank/corebank_backend/internal/dto"
	"github.com/harborbank/corebank_backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ProfileRepository ---
type MockProfileRepository struct {
	MockProfileReader
}

func (m *MockProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile, passwordHash string) error {
	args := m.Called(ctx, profile, passwordHash)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) SoftDeleteProfile(ctx context.Context, profileID string, userID string, now time.Time) error {
	args := m.Called(ctx, profileID, userID, now)
	return args.Error(0)
}

// --- Test Suite ---
type ProfileServiceTestSuite struct {
	suite.Suite
	mockProfiles *MockProfileRepository
	mockAccounts *MockAccountReader
	mockAudit    *MockAuditRecorder
	service      *services.ProfileService

	staff    domain.Actor
	customer domain.Actor
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	suite.mockProfiles = new(MockProfileRepository)
	suite.mockAccounts = new(MockAccountReader)
	suite.mockAudit = new(MockAuditRecorder)
	suite.service = services.NewProfileService(suite.mockProfiles, suite.mockAccounts, suite.mockAudit)

	suite.staff = domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleStaff}
	suite.customer = domain.Actor{ProfileID: uuid.NewString(), Role: domain.RoleCustomer}
}

func (suite *ProfileServiceTestSuite) TestCreateProfile_HashesPassword() {
	ctx := context.Background()
	req := dto.CreateProfileRequest{
		Username: "jdoe",
		Password: "s3cret-pass",
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Role:     domain.RoleCustomer,
	}

	suite.mockProfiles.On("SaveProfile", ctx, mock.MatchedBy(func(p domain.Profile) bool {
		return p.Username == req.Username && p.Role == domain.RoleCustomer
	}), mock.MatchedBy(func(hash string) bool {
		// The stored value is a verifiable bcrypt hash, never the plaintext.
		return hash != req.Password && utils.CheckPasswordHash(req.Password, hash)
	})).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, suite.staff.ProfileID, mock.Anything, mock.Anything).Return(nil).Once()

	profile, err := suite.service.CreateProfile(ctx, req, suite.staff)

	suite.Require().NoError(err)
	suite.Equal(req.Username, profile.Username)
	suite.mockProfiles.AssertExpectations(suite.T())
}

func (suite *ProfileServiceTestSuite) TestCreateProfile_CustomerForbidden() {
	_, err := suite.service.CreateProfile(context.Background(), dto.CreateProfileRequest{
		Username: "x", Password: "password", Name: "X", Email: "x@example.com", Role: domain.RoleCustomer,
	}, suite.customer)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProfileServiceTestSuite) TestCreateProfile_DuplicateUsername() {
	ctx := context.Background()
	suite.mockProfiles.On("SaveProfile", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateProfile(ctx, dto.CreateProfileRequest{
		Username: "taken", Password: "password", Name: "T", Email: "t@example.com", Role: domain.RoleCustomer,
	}, suite.staff)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ProfileServiceTestSuite) TestAuthenticate() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	profile := &domain.Profile{ProfileID: uuid.NewString(), Username: "jdoe", Role: domain.RoleCustomer}

	suite.mockProfiles.On("FindCredentialsByUsername", ctx, "jdoe").Return(profile, hash, nil)
	suite.mockProfiles.On("FindCredentialsByUsername", ctx, "ghost").Return(nil, "", apperrors.ErrNotFound)

	got, err := suite.service.Authenticate(ctx, "jdoe", "correct-horse")
	suite.Require().NoError(err)
	suite.Equal(profile.ProfileID, got.ProfileID)

	_, err = suite.service.Authenticate(ctx, "jdoe", "wrong-pass")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	// Unknown usernames fail the same way as bad passwords.
	_, err = suite.service.Authenticate(ctx, "ghost", "whatever")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProfileServiceTestSuite) TestDeleteProfile_RefusedWithNonZeroBalance() {
	ctx := context.Background()
	profileID := uuid.NewString()
	profile := &domain.Profile{ProfileID: profileID, Role: domain.RoleCustomer}
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), OwnerID: profileID, Balance: decimal.Zero},
		{AccountID: uuid.NewString(), OwnerID: profileID, Balance: decimal.RequireFromString("0.01")},
	}

	suite.mockProfiles.On("FindProfileByID", ctx, profileID).Return(profile, nil).Once()
	suite.mockAccounts.On("FindAccountsByOwner", ctx, profileID).Return(accounts, nil).Once()

	err := suite.service.DeleteProfile(ctx, profileID, suite.staff)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProfiles.AssertNotCalled(suite.T(), "SoftDeleteProfile")
}

func (suite *ProfileServiceTestSuite) TestDeleteProfile_Success() {
	ctx := context.Background()
	profileID := uuid.NewString()
	profile := &domain.Profile{ProfileID: profileID, Role: domain.RoleCustomer}

	suite.mockProfiles.On("FindProfileByID", ctx, profileID).Return(profile, nil).Once()
	suite.mockAccounts.On("FindAccountsByOwner", ctx, profileID).Return([]domain.Account{}, nil).Once()
	suite.mockProfiles.On("SoftDeleteProfile", ctx, profileID, suite.staff.ProfileID, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, suite.staff.ProfileID, mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.DeleteProfile(ctx, profileID, suite.staff)

	suite.Require().NoError(err)
	suite.mockProfiles.AssertExpectations(suite.T())
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_CustomerUpdatesSelfOnly() {
	ctx := context.Background()
	name := "New Name"

	_, err := suite.service.UpdateProfile(ctx, uuid.NewString(), dto.UpdateProfileRequest{Name: &name}, suite.customer)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	self := &domain.Profile{ProfileID: suite.customer.ProfileID, Name: "Old Name", Role: domain.RoleCustomer}
	suite.mockProfiles.On("FindProfileByID", ctx, suite.customer.ProfileID).Return(self, nil).Once()
	suite.mockProfiles.On("UpdateProfile", ctx, mock.MatchedBy(func(p domain.Profile) bool {
		return p.Name == name
	})).Return(nil).Once()

	updated, err := suite.service.UpdateProfile(ctx, suite.customer.ProfileID, dto.UpdateProfileRequest{Name: &name}, suite.customer)
	suite.Require().NoError(err)
	suite.Equal(name, updated.Name)
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
