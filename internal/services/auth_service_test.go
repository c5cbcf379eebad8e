package services_test

import (
	"fmt"
	"testing"
	"time"

	"bitstore/internal/config"
	"bitstore/internal/models"
	"bitstore/internal/repositories"
	"bitstore/internal/services"
	"bitstore/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

// MockRefreshTokenRepo is a mock implementation of repositories.RefreshTokenRepository.
type MockRefreshTokenRepo struct {
	mock.Mock
}

func (m *MockRefreshTokenRepo) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepo) GetByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepo) Revoke(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:        "test_jwt_secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
	}
}

func newAuthService(userRepo *MockUserRepository, tokenRepo *MockRefreshTokenRepo) *services.AuthService {
	return services.NewAuthService(userRepo, tokenRepo, testJWTConfig(), zap.NewNop())
}

func TestAuthService_Register(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	reg := &validation.Registration{
		Username:  "testuser",
		Email:     "test@example.com",
		Password:  "abc123!@",
		Password2: "abc123!@",
	}

	userRepo.On("ExistsByUsername", "testuser").Return(false, nil).Once()
	userRepo.On("ExistsByEmail", "test@example.com").Return(false, nil).Once()
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	tokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil).Once()

	user, creds, err := authService.Register(reg)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotNil(t, creds)
	assert.Equal(t, "testuser", creds.User.Username)
	assert.False(t, creds.User.IsAdmin)
	assert.NotEmpty(t, creds.Access)
	assert.NotEmpty(t, creds.Refresh)

	// The stored password must be a hash of the plaintext, never the
	// plaintext itself.
	assert.NotEqual(t, "abc123!@", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("abc123!@")))

	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	reg := &validation.Registration{
		Username:  "taken",
		Email:     "new@example.com",
		Password:  "abc123!@",
		Password2: "abc123!@",
	}

	userRepo.On("ExistsByUsername", "taken").Return(true, nil).Once()

	_, _, err := authService.Register(reg)

	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("username", validation.CodeDuplicate))
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	// Passes length, digit and letter checks but has no special character.
	reg := &validation.Registration{
		Username:  "testuser",
		Email:     "test@example.com",
		Password:  "abc12345",
		Password2: "abc12345",
	}

	userRepo.On("ExistsByUsername", "testuser").Return(false, nil).Once()
	userRepo.On("ExistsByEmail", "test@example.com").Return(false, nil).Once()

	_, _, err := authService.Register(reg)

	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("password", validation.CodeMissingCharClass))
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("abc123!@"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-1",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashed),
		IsAdmin:  true,
	}

	userRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	tokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil).Once()

	creds, err := authService.Login("testuser", "abc123!@")

	assert.NoError(t, err)
	assert.Equal(t, "testuser", creds.User.Username)
	assert.True(t, creds.User.IsAdmin)
	assert.NotEmpty(t, creds.Access)
	// The refresh credential is an opaque token, not a JWT.
	_, err = uuid.Parse(creds.Refresh)
	assert.NoError(t, err)

	// The access token round-trips through validation with the right
	// identity claims.
	claims, err := authService.ValidateToken(creds.Access)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, true, claims["is_admin"])

	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("abc123!@"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Username: "testuser", Password: string(hashed)}

	userRepo.On("GetByUsername", "testuser").Return(user, nil).Once()

	creds, err := authService.Login("testuser", "wrongpass1!")

	assert.Nil(t, creds)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	userRepo.On("GetByUsername", "ghost").
		Return(nil, fmt.Errorf("user with username ghost: %w", repositories.ErrNotFound)).Once()

	creds, err := authService.Login("ghost", "whatever1!")

	assert.Nil(t, creds)
	// Unknown users surface the same error as bad passwords.
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	token := uuid.New().String()
	tokenRepo.On("Revoke", token).Return(nil).Once()

	assert.NoError(t, authService.Logout(token))
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Logout_MalformedToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	err := authService.Logout("not-a-token")

	assert.ErrorIs(t, err, services.ErrMalformedToken)
	tokenRepo.AssertNotCalled(t, "Revoke", mock.Anything)
}

func TestAuthService_Logout_AlreadyRevoked(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepo)
	authService := newAuthService(userRepo, tokenRepo)

	token := uuid.New().String()
	tokenRepo.On("Revoke", token).
		Return(fmt.Errorf("refresh token: %w", repositories.ErrNotFound)).Once()

	err := authService.Logout(token)

	assert.ErrorIs(t, err, services.ErrTokenRevoked)
	tokenRepo.AssertExpectations(t)
}
