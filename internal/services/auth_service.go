package services

import (
	"errors"
	"fmt"
	"time"

	"bitstore/internal/config"
	"bitstore/internal/models"
	"bitstore/internal/repositories"
	"bitstore/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Credentials is the token pair handed out on login and registration.
type Credentials struct {
	Refresh string      `json:"refresh"`
	Access  string      `json:"access"`
	User    UserSummary `json:"user"`
}

// UserSummary is the slice of the user echoed back with credentials.
type UserSummary struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// AuthService handles registration, login, logout and token validation.
type AuthService struct {
	userRepo      repositories.UserRepository
	tokenRepo     repositories.RefreshTokenRepository
	jwtSecret     []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	log           *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	cfg config.JWTConfig,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		jwtSecret:     []byte(cfg.Secret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		log:           log,
	}
}

// Register validates a signup, creates the user and issues credentials.
// A validation.Errors return means the input was rejected; any other error
// is a persistence failure.
func (s *AuthService) Register(reg *validation.Registration) (*models.User, *Credentials, error) {
	if err := validation.ValidateRegistration(reg, s.userRepo.ExistsByUsername, s.userRepo.ExistsByEmail); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			s.log.Warn("registration rejected",
				zap.String("username", reg.Username),
				zap.String("reason", verrs.Error()))
			return nil, nil, verrs
		}
		return nil, nil, fmt.Errorf("failed to validate registration: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: reg.Username,
		Email:    reg.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	creds, err := s.issueCredentials(user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	return user, creds, nil
}

// Login authenticates a user and issues a fresh credential pair.
func (s *AuthService) Login(username, password string) (*Credentials, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Warn("login failed", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	creds, err := s.issueCredentials(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	return creds, nil
}

// Logout revokes a refresh token. Malformed tokens and unknown or
// already-revoked tokens both surface as client errors, but as distinct
// variants so they can be logged apart.
func (s *AuthService) Logout(refresh string) error {
	if _, err := uuid.Parse(refresh); err != nil {
		s.log.Warn("logout with malformed refresh token")
		return ErrMalformedToken
	}

	if err := s.tokenRepo.Revoke(refresh); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.log.Warn("logout with unknown or already-revoked refresh token")
			return ErrTokenRevoked
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.log.Info("refresh token revoked")
	return nil
}

// ValidateToken parses and validates an access token, returning its
// claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// issueCredentials signs an access JWT and persists a new opaque refresh
// token for the user.
func (s *AuthService) issueCredentials(user *models.User) (*Credentials, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"exp":      now.Add(s.accessExpiry).Unix(),
		"iat":      now.Unix(),
	})
	access, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(s.refreshExpiry),
	}
	if err := s.tokenRepo.Create(refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &Credentials{
		Refresh: refresh.Token,
		Access:  access,
		User: UserSummary{
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		},
	}, nil
}
