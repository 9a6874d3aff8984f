// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/pkg/auth"
)

// ErrInvalidCredentials keeps login failures indistinguishable between
// unknown email and wrong password.
var ErrInvalidCredentials = errors.New("email o contraseña incorrectos")

// ErrEmailTaken is returned on registration with an existing email.
var ErrEmailTaken = errors.New("el email ya está registrado")

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPair is issued on successful register, login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse bundles the user with their tokens.
type AuthResponse struct {
	User   *User     `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Service implements registration, login and token refresh.
type Service struct {
	db        *gorm.DB
	jwt       *auth.JWTManager
	passwords *auth.PasswordManager
}

// NewService creates the user service.
func NewService(db *gorm.DB, jwtManager *auth.JWTManager, passwordManager *auth.PasswordManager) *Service {
	return &Service{
		db:        db,
		jwt:       jwtManager,
		passwords: passwordManager,
	}
}

// Register creates a new account and returns it with a token pair.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(u)
}

// Login verifies credentials and returns the user with a token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u User
	err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.passwords.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&u).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	return s.issueTokens(&u)
}

// Refresh exchanges a valid refresh token for a new pair. Admin status
// is re-read from the database, not trusted from the old token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var u User
	err = s.db.WithContext(ctx).Where("id = ? AND is_active = ?", claims.UserID, true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return s.issueTokens(&u)
}

// Profile returns the user by id.
func (s *Service) Profile(ctx context.Context, userID uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &AuthResponse{
		User:   u,
		Tokens: TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}
