// Package auth registers users, checks their passwords and issues the
// short-lived access and long-lived refresh tokens the API accepts.
package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mandar-Sonkusare/esg/internal/database"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Config holds token secrets and lifetimes
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
}

// DefaultConfig returns the token lifetimes used by the API. Secrets must be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Claims carries the user id under the "userId" key
type Claims struct {
	UserID    string `json:"userId"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service implements register, login, refresh and token validation
type Service struct {
	store         database.Store
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	bcryptCost    int
}

// NewService creates a new auth service
func NewService(store database.Store, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaults.AccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaults.RefreshTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}

	return &Service{
		store:         store,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		bcryptCost:    cfg.BcryptCost,
	}
}

// Register creates an account with a bcrypt hashed password
func (s *Service) Register(ctx context.Context, email, password string) (*database.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.NewValidationError("Email or password missing")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	user := database.NewUser(email, string(hash))
	if err := s.store.CreateUser(ctx, user); err != nil {
		if stdErrors.Is(err, database.ErrDuplicateEmail) {
			return nil, errors.NewValidationError("User already exists")
		}
		return nil, errors.NewInternalError("failed to create user", err)
	}

	slog.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and issues an access/refresh token pair. Unknown
// email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.NewValidationError("Email or password missing")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if stdErrors.Is(err, database.ErrNotFound) {
		return nil, errors.NewValidationError("Invalid credentials")
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewValidationError("Invalid credentials")
	}

	access, err := s.issue(user.ID, tokenTypeAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(user.ID, tokenTypeRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *Service) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errors.NewAuthenticationError("No refresh token provided", nil)
	}

	claims, err := s.parse(refreshToken, tokenTypeRefresh, s.refreshSecret)
	if err != nil {
		return "", errors.NewForbiddenError("Invalid refresh token", err)
	}

	return s.issue(claims.UserID, tokenTypeAccess, s.accessSecret, s.accessTTL)
}

// ValidateAccessToken returns the user id carried by a valid access token
func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parse(token, tokenTypeAccess, s.accessSecret)
	if err != nil {
		return "", errors.NewAuthenticationError("Token is not valid", err)
	}
	return claims.UserID, nil
}

func (s *Service) issue(userID, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.NewInternalError("failed to generate token", err)
	}
	return signed, nil
}

func (s *Service) parse(tokenString, tokenType string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("expected %s token, got %q", tokenType, claims.TokenType)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("userId not found in token")
	}
	return claims, nil
}
