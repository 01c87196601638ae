package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tagfeed/internal/apperror"
	"tagfeed/internal/config"
	"tagfeed/internal/metrics"
	"tagfeed/internal/models"
	"tagfeed/internal/repository"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidToken       = "Invalid or expired token"
	msgEmailTaken         = "Email is already registered"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type TokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, req LoginInput) (*AuthResult, error)
	ParseToken(tokenString string) (*TokenClaims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	cfg       *config.Config
	validator *Validator
	metrics   metrics.Provider
	log       *slog.Logger
	now       func() time.Time

	// dummyHash is compared against when the email is unknown so both
	// login failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, m metrics.Provider, log *slog.Logger) AuthService {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("tagfeed-unknown-user"), cfg.BcryptCost)
	if err != nil {
		log.Warn("failed to prepare dummy password hash", slog.String("error", err.Error()))
	}

	return &authService{
		userRepo:  userRepo,
		cfg:       cfg,
		validator: NewValidator(),
		metrics:   m,
		log:       log,
		now:       time.Now,
		dummyHash: dummyHash,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req RegisterInput) (result *AuthResult, err error) {
	defer func() { s.metrics.IncrementAuthOperations("register", err == nil) }()

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil && existing != nil:
		return nil, apperror.Conflict(msgEmailTaken)
	case err != nil && !errors.Is(err, repository.ErrUserNotFound):
		return nil, apperror.Internal(fmt.Errorf("lookup user by email: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.Validation("Validation failed", apperror.FieldError{
				Field:   "password",
				Message: "password must be at most 72 bytes long",
			})
		}
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict(msgEmailTaken)
		}
		return nil, apperror.Internal(fmt.Errorf("create user: %w", err))
	}

	token, err := s.generateAccessToken(user.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.log.Info("user registered", slog.String("user_id", user.UserID))

	return &AuthResult{Token: token, User: user.Summary()}, nil
}

func (s *authService) Login(ctx context.Context, req LoginInput) (result *AuthResult, err error) {
	defer func() { s.metrics.IncrementAuthOperations("login", err == nil) }()

	req.Email = normalizeEmail(req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			return nil, apperror.Authentication(msgInvalidCredentials)
		}
		return nil, apperror.Internal(fmt.Errorf("lookup user by email: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Authentication(msgInvalidCredentials)
	}

	token, err := s.generateAccessToken(user.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &AuthResult{Token: token, User: user.Summary()}, nil
}

func (s *authService) generateAccessToken(userID string) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, apperror.Authentication(msgInvalidToken)
	}

	return claims, nil
}
