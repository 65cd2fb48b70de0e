package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/internal/app/repository"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"github.com/ikkim/storerating-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker stores revoked token IDs until the token would expire anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenConfig 토큰 발급 설정
type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

// RegisterInput 회원가입 입력
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"required,min=1,max=400"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
}

type updatePasswordInput struct {
	NewPassword string `json:"newPassword" validate:"required,password"`
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, string, error)
	Login(email, password string) (*model.User, string, error)
	UpdatePassword(userID, currentPassword, newPassword string) error
	GetUserByID(id string) (*model.User, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	userRepo repository.UserRepository
	hasher   *util.PasswordHasher
	tokens   TokenConfig
	revoker  TokenRevoker
}

// NewAuthService builds the auth service. revoker may be nil, in which
// case Logout is a no-op on the server side.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *util.PasswordHasher,
	tokens TokenConfig,
	revoker TokenRevoker,
) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, string, error) {
	input.normalize()

	logger.Info("Attempting user registration", map[string]interface{}{
		"email": input.Email,
	})

	if err := validateInput(&input); err != nil {
		logger.Warn("Registration failed: invalid input", map[string]interface{}{
			"email": input.Email,
		})
		return nil, "", err
	}

	user, err := createUser(s.userRepo, s.hasher, input.Name, input.Email, input.Password, input.Address, model.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
	return user, token, nil
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	// Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	// Verify password
	if !s.hasher.Verify(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, token, nil
}

func (s *authService) UpdatePassword(userID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(user.PasswordHash, currentPassword) {
		logger.Warn("Password update failed: current password mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return ErrCurrentPasswordMismatch
	}

	if err := validateInput(&updatePasswordInput{NewPassword: newPassword}); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(userID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.Info("Password updated successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) GetUserByID(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.revoker == nil || jti == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.Info("Token revoked", map[string]interface{}{
		"jti": jti,
	})
	return nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	token, _, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.tokens.Secret, s.tokens.Expiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// createUser hashes the password and persists the user, translating a
// duplicate email into ErrEmailAlreadyExists. Input must be validated.
func createUser(
	userRepo repository.UserRepository,
	hasher *util.PasswordHasher,
	name, email, password, address string,
	role model.UserRole,
) (*model.User, error) {
	// Check if user already exists
	existing, err := userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		logger.Warn("User creation failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Address:      address,
		Role:         role,
	}
	if err := userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
