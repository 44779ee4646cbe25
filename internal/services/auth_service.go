package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/contenthub/backend/internal/auth"
	"github.com/contenthub/backend/internal/models"
	"github.com/contenthub/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmailOrUsername retrieves a user by email or username.
	//
	// If user with such email or username does not exist, the error will be returned together with "nil" value.
	GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error)
	// Method GetByID retrieves a user by ID with the effective role resolved.
	//
	// If user with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ExistsByUsername checks if a user with such username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// UserTokenRepository is the interface that wraps methods for UserToken table data access
type UserTokenRepository interface {
	// Method Create inserts a new refresh token row.
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves a refresh token row by token string.
	//
	// If such token does not exist, the error will be returned together with "nil" value.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// Method UpdateToken replaces an old refresh token with a new one for the user.
	UpdateToken(ctx context.Context, oldToken, newToken string, userID int) error
	// Method DeleteByToken deletes a refresh token row by token string.
	DeleteByToken(ctx context.Context, token string) error
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// passwordChecks validates password: at least 8 chars, uppercase, lowercase, number, special: !_?^&+-=|
var passwordChecks = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`[0-9]`),
	regexp.MustCompile(`[!_?^&+\-=|]`),
}

// Register creates a new user account. New users start with no role
// assigned; only an admin grants roles through the role assignment endpoint.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if !emailRegex.MatchString(email) {
		return "", "", fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if username == "" {
		return "", "", fmt.Errorf("%w: username is required", ErrValidation)
	}
	for _, check := range passwordChecks {
		if !check.MatchString(req.Password) {
			return "", "", fmt.Errorf("%w: password must be at least 8 characters and contain upper and lower case letters, a number and a special character", ErrValidation)
		}
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return "", "", fmt.Errorf("%w: email already in use", ErrValidation)
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return "", "", fmt.Errorf("%w: username already in use", ErrValidation)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	// Create user with no role assigned (most restrictive)
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", err
	}

	return s.generateAndSaveTokens(ctx, user.ID)
}

// Login authenticates a user by email or username
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, string, error) {
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" {
		return "", "", fmt.Errorf("%w: login cannot be empty", ErrValidation)
	}
	if req.Password == "" {
		return "", "", fmt.Errorf("%w: password cannot be empty", ErrValidation)
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	return s.generateAndSaveTokens(ctx, user.ID)
}

// Refresh rotates the refresh token and issues a new access token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
		return "", "", fmt.Errorf("%w: invalid refresh token", ErrInvalidCredentials)
	}

	stored, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return "", "", fmt.Errorf("%w: unknown refresh token", ErrInvalidCredentials)
		}
		return "", "", err
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(stored.UserID)
	if err != nil {
		return "", "", err
	}

	if err := s.userTokenRepo.UpdateToken(ctx, refreshToken, newRefreshToken, stored.UserID); err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

// Logout deletes the refresh token so it can no longer be rotated
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.userTokenRepo.DeleteByToken(ctx, refreshToken)
}

// generateAndSaveTokens issues a token pair and persists the refresh token
func (s *authService) generateAndSaveTokens(ctx context.Context, userID int) (string, string, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(userID)
	if err != nil {
		return "", "", err
	}

	userToken := &models.UserToken{
		UserID: userID,
		Token:  refreshToken,
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
