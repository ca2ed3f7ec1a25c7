package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/roadhelper/roadhelper/internal/pkg/jwt"
	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/users"
)

// Register creates a new account with a hashed password and signs the
// caller in
func (uc *UserUC) Register(ctx context.Context, input models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleHelper {
		return nil, fmt.Errorf("unknown role: %s", role)
	}
	if role == models.RoleHelper {
		for _, svc := range input.Services {
			if !models.ServiceType(svc).Valid() {
				return nil, fmt.Errorf("unknown service type: %s", svc)
			}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Phone:        input.Phone,
		Role:         role,
		Services:     input.Services,
	}

	created, err := uc.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered",
		logger.String("user_id", created.ID.String()),
		logger.String("role", string(created.Role)))

	return uc.issueToken(created)
}

// Login verifies the credentials and issues a token
func (uc *UserUC) Login(ctx context.Context, input models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Indistinguishable from a wrong password
		return nil, users.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, users.ErrInvalidCredentials
	}

	logger.Info("User logged in",
		logger.String("user_id", user.ID.String()))

	return uc.issueToken(user)
}

func (uc *UserUC) issueToken(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := jwt.GenerateToken(user.ID, user.Email, user.Role, uc.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		Token:     token,
		UserID:    user.ID.String(),
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}
