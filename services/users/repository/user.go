package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/users"
)

// Postgres reports unique constraint violations with this code
const pgUniqueViolation = "23505"

// UserRepo implements the users.UserRepo interface on PostgreSQL
type UserRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(cfg *models.Config, db *sqlx.DB) *UserRepo {
	return &UserRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreateUser inserts a new account
func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (
			id, email, password_hash, name, phone, role,
			rating, total_jobs, total_earnings, services, is_available,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, $7, FALSE, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Phone,
		user.Role,
		user.Services,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (r *UserRepo) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// UpdateProfile updates the mutable profile fields
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, input models.UpdateProfileRequest) error {
	query := `
		UPDATE users
		SET name = $1, phone = $2, services = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		input.Name,
		input.Phone,
		pq.StringArray(input.Services),
		time.Now(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// SetAvailability flips the availability flag on the profile
func (r *UserRepo) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	query := `UPDATE users SET is_available = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, available, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return users.ErrUserNotFound
	}
	return nil
}
