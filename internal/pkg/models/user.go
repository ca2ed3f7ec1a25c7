package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserRole identifies which side of the marketplace a user is on
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleHelper   UserRole = "helper"
	RoleAdmin    UserRole = "admin"
)

// User represents a user in the system (customer, helper or admin)
type User struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Email         string         `json:"email" db:"email"`
	PasswordHash  string         `json:"-" db:"password_hash"`
	Name          string         `json:"name" db:"name"`
	Phone         string         `json:"phone" db:"phone"`
	Role          UserRole       `json:"role" db:"role"`
	Rating        float64        `json:"rating" db:"rating"`
	TotalJobs     int            `json:"total_jobs" db:"total_jobs"`
	TotalEarnings int            `json:"total_earnings" db:"total_earnings"`
	Services      pq.StringArray `json:"services,omitempty" db:"services"`
	IsAvailable   bool           `json:"is_available" db:"is_available"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// IsHelper reports whether the user acts as a helper
func (u *User) IsHelper() bool {
	return u.Role == RoleHelper
}

// NearbyHelper is a helper candidate returned by a geo lookup
type NearbyHelper struct {
	ID         string  `json:"id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Role     UserRole `json:"role"`
	Services []string `json:"services,omitempty"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the payload for profile updates
type UpdateProfileRequest struct {
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Services []string `json:"services,omitempty"`
}

// AuthResponse is returned after a successful register or login
type AuthResponse struct {
	Token     string   `json:"token"`
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	ExpiresAt int64    `json:"expires_at"`
}
