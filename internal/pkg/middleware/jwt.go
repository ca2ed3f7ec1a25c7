package middleware

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/roadhelper/roadhelper/internal/pkg/jwt"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/internal/utils"
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			// Check if the Authorization header has the correct format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			tokenString := parts[1]

			claims, err := jwtpkg.ValidateToken(tokenString, config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			userIDStr, ok := (*claims)["user_id"]
			if !ok {
				return utils.UnauthorizedResponse(c, "Invalid token: missing user_id claim")
			}

			role, ok := (*claims)["role"]
			if !ok {
				return utils.UnauthorizedResponse(c, "Invalid token: missing role claim")
			}

			userID, err := uuid.Parse(fmt.Sprintf("%v", userIDStr))
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token: user_id is not a valid UUID")
			}

			// Set the user ID and role in the context
			c.Set("user_id", userID)
			c.Set("user_role", models.UserRole(fmt.Sprintf("%v", role)))

			return next(c)
		}
	}
}

// RequireRole restricts a route to callers holding one of the given roles
func RequireRole(roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("user_role").(models.UserRole)
			if !ok {
				return utils.ForbiddenResponse(c, "Role information missing")
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return utils.ForbiddenResponse(c, "Insufficient permissions for this action")
		}
	}
}

// UserIDFromContext extracts the authenticated user ID set by JWTAuthMiddleware
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	return userID, ok
}

// RoleFromContext extracts the authenticated role set by JWTAuthMiddleware
func RoleFromContext(c echo.Context) (models.UserRole, bool) {
	role, ok := c.Get("user_role").(models.UserRole)
	return role, ok
}
