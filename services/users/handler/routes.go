package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/roadhelper/roadhelper/internal/pkg/middleware"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// RegisterRoutes registers all HTTP routes for the users service
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	auth := middleware.JWTAuthMiddleware(h.cfg.JWT)
	helperOnly := middleware.RequireRole(models.RoleHelper, models.RoleAdmin)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.usersHTTP.Register)
	authGroup.POST("/login", h.usersHTTP.Login)

	usersGroup := e.Group("/users", auth)
	usersGroup.GET("/me", h.usersHTTP.GetProfile)
	usersGroup.PUT("/me", h.usersHTTP.UpdateProfile)

	helpersGroup := e.Group("/helpers", auth)
	helpersGroup.PUT("/availability", h.usersHTTP.SetAvailability, helperOnly)
	helpersGroup.PUT("/location", h.usersHTTP.UpdateLocation, helperOnly)
	helpersGroup.GET("/nearby", h.usersHTTP.NearbyHelpers)
}
