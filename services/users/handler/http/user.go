package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/middleware"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/internal/utils"
	"github.com/roadhelper/roadhelper/services/users"
)

// UserHandler handles HTTP requests for accounts and helper presence
type UserHandler struct {
	userUC users.UserUC
}

// NewUserHandler creates a new user HTTP handler
func NewUserHandler(userUC users.UserUC) *UserHandler {
	return &UserHandler{
		userUC: userUC,
	}
}

// Register handles account creation
func (h *UserHandler) Register(c echo.Context) error {
	var input models.RegisterRequest
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	resp, err := h.userUC.Register(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return utils.ConflictResponse(c, "Email is already registered")
		}
		logger.Warn("Registration rejected",
			logger.ErrorField(err))
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Account created", resp)
}

// Login handles credential verification
func (h *UserHandler) Login(c echo.Context) error {
	var input models.LoginRequest
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	resp, err := h.userUC.Login(c.Request().Context(), input)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Invalid email or password")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Logged in", resp)
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	profile, err := h.userUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.InternalServerErrorResponse(c, "")
	}

	return utils.SuccessResponse(c, http.StatusOK, "", profile)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var input models.UpdateProfileRequest
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	profile, err := h.userUC.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, http.StatusOK, "Profile updated", profile)
}

// AvailabilityRequest is the payload for toggling helper availability
type AvailabilityRequest struct {
	Available bool             `json:"available"`
	Location  *models.Location `json:"location,omitempty"`
}

// SetAvailability toggles the authenticated helper's availability
func (h *UserHandler) SetAvailability(c echo.Context) error {
	helperID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var input AvailabilityRequest
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	if err := h.userUC.SetAvailability(c.Request().Context(), helperID, input.Available, input.Location); err != nil {
		if errors.Is(err, users.ErrNotAHelper) {
			return utils.ForbiddenResponse(c, "Only helpers can change availability")
		}
		if errors.Is(err, users.ErrUserNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, http.StatusOK, "Availability updated", nil)
}

// UpdateLocation refreshes the authenticated helper's position
func (h *UserHandler) UpdateLocation(c echo.Context) error {
	helperID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var input models.Location
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	if err := h.userUC.UpdateHelperLocation(c.Request().Context(), helperID, input); err != nil {
		if errors.Is(err, users.ErrNotAHelper) {
			return utils.ForbiddenResponse(c, "Only helpers can report a position")
		}
		logger.Error("Failed to update helper location",
			logger.String("helper_id", helperID.String()),
			logger.ErrorField(err))
		return utils.InternalServerErrorResponse(c, "")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Location updated", nil)
}

// NearbyHelpers returns available helpers around a lat/lon query point
func (h *UserHandler) NearbyHelpers(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "latitude query parameter is required")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "longitude query parameter is required")
	}

	helpers, err := h.userUC.NearbyHelpers(c.Request().Context(), models.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		logger.Error("Failed to query nearby helpers",
			logger.ErrorField(err))
		return utils.InternalServerErrorResponse(c, "")
	}

	return utils.SuccessResponse(c, http.StatusOK, "", helpers)
}
