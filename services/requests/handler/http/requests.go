package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/middleware"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/internal/utils"
	"github.com/roadhelper/roadhelper/services/requests"
)

// RequestsHandler handles HTTP requests for help request operations
type RequestsHandler struct {
	requestUC requests.RequestUC
}

// NewRequestsHandler creates a new help request HTTP handler
func NewRequestsHandler(requestUC requests.RequestUC) *RequestsHandler {
	return &RequestsHandler{
		requestUC: requestUC,
	}
}

// CreateRequest handles a customer submitting a new help request
func (h *RequestsHandler) CreateRequest(c echo.Context) error {
	customerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var input models.CreateRequestInput
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	created, err := h.requestUC.CreateRequest(c.Request().Context(), customerID, input)
	if err != nil {
		logger.Error("Failed to create help request",
			logger.String("customer_id", customerID.String()),
			logger.ErrorField(err))
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Help request created", created)
}

// GetRequest returns one request by ID
func (h *RequestsHandler) GetRequest(c echo.Context) error {
	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	req, err := h.requestUC.GetRequest(c.Request().Context(), requestID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", req)
}

// ListPending returns the open requests for the helper board
func (h *RequestsHandler) ListPending(c echo.Context) error {
	pending, err := h.requestUC.ListPendingRequests(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list pending requests",
			logger.ErrorField(err))
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", pending)
}

// AcceptRequest handles a helper claiming a pending request at a quoted price
func (h *RequestsHandler) AcceptRequest(c echo.Context) error {
	helperID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	var input models.AcceptRequestInput
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	accepted, err := h.requestUC.AcceptRequest(c.Request().Context(), requestID, helperID, input.Price)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Request accepted", accepted)
}

// AdvanceStatus handles the assigned helper moving the request forward
func (h *RequestsHandler) AdvanceStatus(c echo.Context) error {
	helperID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	var input models.AdvanceStatusInput
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	updated, err := h.requestUC.AdvanceStatus(c.Request().Context(), requestID, helperID, input.Target)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Status updated", updated)
}

// CompleteRequest handles the assigned helper finishing the job
func (h *RequestsHandler) CompleteRequest(c echo.Context) error {
	helperID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	completed, err := h.requestUC.CompleteRequest(c.Request().Context(), requestID, helperID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Request completed", completed)
}

// CancelRequest handles the owning customer calling off a request
func (h *RequestsHandler) CancelRequest(c echo.Context) error {
	customerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	cancelled, err := h.requestUC.CancelRequest(c.Request().Context(), requestID, customerID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Request cancelled", cancelled)
}

// RateRequest handles the customer rating a completed request
func (h *RequestsHandler) RateRequest(c echo.Context) error {
	customerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	var input models.RateRequestInput
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	rated, err := h.requestUC.RateRequest(c.Request().Context(), requestID, customerID, input.Score, input.Review)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Rating recorded", rated)
}

// GetMyRequests returns the authenticated customer's request history
func (h *RequestsHandler) GetMyRequests(c echo.Context) error {
	customerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	history, err := h.requestUC.GetCustomerHistory(c.Request().Context(), customerID)
	if err != nil {
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", history)
}

// GetEarnings returns the authenticated helper's earnings report
func (h *RequestsHandler) GetEarnings(c echo.Context) error {
	helperID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	report, err := h.requestUC.GetHelperEarnings(c.Request().Context(), helperID)
	if err != nil {
		logger.Error("Failed to build earnings report",
			logger.String("helper_id", helperID.String()),
			logger.ErrorField(err))
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", report)
}

// ReconcileHelper rebuilds a helper's profile totals from the request history
func (h *RequestsHandler) ReconcileHelper(c echo.Context) error {
	helperID, err := uuid.Parse(c.Param("helperID"))
	if err != nil {
		return utils.BadRequestResponse(c, "Helper ID must be a valid UUID")
	}

	if err := h.requestUC.ReconcileHelperAggregates(c.Request().Context(), helperID); err != nil {
		logger.Error("Failed to reconcile helper aggregates",
			logger.String("helper_id", helperID.String()),
			logger.ErrorField(err))
		return h.mapError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Aggregates reconciled", nil)
}

// mapError translates domain errors into HTTP responses
func (h *RequestsHandler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, requests.ErrRequestNotFound):
		return utils.NotFoundResponse(c, "Request not found")
	case errors.Is(err, requests.ErrAlreadyAccepted):
		return utils.ConflictResponse(c, "This request was already accepted by another helper")
	case errors.Is(err, requests.ErrAlreadyRated):
		return utils.ConflictResponse(c, "This request has already been rated")
	case errors.Is(err, requests.ErrInvalidTransition):
		return utils.ConflictResponse(c, "Action not permitted from the request's current status")
	case errors.Is(err, requests.ErrNotAuthorized):
		return utils.ForbiddenResponse(c, "You are not permitted to perform this action")
	case errors.Is(err, requests.ErrMissingPrice):
		return utils.BadRequestResponse(c, "A positive price is required")
	case errors.Is(err, requests.ErrUnknownService):
		return utils.BadRequestResponse(c, "Unknown service type")
	case errors.Is(err, requests.ErrInvalidScore):
		return utils.BadRequestResponse(c, "Rating score must be between 1 and 5")
	case errors.Is(err, requests.ErrStorageUnavailable):
		return utils.ServiceUnavailableResponse(c, "Please retry shortly")
	default:
		return utils.InternalServerErrorResponse(c, "Something went wrong")
	}
}
