package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/roadhelper/roadhelper/internal/pkg/middleware"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// RegisterRoutes registers all HTTP and WebSocket routes for the requests service
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	auth := middleware.JWTAuthMiddleware(h.cfg.JWT)
	customerOnly := middleware.RequireRole(models.RoleCustomer, models.RoleAdmin)
	helperOnly := middleware.RequireRole(models.RoleHelper, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	reqGroup := e.Group("/requests", auth)
	reqGroup.POST("", h.requestsHTTP.CreateRequest, customerOnly)
	reqGroup.GET("/pending", h.requestsHTTP.ListPending, helperOnly)
	reqGroup.GET("/:requestID", h.requestsHTTP.GetRequest)
	reqGroup.POST("/:requestID/accept", h.requestsHTTP.AcceptRequest, helperOnly)
	reqGroup.POST("/:requestID/status", h.requestsHTTP.AdvanceStatus, helperOnly)
	reqGroup.POST("/:requestID/complete", h.requestsHTTP.CompleteRequest, helperOnly)
	reqGroup.POST("/:requestID/cancel", h.requestsHTTP.CancelRequest, customerOnly)
	reqGroup.POST("/:requestID/rating", h.requestsHTTP.RateRequest, customerOnly)

	e.GET("/customers/me/history", h.requestsHTTP.GetMyRequests, auth, customerOnly)
	e.GET("/helpers/me/earnings", h.requestsHTTP.GetEarnings, auth, helperOnly)
	e.POST("/admin/helpers/:helperID/reconcile", h.requestsHTTP.ReconcileHelper, auth, adminOnly)

	// WebSocket subscriptions authenticate inside the upgrade handshake
	wsGroup := e.Group("/ws")
	wsGroup.GET("/requests/pending", h.requestsWS.WatchPending)
	wsGroup.GET("/requests/:requestID", h.requestsWS.WatchRequest)
}
