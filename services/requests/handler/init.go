package handler

import (
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/internal/pkg/websocket"
	"github.com/roadhelper/roadhelper/services/requests"
	httpHandler "github.com/roadhelper/roadhelper/services/requests/handler/http"
	wsHandler "github.com/roadhelper/roadhelper/services/requests/handler/ws"
)

// Handler combines the HTTP and WebSocket handlers for the requests service
type Handler struct {
	requestsHTTP *httpHandler.RequestsHandler
	requestsWS   *wsHandler.SubscriptionsHandler
	cfg          *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	requestUC requests.RequestUC,
	wsManager *websocket.Manager,
	cfg *models.Config,
) *Handler {
	return &Handler{
		requestsHTTP: httpHandler.NewRequestsHandler(requestUC),
		requestsWS:   wsHandler.NewSubscriptionsHandler(wsManager, requestUC),
		cfg:          cfg,
	}
}
