package ws

import (
	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/internal/pkg/websocket"
	"github.com/roadhelper/roadhelper/services/requests"
)

// SubscriptionsHandler streams live request updates over WebSocket
type SubscriptionsHandler struct {
	manager   *websocket.Manager
	requestUC requests.RequestUC
}

// NewSubscriptionsHandler creates a new subscriptions handler
func NewSubscriptionsHandler(manager *websocket.Manager, requestUC requests.RequestUC) *SubscriptionsHandler {
	return &SubscriptionsHandler{
		manager:   manager,
		requestUC: requestUC,
	}
}

// WatchRequest streams every update of a single request to the client until
// the connection drops
func (h *SubscriptionsHandler) WatchRequest(c echo.Context) error {
	requestID := c.Param("requestID")

	return h.manager.HandleConnection(c, func(client *models.WebSocketClient, conn *gorilla.Conn) error {
		updates, cancel, err := h.requestUC.SubscribeToRequest(requestID)
		if err != nil {
			return h.manager.SendErrorMessage(conn, "subscribe_failed", "Could not subscribe to request updates")
		}
		defer cancel()

		// Send the current state first so the client does not wait for the
		// next transition to render anything.
		if current, err := h.requestUC.GetRequest(c.Request().Context(), requestID); err == nil {
			if err := h.manager.SendMessage(conn, "request_update", current); err != nil {
				return err
			}
		}

		disconnected := watchClose(conn)
		for {
			select {
			case req := <-updates:
				if err := h.manager.SendMessage(conn, "request_update", req); err != nil {
					return err
				}
			case <-disconnected:
				logger.Debug("Request watcher disconnected",
					logger.String("request_id", requestID),
					logger.String("user_id", client.UserID))
				return nil
			}
		}
	})
}

// WatchPending streams newly created pending requests to a helper. An area
// query parameter narrows the stream to one geohash shard.
func (h *SubscriptionsHandler) WatchPending(c echo.Context) error {
	area := c.QueryParam("area")

	return h.manager.HandleConnection(c, func(client *models.WebSocketClient, conn *gorilla.Conn) error {
		if client.Role != models.RoleHelper && client.Role != models.RoleAdmin {
			return h.manager.SendErrorMessage(conn, "forbidden", "Only helpers can watch the pending board")
		}

		updates, cancel, err := h.requestUC.SubscribeToPendingRequests(area)
		if err != nil {
			return h.manager.SendErrorMessage(conn, "subscribe_failed", "Could not subscribe to pending requests")
		}
		defer cancel()

		disconnected := watchClose(conn)
		for {
			select {
			case req := <-updates:
				if err := h.manager.SendMessage(conn, "new_request", req); err != nil {
					return err
				}
			case <-disconnected:
				logger.Debug("Pending watcher disconnected",
					logger.String("area", area),
					logger.String("user_id", client.UserID))
				return nil
			}
		}
	})
}

// watchClose drains client frames so the read side surfaces a disconnect
func watchClose(conn *gorilla.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}
