package handler

import (
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/users"
	httpHandler "github.com/roadhelper/roadhelper/services/users/handler/http"
)

// Handler combines all handlers for the users service
type Handler struct {
	usersHTTP *httpHandler.UserHandler
	cfg       *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(userUC users.UserUC, cfg *models.Config) *Handler {
	return &Handler{
		usersHTTP: httpHandler.NewUserHandler(userUC),
		cfg:       cfg,
	}
}
