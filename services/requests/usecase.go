package requests

import (
	"context"

	"github.com/google/uuid"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// RequestUC defines the business logic contract for the request lifecycle.
// All guard failures surface as the typed errors in errors.go so callers can
// render an exact, actionable message.
type RequestUC interface {
	CreateRequest(ctx context.Context, customerID uuid.UUID, input models.CreateRequestInput) (*models.HelpRequest, error)
	GetRequest(ctx context.Context, requestID string) (*models.HelpRequest, error)
	ListPendingRequests(ctx context.Context) ([]models.HelpRequest, error)

	AcceptRequest(ctx context.Context, requestID string, helperID uuid.UUID, price int) (*models.HelpRequest, error)
	AdvanceStatus(ctx context.Context, requestID string, callerID uuid.UUID, target models.RequestStatus) (*models.HelpRequest, error)
	CancelRequest(ctx context.Context, requestID string, callerID uuid.UUID) (*models.HelpRequest, error)
	CompleteRequest(ctx context.Context, requestID string, callerID uuid.UUID) (*models.HelpRequest, error)
	RateRequest(ctx context.Context, requestID string, callerID uuid.UUID, score int, review string) (*models.HelpRequest, error)

	GetCustomerHistory(ctx context.Context, customerID uuid.UUID) ([]models.HelpRequest, error)
	GetHelperEarnings(ctx context.Context, helperID uuid.UUID) (*models.EarningsReport, error)
	ReconcileHelperAggregates(ctx context.Context, helperID uuid.UUID) error

	SubscribeToRequest(requestID string) (<-chan models.HelpRequest, func(), error)
	SubscribeToPendingRequests(area string) (<-chan models.HelpRequest, func(), error)
}
