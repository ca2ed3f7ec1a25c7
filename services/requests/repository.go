package requests

import (
	"context"

	"github.com/google/uuid"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// RequestRepo defines the data access contract for help requests.
// Every mutating operation that depends on the request's current state is a
// conditional write: it reports false when the precondition no longer held
// at write time, so concurrent callers resolve races at the storage layer.
type RequestRepo interface {
	CreateRequest(ctx context.Context, req *models.HelpRequest) (*models.HelpRequest, error)
	GetRequest(ctx context.Context, requestID string) (*models.HelpRequest, error)
	ListPending(ctx context.Context, limit int) ([]models.HelpRequest, error)

	// AcceptRequest binds a helper to a pending request. The write succeeds
	// only if the request is still pending with no helper assigned.
	AcceptRequest(ctx context.Context, requestID string, helperID uuid.UUID, helperName string, price int) (bool, error)

	// AdvanceStatus moves the request from an expected current status to the
	// next one. The write succeeds only if the request still holds from.
	AdvanceStatus(ctx context.Context, requestID string, from, to models.RequestStatus) (bool, error)

	// CompleteRequest marks an arrived request completed and stamps completed_at
	CompleteRequest(ctx context.Context, requestID string) (bool, error)

	// CancelRequest cancels a request still in a cancellable status
	CancelRequest(ctx context.Context, requestID string) (bool, error)

	// SetRating writes the rating and review once; it fails the precondition
	// if the request is not completed or already carries a rating.
	SetRating(ctx context.Context, requestID string, score int, review string) (bool, error)

	// SettleRequest applies the aggregate bookkeeping for a completed
	// request exactly once: a settled marker on the request guards the
	// increments, so repeated invocations are safe.
	SettleRequest(ctx context.Context, req *models.HelpRequest) error

	// AverageHelperRating returns the mean rating across all of the helper's
	// rated requests plus the number of rated requests.
	AverageHelperRating(ctx context.Context, helperID uuid.UUID) (float64, int, error)

	// UpdateHelperRating stores the recomputed rolling average on the profile
	UpdateHelperRating(ctx context.Context, helperID uuid.UUID, rating float64) error

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.HelpRequest, error)
	ListCompletedByHelper(ctx context.Context, helperID uuid.UUID) ([]models.HelpRequest, error)

	// ReconcileHelperAggregates recomputes the helper's totals from the
	// completed-request history, repairing any settlement that never landed.
	ReconcileHelperAggregates(ctx context.Context, helperID uuid.UUID) error
}

// UserReader provides the profile lookups the request flows need for
// identity snapshots and guard checks
type UserReader interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}
