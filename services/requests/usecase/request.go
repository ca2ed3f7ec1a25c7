package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/requests"
)

// RequestUC implements the requests.RequestUC interface
type RequestUC struct {
	cfg     *models.Config
	repo    requests.RequestRepo
	users   requests.UserReader
	gateway requests.RequestGW
}

// NewRequestUC creates a new request usecase
func NewRequestUC(
	cfg *models.Config,
	repo requests.RequestRepo,
	users requests.UserReader,
	gateway requests.RequestGW,
) *RequestUC {
	return &RequestUC{
		cfg:     cfg,
		repo:    repo,
		users:   users,
		gateway: gateway,
	}
}

// CreateRequest creates a new pending help request for the customer and
// broadcasts it to the helper board
func (uc *RequestUC) CreateRequest(ctx context.Context, customerID uuid.UUID, input models.CreateRequestInput) (*models.HelpRequest, error) {
	if !input.Service.Valid() {
		return nil, fmt.Errorf("%w: %s", requests.ErrUnknownService, input.Service)
	}

	customer, err := uc.users.GetUser(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer profile: %w", err)
	}

	req := &models.HelpRequest{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Service:       input.Service,
		Location:      input.Location,
		Notes:         input.Notes,
	}

	created, err := uc.repo.CreateRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	uc.publishCreated(ctx, created)

	logger.Info("Help request created",
		logger.String("request_id", created.ID.String()),
		logger.String("service", string(created.Service)),
		logger.String("customer_id", customer.ID.String()))

	return created, nil
}

// GetRequest retrieves a request by ID
func (uc *RequestUC) GetRequest(ctx context.Context, requestID string) (*models.HelpRequest, error) {
	return uc.repo.GetRequest(ctx, requestID)
}

// ListPendingRequests returns the newest pending requests for the helper board
func (uc *RequestUC) ListPendingRequests(ctx context.Context) ([]models.HelpRequest, error) {
	limit := uc.cfg.Requests.PendingLimit
	if limit <= 0 {
		limit = 20
	}
	return uc.repo.ListPending(ctx, limit)
}

// AcceptRequest assigns the helper to a pending request at the quoted price.
// When two helpers race, the storage-level guard lets exactly one through;
// the loser gets ErrAlreadyAccepted.
func (uc *RequestUC) AcceptRequest(ctx context.Context, requestID string, helperID uuid.UUID, price int) (*models.HelpRequest, error) {
	if price <= 0 {
		return nil, requests.ErrMissingPrice
	}

	helper, err := uc.users.GetUser(ctx, helperID)
	if err != nil {
		return nil, fmt.Errorf("failed to load helper profile: %w", err)
	}
	if !helper.IsHelper() {
		return nil, requests.ErrNotAuthorized
	}

	ok, err := uc.repo.AcceptRequest(ctx, requestID, helper.ID, helper.Name, price)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The guard failed: either another helper got there first or the
		// request left the pending state. Refetch to tell the two apart.
		current, err := uc.repo.GetRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if current.HelperID != nil {
			return nil, requests.ErrAlreadyAccepted
		}
		return nil, requests.ErrInvalidTransition
	}

	accepted, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	uc.publishUpdated(ctx, accepted)

	logger.Info("Help request accepted",
		logger.String("request_id", requestID),
		logger.String("helper_id", helper.ID.String()),
		logger.Int("price", price))

	return accepted, nil
}

// AdvanceStatus moves the request to the target status on behalf of the
// assigned helper. Advancing to completed triggers settlement.
func (uc *RequestUC) AdvanceStatus(ctx context.Context, requestID string, callerID uuid.UUID, target models.RequestStatus) (*models.HelpRequest, error) {
	if target == models.StatusCompleted {
		return uc.CompleteRequest(ctx, requestID, callerID)
	}

	from, ok := requests.PredecessorOf(target)
	if !ok {
		return nil, requests.ErrInvalidTransition
	}

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsTerminal() {
		return nil, requests.ErrInvalidTransition
	}
	if req.HelperID == nil || *req.HelperID != callerID {
		return nil, requests.ErrNotAuthorized
	}

	moved, err := uc.repo.AdvanceStatus(ctx, requestID, from, target)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, requests.ErrInvalidTransition
	}

	updated, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	uc.publishUpdated(ctx, updated)

	logger.Info("Help request advanced",
		logger.String("request_id", requestID),
		logger.String("status", string(target)))

	return updated, nil
}

// CancelRequest cancels a request on behalf of the owning customer. Only
// pending and accepted requests can be cancelled.
func (uc *RequestUC) CancelRequest(ctx context.Context, requestID string, callerID uuid.UUID) (*models.HelpRequest, error) {
	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != callerID {
		return nil, requests.ErrNotAuthorized
	}
	if !requests.Cancellable(req.Status) {
		return nil, requests.ErrInvalidTransition
	}

	cancelled, err := uc.repo.CancelRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, requests.ErrInvalidTransition
	}

	updated, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	uc.publishUpdated(ctx, updated)

	logger.Info("Help request cancelled",
		logger.String("request_id", requestID),
		logger.String("customer_id", callerID.String()))

	return updated, nil
}

// CompleteRequest marks an arrived request completed and settles it. The
// completion write and the settlement are separate steps, so the follow-up
// reconciliation covers a crash between them.
func (uc *RequestUC) CompleteRequest(ctx context.Context, requestID string, callerID uuid.UUID) (*models.HelpRequest, error) {
	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.HelperID == nil || *req.HelperID != callerID {
		return nil, requests.ErrNotAuthorized
	}

	completed, err := uc.repo.CompleteRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, requests.ErrInvalidTransition
	}

	updated, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SettleRequest(ctx, updated); err != nil {
		// The request is completed either way; settlement is repaired by
		// ReconcileHelperAggregates.
		logger.Error("Settlement failed, will reconcile later",
			logger.String("request_id", requestID),
			logger.ErrorField(err))
	} else {
		updated.Settled = true
	}

	uc.publishUpdated(ctx, updated)

	logger.Info("Help request completed",
		logger.String("request_id", requestID),
		logger.String("helper_id", callerID.String()))

	return updated, nil
}

// RateRequest records the customer's rating for a completed request exactly
// once and recomputes the helper's rolling average
func (uc *RequestUC) RateRequest(ctx context.Context, requestID string, callerID uuid.UUID, score int, review string) (*models.HelpRequest, error) {
	if score < 1 || score > 5 {
		return nil, fmt.Errorf("%w: got %d", requests.ErrInvalidScore, score)
	}

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != callerID {
		return nil, requests.ErrNotAuthorized
	}
	if req.Status != models.StatusCompleted {
		return nil, requests.ErrInvalidTransition
	}
	if req.Rating != nil {
		return nil, requests.ErrAlreadyRated
	}

	written, err := uc.repo.SetRating(ctx, requestID, score, review)
	if err != nil {
		return nil, err
	}
	if !written {
		return nil, requests.ErrAlreadyRated
	}

	if req.HelperID != nil {
		if err := uc.recomputeHelperRating(ctx, *req.HelperID); err != nil {
			logger.Error("Failed to recompute helper rating",
				logger.String("helper_id", req.HelperID.String()),
				logger.ErrorField(err))
		}
	}

	updated, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	uc.publishUpdated(ctx, updated)

	return updated, nil
}

// recomputeHelperRating averages every rating the helper has ever received
// and stores it rounded to one decimal place
func (uc *RequestUC) recomputeHelperRating(ctx context.Context, helperID uuid.UUID) error {
	avg, count, err := uc.repo.AverageHelperRating(ctx, helperID)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	rounded := math.Round(avg*10) / 10
	return uc.repo.UpdateHelperRating(ctx, helperID, rounded)
}

// GetCustomerHistory returns the customer's requests, newest first
func (uc *RequestUC) GetCustomerHistory(ctx context.Context, customerID uuid.UUID) ([]models.HelpRequest, error) {
	return uc.repo.ListByCustomer(ctx, customerID)
}

// GetHelperEarnings builds the helper's earnings report from completed
// requests: lifetime total, current calendar month total and the job history
func (uc *RequestUC) GetHelperEarnings(ctx context.Context, helperID uuid.UUID) (*models.EarningsReport, error) {
	history, err := uc.repo.ListCompletedByHelper(ctx, helperID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &models.EarningsReport{History: history}
	for _, req := range history {
		if req.Price == nil {
			continue
		}
		report.Total += *req.Price
		if req.CompletedAt != nil &&
			req.CompletedAt.Year() == now.Year() &&
			req.CompletedAt.Month() == now.Month() {
			report.ThisMonth += *req.Price
		}
	}

	return report, nil
}

// ReconcileHelperAggregates rebuilds the helper's profile totals from the
// request history, repairing settlements lost to a crash
func (uc *RequestUC) ReconcileHelperAggregates(ctx context.Context, helperID uuid.UUID) error {
	if err := uc.repo.ReconcileHelperAggregates(ctx, helperID); err != nil {
		return err
	}
	return uc.recomputeHelperRating(ctx, helperID)
}

// publishCreated broadcasts a new pending request on the firehose and the
// area shard. Publish failures are logged, never surfaced; the store is
// authoritative.
func (uc *RequestUC) publishCreated(ctx context.Context, req *models.HelpRequest) {
	if err := uc.gateway.PublishRequestCreated(ctx, req); err != nil {
		logger.Warn("Failed to publish request created event",
			logger.String("request_id", req.ID.String()),
			logger.ErrorField(err))
	}
}

func (uc *RequestUC) publishUpdated(ctx context.Context, req *models.HelpRequest) {
	if err := uc.gateway.PublishRequestUpdated(ctx, req); err != nil {
		logger.Warn("Failed to publish request updated event",
			logger.String("request_id", req.ID.String()),
			logger.ErrorField(err))
	}
}
