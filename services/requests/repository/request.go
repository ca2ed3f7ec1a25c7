package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/requests"
)

// RequestRepo implements the requests.RequestRepo interface on PostgreSQL
type RequestRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(cfg *models.Config, db *sqlx.DB) *RequestRepo {
	return &RequestRepo{
		cfg: cfg,
		db:  db,
	}
}

const requestColumns = `
	id, customer_id, customer_name, customer_phone, service, status,
	latitude, longitude, address,
	helper_id, helper_name, price, notes, settled,
	created_at, accepted_at, completed_at, rating, review
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// storageErr wraps a repository failure, surfacing transient driver faults as
// ErrStorageUnavailable so callers know the operation is safe to retry
func storageErr(op string, err error) error {
	if transientErr(err) {
		return fmt.Errorf("%s: %w", op, requests.ErrStorageUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// transientErr reports whether the failure is connection-level rather than a
// statement rejection
func transientErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

// scanRequest parses one requests row into a HelpRequest
func scanRequest(row rowScanner) (*models.HelpRequest, error) {
	req := &models.HelpRequest{}
	var helperID sql.NullString
	var helperName, review sql.NullString
	var price, rating sql.NullInt64
	var acceptedAt, completedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.CustomerID,
		&req.CustomerName,
		&req.CustomerPhone,
		&req.Service,
		&req.Status,
		&req.Location.Latitude,
		&req.Location.Longitude,
		&req.Location.Address,
		&helperID,
		&helperName,
		&price,
		&req.Notes,
		&req.Settled,
		&req.CreatedAt,
		&acceptedAt,
		&completedAt,
		&rating,
		&review,
	)
	if err != nil {
		return nil, err
	}

	if helperID.Valid {
		id, err := uuid.Parse(helperID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid helper id on request %s: %w", req.ID, err)
		}
		req.HelperID = &id
	}
	if helperName.Valid {
		req.HelperName = &helperName.String
	}
	if price.Valid {
		p := int(price.Int64)
		req.Price = &p
	}
	if acceptedAt.Valid {
		req.AcceptedAt = &acceptedAt.Time
	}
	if completedAt.Valid {
		req.CompletedAt = &completedAt.Time
	}
	if rating.Valid {
		r := int(rating.Int64)
		req.Rating = &r
	}
	if review.Valid {
		req.Review = &review.String
	}

	return req, nil
}

// CreateRequest inserts a new pending help request
func (r *RequestRepo) CreateRequest(ctx context.Context, req *models.HelpRequest) (*models.HelpRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = models.StatusPending
	req.CreatedAt = time.Now()

	query := `
		INSERT INTO requests (
			id, customer_id, customer_name, customer_phone, service, status,
			latitude, longitude, address, notes, settled, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		req.ID,
		req.CustomerID,
		req.CustomerName,
		req.CustomerPhone,
		req.Service,
		req.Status,
		req.Location.Latitude,
		req.Location.Longitude,
		req.Location.Address,
		req.Notes,
		req.CreatedAt,
	)
	if err != nil {
		return nil, storageErr("failed to create request", err)
	}

	return req, nil
}

// GetRequest retrieves a request by ID
func (r *RequestRepo) GetRequest(ctx context.Context, requestID string) (*models.HelpRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, requests.ErrRequestNotFound
		}
		return nil, storageErr("failed to get request", err)
	}

	return req, nil
}

// ListPending returns pending requests, newest first
func (r *RequestRepo) ListPending(ctx context.Context, limit int) ([]models.HelpRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return r.queryRequests(ctx, query, models.StatusPending, limit)
}

// AcceptRequest binds a helper to a pending request with a conditional write.
// The guard resolves the acceptance race: only one helper's write finds the
// request still pending and unassigned.
func (r *RequestRepo) AcceptRequest(ctx context.Context, requestID string, helperID uuid.UUID, helperName string, price int) (bool, error) {
	query := `
		UPDATE requests
		SET helper_id = $1, helper_name = $2, price = $3, status = $4, accepted_at = $5
		WHERE id = $6 AND status = $7 AND helper_id IS NULL
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		helperID,
		helperName,
		price,
		models.StatusAccepted,
		time.Now(),
		requestID,
		models.StatusPending,
	)
	if err != nil {
		return false, storageErr("failed to accept request", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// AdvanceStatus moves a request forward only if it still holds the expected
// current status
func (r *RequestRepo) AdvanceStatus(ctx context.Context, requestID string, from, to models.RequestStatus) (bool, error) {
	query := `UPDATE requests SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, to, requestID, from)
	if err != nil {
		return false, storageErr("failed to advance request status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// CompleteRequest marks an arrived request completed and stamps completed_at
func (r *RequestRepo) CompleteRequest(ctx context.Context, requestID string) (bool, error) {
	query := `
		UPDATE requests
		SET status = $1, completed_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		models.StatusCompleted,
		time.Now(),
		requestID,
		models.StatusArrived,
	)
	if err != nil {
		return false, storageErr("failed to complete request", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// CancelRequest cancels a request still in a cancellable status
func (r *RequestRepo) CancelRequest(ctx context.Context, requestID string) (bool, error) {
	query := `UPDATE requests SET status = $1 WHERE id = $2 AND status IN ($3, $4)`

	result, err := r.db.ExecContext(
		ctx,
		query,
		models.StatusCancelled,
		requestID,
		models.StatusPending,
		models.StatusAccepted,
	)
	if err != nil {
		return false, storageErr("failed to cancel request", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// SetRating writes the rating once; the rating IS NULL guard makes the write
// first-wins under retries
func (r *RequestRepo) SetRating(ctx context.Context, requestID string, score int, review string) (bool, error) {
	query := `
		UPDATE requests
		SET rating = $1, review = $2
		WHERE id = $3 AND status = $4 AND rating IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, score, review, requestID, models.StatusCompleted)
	if err != nil {
		return false, storageErr("failed to set rating", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// SettleRequest applies the aggregate bookkeeping for a completed request.
// The settled marker and the increments commit in one transaction, so a
// retried invocation finds the marker set and does nothing.
func (r *RequestRepo) SettleRequest(ctx context.Context, req *models.HelpRequest) error {
	if req.HelperID == nil || req.Price == nil {
		return fmt.Errorf("request %s is not settleable: missing helper or price", req.ID)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("failed to begin settlement transaction", err)
	}
	defer tx.Rollback()

	markQuery := `
		UPDATE requests
		SET settled = TRUE
		WHERE id = $1 AND status = $2 AND settled = FALSE
	`
	result, err := tx.ExecContext(ctx, markQuery, req.ID, models.StatusCompleted)
	if err != nil {
		return storageErr("failed to mark request settled", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Already settled by an earlier invocation
		return nil
	}

	customerQuery := `UPDATE users SET total_jobs = total_jobs + 1, updated_at = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, customerQuery, time.Now(), req.CustomerID); err != nil {
		return storageErr("failed to update customer stats", err)
	}

	helperQuery := `
		UPDATE users
		SET total_jobs = total_jobs + 1, total_earnings = total_earnings + $1, updated_at = $2
		WHERE id = $3
	`
	if _, err := tx.ExecContext(ctx, helperQuery, *req.Price, time.Now(), *req.HelperID); err != nil {
		return storageErr("failed to update helper stats", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("failed to commit settlement", err)
	}
	return nil
}

// AverageHelperRating returns the mean rating over all of the helper's rated
// requests plus the rated-request count
func (r *RequestRepo) AverageHelperRating(ctx context.Context, helperID uuid.UUID) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(rating)
		FROM requests
		WHERE helper_id = $1 AND rating IS NOT NULL
	`

	var avg float64
	var count int
	err := r.db.QueryRowContext(ctx, query, helperID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, storageErr("failed to compute helper rating", err)
	}

	return avg, count, nil
}

// UpdateHelperRating stores the recomputed rolling average on the profile
func (r *RequestRepo) UpdateHelperRating(ctx context.Context, helperID uuid.UUID, rating float64) error {
	query := `UPDATE users SET rating = $1, updated_at = $2 WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, rating, time.Now(), helperID)
	if err != nil {
		return storageErr("failed to update helper rating", err)
	}
	return nil
}

// ListByCustomer returns the customer's requests, newest first
func (r *RequestRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.HelpRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	return r.queryRequests(ctx, query, customerID)
}

// ListCompletedByHelper returns the helper's completed requests, most
// recently completed first
func (r *RequestRepo) ListCompletedByHelper(ctx context.Context, helperID uuid.UUID) ([]models.HelpRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE helper_id = $1 AND status = $2
		ORDER BY completed_at DESC
	`

	return r.queryRequests(ctx, query, helperID, models.StatusCompleted)
}

// ReconcileHelperAggregates recomputes the helper's totals from the
// completed-request history. It repairs settlements that never landed by
// marking every completed request settled and writing the recomputed sums.
func (r *RequestRepo) ReconcileHelperAggregates(ctx context.Context, helperID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("failed to begin reconciliation transaction", err)
	}
	defer tx.Rollback()

	markQuery := `
		UPDATE requests
		SET settled = TRUE
		WHERE helper_id = $1 AND status = $2 AND settled = FALSE
	`
	if _, err := tx.ExecContext(ctx, markQuery, helperID, models.StatusCompleted); err != nil {
		return storageErr("failed to mark unsettled requests", err)
	}

	sumQuery := `
		SELECT COUNT(*), COALESCE(SUM(price), 0)
		FROM requests
		WHERE helper_id = $1 AND status = $2
	`
	var totalJobs, totalEarnings int
	if err := tx.QueryRowContext(ctx, sumQuery, helperID, models.StatusCompleted).Scan(&totalJobs, &totalEarnings); err != nil {
		return storageErr("failed to recompute helper totals", err)
	}

	updateQuery := `
		UPDATE users
		SET total_jobs = $1, total_earnings = $2, updated_at = $3
		WHERE id = $4
	`
	if _, err := tx.ExecContext(ctx, updateQuery, totalJobs, totalEarnings, time.Now(), helperID); err != nil {
		return storageErr("failed to update helper totals", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("failed to commit reconciliation", err)
	}
	return nil
}

// queryRequests runs a multi-row request query and scans the results
func (r *RequestRepo) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.HelpRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("failed to query requests", err)
	}
	defer rows.Close()

	var result []models.HelpRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, storageErr("failed to scan request row", err)
		}
		result = append(result, *req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
