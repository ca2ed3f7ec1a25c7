package repository

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/requests"
)

func setupMockDB(t *testing.T) (*RequestRepo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRequestRepository(&models.Config{}, sqlxDB)
	return repo, mock
}

func requestRows(req *models.HelpRequest) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "customer_id", "customer_name", "customer_phone", "service", "status",
		"latitude", "longitude", "address",
		"helper_id", "helper_name", "price", "notes", "settled",
		"created_at", "accepted_at", "completed_at", "rating", "review",
	})

	var helperID, helperName, review interface{}
	var price, rating interface{}
	var acceptedAt, completedAt interface{}
	if req.HelperID != nil {
		helperID = req.HelperID.String()
	}
	if req.HelperName != nil {
		helperName = *req.HelperName
	}
	if req.Price != nil {
		price = *req.Price
	}
	if req.AcceptedAt != nil {
		acceptedAt = *req.AcceptedAt
	}
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	if req.Rating != nil {
		rating = *req.Rating
	}
	if req.Review != nil {
		review = *req.Review
	}

	rows.AddRow(
		req.ID, req.CustomerID, req.CustomerName, req.CustomerPhone, req.Service, req.Status,
		req.Location.Latitude, req.Location.Longitude, req.Location.Address,
		helperID, helperName, price, req.Notes, req.Settled,
		req.CreatedAt, acceptedAt, completedAt, rating, review,
	)
	return rows
}

func sampleRequest() *models.HelpRequest {
	return &models.HelpRequest{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		CustomerName:  "Dina Kurnia",
		CustomerPhone: "+628123456789",
		Service:       models.ServiceTowing,
		Status:        models.StatusPending,
		Location: models.Location{
			Latitude:  -6.175392,
			Longitude: 106.827153,
			Address:   "Jl. Medan Merdeka Barat",
		},
		Notes:     "sedan stuck on the shoulder",
		CreatedAt: time.Now(),
	}
}

func TestCreateRequest(t *testing.T) {
	repo, mock := setupMockDB(t)
	req := sampleRequest()

	mock.ExpectExec("INSERT INTO requests").
		WithArgs(
			req.ID, req.CustomerID, req.CustomerName, req.CustomerPhone,
			req.Service, models.StatusPending,
			req.Location.Latitude, req.Location.Longitude, req.Location.Address,
			req.Notes, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateRequest(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.False(t, created.Settled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRequest(t *testing.T) {
	repo, mock := setupMockDB(t)
	req := sampleRequest()

	mock.ExpectQuery("SELECT (.+) FROM requests WHERE id").
		WithArgs(req.ID.String()).
		WillReturnRows(requestRows(req))

	got, err := repo.GetRequest(context.Background(), req.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, req.CustomerName, got.CustomerName)
	assert.Nil(t, got.HelperID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRequest_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM requests WHERE id").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetRequest(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, requests.ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptRequest(t *testing.T) {
	repo, mock := setupMockDB(t)
	requestID := uuid.New().String()
	helperID := uuid.New()

	t.Run("wins the race", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests").
			WithArgs(
				helperID, "Budi Towing", 350000, models.StatusAccepted,
				sqlmock.AnyArg(), requestID, models.StatusPending,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AcceptRequest(context.Background(), requestID, helperID, "Budi Towing", 350000)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("loses the race", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AcceptRequest(context.Background(), requestID, helperID, "Budi Towing", 350000)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptRequest_TransientFailure(t *testing.T) {
	repo, mock := setupMockDB(t)
	requestID := uuid.New().String()
	helperID := uuid.New()

	t.Run("statement timeout is retryable", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests").
			WillReturnError(context.DeadlineExceeded)

		ok, err := repo.AcceptRequest(context.Background(), requestID, helperID, "Budi Towing", 350000)

		assert.False(t, ok)
		assert.ErrorIs(t, err, requests.ErrStorageUnavailable)
	})

	t.Run("connection loss is retryable", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests").
			WillReturnError(&net.OpError{Op: "dial", Err: errors.New("connection refused")})

		ok, err := repo.AcceptRequest(context.Background(), requestID, helperID, "Budi Towing", 350000)

		assert.False(t, ok)
		assert.ErrorIs(t, err, requests.ErrStorageUnavailable)
	})

	t.Run("statement rejection is not retryable", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests").
			WillReturnError(errors.New("pq: null value in column \"price\""))

		_, err := repo.AcceptRequest(context.Background(), requestID, helperID, "Budi Towing", 350000)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, requests.ErrStorageUnavailable)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceStatus(t *testing.T) {
	repo, mock := setupMockDB(t)
	requestID := uuid.New().String()

	t.Run("moves from expected status", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests SET status").
			WithArgs(models.StatusEnRoute, requestID, models.StatusAccepted).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AdvanceStatus(context.Background(), requestID, models.StatusAccepted, models.StatusEnRoute)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stale expected status", func(t *testing.T) {
		mock.ExpectExec("UPDATE requests SET status").
			WithArgs(models.StatusEnRoute, requestID, models.StatusAccepted).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AdvanceStatus(context.Background(), requestID, models.StatusAccepted, models.StatusEnRoute)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRequest(t *testing.T) {
	repo, mock := setupMockDB(t)
	requestID := uuid.New().String()

	mock.ExpectExec("UPDATE requests SET status").
		WithArgs(models.StatusCancelled, requestID, models.StatusPending, models.StatusAccepted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.CancelRequest(context.Background(), requestID)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRating_WriteOnce(t *testing.T) {
	repo, mock := setupMockDB(t)
	requestID := uuid.New().String()

	mock.ExpectExec("UPDATE requests").
		WithArgs(5, "fast and friendly", requestID, models.StatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE requests").
		WithArgs(3, "changed my mind", requestID, models.StatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.SetRating(context.Background(), requestID, 5, "fast and friendly")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetRating(context.Background(), requestID, 3, "changed my mind")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleRequest(t *testing.T) {
	repo, mock := setupMockDB(t)
	req := sampleRequest()
	helperID := uuid.New()
	price := 350000
	req.Status = models.StatusCompleted
	req.HelperID = &helperID
	req.Price = &price

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE requests").
		WithArgs(req.ID, models.StatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET total_jobs").
		WithArgs(sqlmock.AnyArg(), req.CustomerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users").
		WithArgs(price, sqlmock.AnyArg(), helperID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SettleRequest(context.Background(), req)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleRequest_AlreadySettled(t *testing.T) {
	repo, mock := setupMockDB(t)
	req := sampleRequest()
	helperID := uuid.New()
	price := 350000
	req.Status = models.StatusCompleted
	req.HelperID = &helperID
	req.Price = &price

	// Settled marker already set: no increments run, no error returned
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE requests").
		WithArgs(req.ID, models.StatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SettleRequest(context.Background(), req)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleRequest_MissingPrice(t *testing.T) {
	repo, _ := setupMockDB(t)
	req := sampleRequest()
	helperID := uuid.New()
	req.HelperID = &helperID

	err := repo.SettleRequest(context.Background(), req)

	assert.Error(t, err)
}

func TestAverageHelperRating(t *testing.T) {
	repo, mock := setupMockDB(t)
	helperID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM requests").
		WithArgs(helperID).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.333333, 3))

	avg, count, err := repo.AverageHelperRating(context.Background(), helperID)

	assert.NoError(t, err)
	assert.InDelta(t, 4.333333, avg, 0.0001)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPending(t *testing.T) {
	repo, mock := setupMockDB(t)
	req := sampleRequest()

	mock.ExpectQuery("SELECT (.+) FROM requests").
		WithArgs(models.StatusPending, 20).
		WillReturnRows(requestRows(req))

	list, err := repo.ListPending(context.Background(), 20)

	assert.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, req.ID, list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileHelperAggregates(t *testing.T) {
	repo, mock := setupMockDB(t)
	helperID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE requests").
		WithArgs(helperID, models.StatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT (.+) FROM requests").
		WithArgs(helperID, models.StatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(5, 1750000))
	mock.ExpectExec("UPDATE users").
		WithArgs(5, 1750000, sqlmock.AnyArg(), helperID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReconcileHelperAggregates(context.Background(), helperID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
