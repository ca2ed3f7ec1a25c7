package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/internal/utils"
	"github.com/roadhelper/roadhelper/services/requests"
)

type stubRequestUC struct {
	requests.RequestUC

	createFn  func(ctx context.Context, customerID uuid.UUID, input models.CreateRequestInput) (*models.HelpRequest, error)
	getFn     func(ctx context.Context, requestID string) (*models.HelpRequest, error)
	pendingFn func(ctx context.Context) ([]models.HelpRequest, error)
	acceptFn  func(ctx context.Context, requestID string, helperID uuid.UUID, price int) (*models.HelpRequest, error)
	advanceFn func(ctx context.Context, requestID string, callerID uuid.UUID, target models.RequestStatus) (*models.HelpRequest, error)
	rateFn    func(ctx context.Context, requestID string, callerID uuid.UUID, score int, review string) (*models.HelpRequest, error)
}

func (s *stubRequestUC) CreateRequest(ctx context.Context, customerID uuid.UUID, input models.CreateRequestInput) (*models.HelpRequest, error) {
	return s.createFn(ctx, customerID, input)
}
func (s *stubRequestUC) GetRequest(ctx context.Context, requestID string) (*models.HelpRequest, error) {
	return s.getFn(ctx, requestID)
}
func (s *stubRequestUC) ListPendingRequests(ctx context.Context) ([]models.HelpRequest, error) {
	return s.pendingFn(ctx)
}
func (s *stubRequestUC) AcceptRequest(ctx context.Context, requestID string, helperID uuid.UUID, price int) (*models.HelpRequest, error) {
	return s.acceptFn(ctx, requestID, helperID, price)
}
func (s *stubRequestUC) AdvanceStatus(ctx context.Context, requestID string, callerID uuid.UUID, target models.RequestStatus) (*models.HelpRequest, error) {
	return s.advanceFn(ctx, requestID, callerID, target)
}
func (s *stubRequestUC) RateRequest(ctx context.Context, requestID string, callerID uuid.UUID, score int, review string) (*models.HelpRequest, error) {
	return s.rateFn(ctx, requestID, callerID, score, review)
}

func newContext(t *testing.T, method string, body interface{}, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	request := httptest.NewRequest(method, "/", &buf)
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	c := e.NewContext(request, recorder)
	c.Set("user_id", userID)
	return c, recorder
}

func TestCreateRequest_Success(t *testing.T) {
	customerID := uuid.New()
	uc := &stubRequestUC{
		createFn: func(_ context.Context, _ uuid.UUID, input models.CreateRequestInput) (*models.HelpRequest, error) {
			return &models.HelpRequest{
				ID:       uuid.New(),
				Service:  input.Service,
				Status:   models.StatusPending,
				Location: input.Location,
			}, nil
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodPost, models.CreateRequestInput{
		Service:  models.ServiceTowing,
		Location: models.Location{Latitude: -6.2, Longitude: 106.8},
	}, customerID)

	err := handler.CreateRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestCreateRequest_UnknownService(t *testing.T) {
	uc := &stubRequestUC{
		createFn: func(_ context.Context, _ uuid.UUID, input models.CreateRequestInput) (*models.HelpRequest, error) {
			return nil, fmt.Errorf("%w: %s", requests.ErrUnknownService, input.Service)
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodPost, models.CreateRequestInput{
		Service: "jetpack-refuel",
	}, uuid.New())

	err := handler.CreateRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAcceptRequest_Conflict(t *testing.T) {
	uc := &stubRequestUC{
		acceptFn: func(_ context.Context, _ string, _ uuid.UUID, _ int) (*models.HelpRequest, error) {
			return nil, requests.ErrAlreadyAccepted
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodPost, models.AcceptRequestInput{Price: 350000}, uuid.New())
	c.SetParamNames("requestID")
	c.SetParamValues(uuid.New().String())

	err := handler.AcceptRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "This request was already accepted by another helper", resp.Error)
}

func TestAcceptRequest_MissingPrice(t *testing.T) {
	uc := &stubRequestUC{
		acceptFn: func(_ context.Context, _ string, _ uuid.UUID, _ int) (*models.HelpRequest, error) {
			return nil, requests.ErrMissingPrice
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodPost, models.AcceptRequestInput{}, uuid.New())
	c.SetParamNames("requestID")
	c.SetParamValues(uuid.New().String())

	err := handler.AcceptRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAdvanceStatus_Forbidden(t *testing.T) {
	uc := &stubRequestUC{
		advanceFn: func(_ context.Context, _ string, _ uuid.UUID, _ models.RequestStatus) (*models.HelpRequest, error) {
			return nil, requests.ErrNotAuthorized
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodPost, models.AdvanceStatusInput{Target: models.StatusEnRoute}, uuid.New())
	c.SetParamNames("requestID")
	c.SetParamValues(uuid.New().String())

	err := handler.AdvanceStatus(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestGetRequest_NotFound(t *testing.T) {
	uc := &stubRequestUC{
		getFn: func(_ context.Context, _ string) (*models.HelpRequest, error) {
			return nil, requests.ErrRequestNotFound
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodGet, nil, uuid.New())
	c.SetParamNames("requestID")
	c.SetParamValues(uuid.New().String())

	err := handler.GetRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetRequest_StorageUnavailable(t *testing.T) {
	uc := &stubRequestUC{
		getFn: func(_ context.Context, _ string) (*models.HelpRequest, error) {
			return nil, fmt.Errorf("failed to get request: %w", requests.ErrStorageUnavailable)
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodGet, nil, uuid.New())
	c.SetParamNames("requestID")
	c.SetParamValues(uuid.New().String())

	err := handler.GetRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestRateRequest_AlreadyRated(t *testing.T) {
	uc := &stubRequestUC{
		rateFn: func(_ context.Context, _ string, _ uuid.UUID, _ int, _ string) (*models.HelpRequest, error) {
			return nil, requests.ErrAlreadyRated
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodPost, models.RateRequestInput{Score: 5}, uuid.New())
	c.SetParamNames("requestID")
	c.SetParamValues(uuid.New().String())

	err := handler.RateRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestRateRequest_ScoreOutOfRange(t *testing.T) {
	uc := &stubRequestUC{
		rateFn: func(_ context.Context, _ string, _ uuid.UUID, score int, _ string) (*models.HelpRequest, error) {
			return nil, fmt.Errorf("%w: got %d", requests.ErrInvalidScore, score)
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodPost, models.RateRequestInput{Score: 9}, uuid.New())
	c.SetParamNames("requestID")
	c.SetParamValues(uuid.New().String())

	err := handler.RateRequest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListPending_Success(t *testing.T) {
	uc := &stubRequestUC{
		pendingFn: func(_ context.Context) ([]models.HelpRequest, error) {
			return []models.HelpRequest{{ID: uuid.New(), Status: models.StatusPending}}, nil
		},
	}
	handler := NewRequestsHandler(uc)

	c, recorder := newContext(t, http.MethodGet, nil, uuid.New())

	err := handler.ListPending(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
