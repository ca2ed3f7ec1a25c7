package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/users"
)

type stubUserUC struct {
	users.UserUC

	registerFn        func(ctx context.Context, input models.RegisterRequest) (*models.AuthResponse, error)
	loginFn           func(ctx context.Context, input models.LoginRequest) (*models.AuthResponse, error)
	getProfileFn      func(ctx context.Context, userID uuid.UUID) (*models.User, error)
	setAvailabilityFn func(ctx context.Context, helperID uuid.UUID, available bool, location *models.Location) error
	nearbyFn          func(ctx context.Context, location models.Location) ([]models.NearbyHelper, error)
}

func (s *stubUserUC) Register(ctx context.Context, input models.RegisterRequest) (*models.AuthResponse, error) {
	return s.registerFn(ctx, input)
}
func (s *stubUserUC) Login(ctx context.Context, input models.LoginRequest) (*models.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s *stubUserUC) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.getProfileFn(ctx, userID)
}
func (s *stubUserUC) SetAvailability(ctx context.Context, helperID uuid.UUID, available bool, location *models.Location) error {
	return s.setAvailabilityFn(ctx, helperID, available, location)
}
func (s *stubUserUC) NearbyHelpers(ctx context.Context, location models.Location) ([]models.NearbyHelper, error) {
	return s.nearbyFn(ctx, location)
}

func newContext(t *testing.T, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	request := httptest.NewRequest(method, target, &buf)
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	return e.NewContext(request, recorder), recorder
}

func TestRegister_Success(t *testing.T) {
	uc := &stubUserUC{
		registerFn: func(_ context.Context, input models.RegisterRequest) (*models.AuthResponse, error) {
			return &models.AuthResponse{
				Token:  "a.b.c",
				UserID: uuid.New().String(),
				Role:   models.RoleCustomer,
			}, nil
		},
	}
	handler := NewUserHandler(uc)

	c, recorder := newContext(t, http.MethodPost, "/auth/register", models.RegisterRequest{
		Email:    "dina@example.com",
		Password: "longenoughpass",
		Name:     "Dina",
	})

	err := handler.Register(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestRegister_EmailTaken(t *testing.T) {
	uc := &stubUserUC{
		registerFn: func(_ context.Context, _ models.RegisterRequest) (*models.AuthResponse, error) {
			return nil, users.ErrEmailTaken
		},
	}
	handler := NewUserHandler(uc)

	c, recorder := newContext(t, http.MethodPost, "/auth/register", models.RegisterRequest{
		Email:    "taken@example.com",
		Password: "longenoughpass",
		Name:     "Dina",
	})

	err := handler.Register(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc := &stubUserUC{
		loginFn: func(_ context.Context, _ models.LoginRequest) (*models.AuthResponse, error) {
			return nil, users.ErrInvalidCredentials
		},
	}
	handler := NewUserHandler(uc)

	c, recorder := newContext(t, http.MethodPost, "/auth/login", models.LoginRequest{
		Email:    "dina@example.com",
		Password: "wrong",
	})

	err := handler.Login(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestSetAvailability_NotAHelper(t *testing.T) {
	uc := &stubUserUC{
		setAvailabilityFn: func(_ context.Context, _ uuid.UUID, _ bool, _ *models.Location) error {
			return users.ErrNotAHelper
		},
	}
	handler := NewUserHandler(uc)

	c, recorder := newContext(t, http.MethodPost, "/me/availability", AvailabilityRequest{Available: true})
	c.Set("user_id", uuid.New())

	err := handler.SetAvailability(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestNearbyHelpers(t *testing.T) {
	uc := &stubUserUC{
		nearbyFn: func(_ context.Context, loc models.Location) ([]models.NearbyHelper, error) {
			assert.Equal(t, -6.2, loc.Latitude)
			return []models.NearbyHelper{{ID: uuid.New().String(), DistanceKm: 0.8}}, nil
		},
	}
	handler := NewUserHandler(uc)

	c, recorder := newContext(t, http.MethodGet, "/helpers/nearby?latitude=-6.2&longitude=106.8", nil)

	err := handler.NearbyHelpers(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestNearbyHelpers_MissingCoordinates(t *testing.T) {
	handler := NewUserHandler(&stubUserUC{})

	c, recorder := newContext(t, http.MethodGet, "/helpers/nearby", nil)

	err := handler.NearbyHelpers(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
