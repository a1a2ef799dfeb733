package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ofertas/internal/delivery/http/middleware"
	"ofertas/internal/delivery/http/validator"
	"ofertas/internal/domain/entity"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCourierUsecase serves a fixed profile and records location reports.
type stubCourierUsecase struct {
	profile      *entity.User
	lastLocation *usecase.UpdateLocationInput
}

func (s *stubCourierUsecase) UpdateLocation(ctx context.Context, input usecase.UpdateLocationInput) (*entity.GeoPoint, error) {
	s.lastLocation = &input

	return &entity.GeoPoint{Lat: input.Lat, Lng: input.Lng, UpdatedAt: time.Now()}, nil
}

func (s *stubCourierUsecase) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	return nil
}

func (s *stubCourierUsecase) QueryAvailable(ctx context.Context, input usecase.QueryAvailableInput) ([]*entity.CourierSummary, error) {
	return nil, nil
}

func (s *stubCourierUsecase) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.profile, nil
}

func courierHandlerContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestCourierHandler_Profile_OmitsCredential(t *testing.T) {
	courier := &entity.User{
		ID:           uuid.New(),
		Name:         "Marco",
		Email:        "marco@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         entity.RoleCourier,
		Courier: &entity.CourierProfile{
			Vehicle:   "moto",
			Rating:    4.5,
			Available: true,
		},
	}
	uc := &stubCourierUsecase{profile: courier}
	h := NewCourierHandler(CourierHandlerParams{CourierUC: uc, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	c, rec := courierHandlerContext(t, http.MethodGet, "/couriers/profile", "")
	middleware.SetPrincipal(c, courier)

	require.NoError(t, h.Profile(c))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, courier.PasswordHash)
	assert.NotContains(t, body, "PasswordHash")
	assert.Contains(t, body, `"nombre":"Marco"`)
	assert.Contains(t, body, `"vehiculo":"moto"`)
}

func TestCourierHandler_UpdateLocation_AcceptsZeroCoordinates(t *testing.T) {
	courier := &entity.User{ID: uuid.New(), Role: entity.RoleCourier}
	uc := &stubCourierUsecase{profile: courier}
	h := NewCourierHandler(CourierHandlerParams{CourierUC: uc, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	c, rec := courierHandlerContext(t, http.MethodPut, "/couriers/location", `{"lat":0,"lng":0}`)
	middleware.SetPrincipal(c, courier)

	require.NoError(t, h.UpdateLocation(c))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.lastLocation)
	assert.Zero(t, uc.lastLocation.Lat)
	assert.Zero(t, uc.lastLocation.Lng)
}

func TestCourierHandler_UpdateLocation_RejectsOutOfRange(t *testing.T) {
	courier := &entity.User{ID: uuid.New(), Role: entity.RoleCourier}
	uc := &stubCourierUsecase{profile: courier}
	h := NewCourierHandler(CourierHandlerParams{CourierUC: uc, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	c, rec := courierHandlerContext(t, http.MethodPut, "/couriers/location", `{"lat":91,"lng":0}`)
	middleware.SetPrincipal(c, courier)

	require.NoError(t, h.UpdateLocation(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.lastLocation)
}
