package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"ofertas/internal/delivery/http/middleware"
	"ofertas/internal/delivery/http/response"
	"ofertas/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CourierHandlerParams holds dependencies for CourierHandler, injected by Fx.
type CourierHandlerParams struct {
	fx.In

	CourierUC usecase.CourierUsecase
	Logger    *slog.Logger
}

// CourierHandler handles courier presence and availability endpoints
type CourierHandler struct {
	courierUC usecase.CourierUsecase
	logger    *slog.Logger
}

// NewCourierHandler is the constructor for CourierHandler
func NewCourierHandler(params CourierHandlerParams) *CourierHandler {
	return &CourierHandler{
		courierUC: params.CourierUC,
		logger:    params.Logger,
	}
}

// UpdateLocationRequest carries a position report
type UpdateLocationRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// SetAvailabilityRequest toggles the courier's availability flag
type SetAvailabilityRequest struct {
	Available *bool `json:"disponible" validate:"required"`
}

// UpdateLocation stores the calling courier's last reported position
func (h *CourierHandler) UpdateLocation(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	var req UpdateLocationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	point, err := h.courierUC.UpdateLocation(c.Request().Context(), usecase.UpdateLocationInput{
		UserID: principal.ID,
		Lat:    req.Lat,
		Lng:    req.Lng,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, point)
}

// SetAvailability toggles whether the calling courier appears in the public list
func (h *CourierHandler) SetAvailability(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	var req SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid availability input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.courierUC.SetAvailability(c.Request().Context(), principal.ID, *req.Available); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"disponible": *req.Available})
}

// ListAvailable returns available couriers, nearest first when lat/lng are given
func (h *CourierHandler) ListAvailable(c echo.Context) error {
	var input usecase.QueryAvailableInput
	if latRaw, lngRaw := c.QueryParam("lat"), c.QueryParam("lng"); latRaw != "" && lngRaw != "" {
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid lat query parameter")
		}
		lng, err := strconv.ParseFloat(lngRaw, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid lng query parameter")
		}
		input.OriginLat = &lat
		input.OriginLng = &lng
	}

	couriers, err := h.courierUC.QueryAvailable(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, couriers)
}

// Profile returns the calling courier's own profile
func (h *CourierHandler) Profile(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	user, err := h.courierUC.Profile(c.Request().Context(), principal.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user.Public())
}
