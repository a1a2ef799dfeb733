package handler

import (
	"log/slog"
	"net/http"
	"time"

	"ofertas/internal/delivery/http/middleware"
	"ofertas/internal/delivery/http/response"
	"ofertas/internal/domain/entity"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler handles delivery order endpoints
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

// OrderLocationRequest is an address plus optional coordinates
type OrderLocationRequest struct {
	Address string   `json:"direccion" validate:"required"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

// CreateOrderRequest represents the request body for publishing an order
type CreateOrderRequest struct {
	Description  string               `json:"descripcion" validate:"required"`
	OfferedPrice float64              `json:"precioOfertado" validate:"required,gt=0"`
	Pickup       OrderLocationRequest `json:"recogida" validate:"required"`
	Dropoff      OrderLocationRequest `json:"entrega" validate:"required"`
	Deadline     *time.Time           `json:"fechaLimite"`
	Category     string               `json:"categoria"`
	Notes        string               `json:"notas"`
}

// UpdateOrderStatusRequest carries the requested lifecycle move
type UpdateOrderStatusRequest struct {
	Status string `json:"estado" validate:"required"`
}

// RateOrderRequest carries the requester's rating
type RateOrderRequest struct {
	Rating  int    `json:"calificacion" validate:"required,min=1,max=5"`
	Comment string `json:"comentario"`
}

// Create publishes a new delivery order
func (h *OrderHandler) Create(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.Create(c.Request().Context(), principal, usecase.CreateOrderInput{
		Description:  req.Description,
		OfferedPrice: req.OfferedPrice,
		Pickup:       entity.OrderLocation{Address: req.Pickup.Address, Lat: req.Pickup.Lat, Lng: req.Pickup.Lng},
		Dropoff:      entity.OrderLocation{Address: req.Dropoff.Address, Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng},
		Deadline:     req.Deadline,
		Category:     req.Category,
		Notes:        req.Notes,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, order)
}

// ListPublic returns the anonymous board of unclaimed orders
func (h *OrderHandler) ListPublic(c echo.Context) error {
	orders, err := h.orderUC.ListPublic(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders)
}

// ListMine returns orders published by the caller
func (h *OrderHandler) ListMine(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	orders, err := h.orderUC.ListMine(c.Request().Context(), principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders)
}

// ListAssigned returns orders claimed by the calling courier
func (h *OrderHandler) ListAssigned(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	orders, err := h.orderUC.ListAssigned(c.Request().Context(), principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders)
}

// Get returns a single order, subject to visibility rules
func (h *OrderHandler) Get(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	order, err := h.orderUC.Get(c.Request().Context(), id, principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}

// Claim assigns a pending order to the calling courier
func (h *OrderHandler) Claim(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	order, err := h.orderUC.Claim(c.Request().Context(), id, principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}

// UpdateStatus moves the order along its lifecycle
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), principal, usecase.UpdateOrderStatusInput{
		OrderID: id,
		Status:  entity.OrderStatus(req.Status),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}

// Rate records the requester's rating of a completed order
func (h *OrderHandler) Rate(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	var req RateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rating input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.Rate(c.Request().Context(), principal, usecase.RateOrderInput{
		OrderID: id,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}
