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

// ListingHandlerParams holds dependencies for ListingHandler, injected by Fx.
type ListingHandlerParams struct {
	fx.In

	ListingUC usecase.ListingUsecase
	Logger    *slog.Logger
}

// ListingHandler serves both /offers and /activities; the listing kind is
// fixed per route at registration time.
type ListingHandler struct {
	listingUC usecase.ListingUsecase
	logger    *slog.Logger
}

// NewListingHandler is the constructor for ListingHandler
func NewListingHandler(params ListingHandlerParams) *ListingHandler {
	return &ListingHandler{
		listingUC: params.ListingUC,
		logger:    params.Logger,
	}
}

// CreateListingRequest represents the request body for publishing a listing
type CreateListingRequest struct {
	Title           string     `json:"titulo" validate:"required"`
	Description     string     `json:"descripcion" validate:"required"`
	Category        string     `json:"categoria" validate:"required"`
	Discount        int        `json:"descuento" validate:"min=0,max=100"`
	OriginalPrice   float64    `json:"precioOriginal" validate:"required,gt=0"`
	MaxParticipants int        `json:"maxParticipantes" validate:"required,gt=0"`
	StartDate       *time.Time `json:"fechaInicio"`
	EndDate         *time.Time `json:"fechaFin"`
	Date            *time.Time `json:"fecha"`
	TimeOfDay       string     `json:"hora"`
	Duration        string     `json:"duracion"`
	Location        string     `json:"ubicacion"`
	Requirements    string     `json:"requisitos"`
	Image           string     `json:"imagen"`
}

// DecideListingRequest represents the moderation verdict body
type DecideListingRequest struct {
	Status string `json:"estado" validate:"required,oneof=aprobada rechazada"`
	Reason string `json:"motivoRechazo"`
}

// ListPublic returns the public catalogue of one kind
func (h *ListingHandler) ListPublic(kind entity.ListingKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		listings, err := h.listingUC.ListPublic(c.Request().Context(), usecase.ListPublicInput{
			Kind:     kind,
			Category: c.QueryParam("categoria"),
		})
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, listings)
	}
}

// ListPending returns listings awaiting moderation
func (h *ListingHandler) ListPending(kind entity.ListingKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		listings, err := h.listingUC.ListPending(c.Request().Context(), kind)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, listings)
	}
}

// ListAll returns every listing of one kind for administration views
func (h *ListingHandler) ListAll(kind entity.ListingKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		listings, err := h.listingUC.ListAll(c.Request().Context(), kind)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, listings)
	}
}

// ListMine returns the caller's own listings
func (h *ListingHandler) ListMine(kind entity.ListingKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := middleware.GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
		}

		listings, err := h.listingUC.ListMine(c.Request().Context(), kind, principal)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, listings)
	}
}

// Create publishes a new listing of one kind
func (h *ListingHandler) Create(kind entity.ListingKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := middleware.GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
		}

		var req CreateListingRequest
		if err := c.Bind(&req); err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
		}
		if err := c.Validate(&req); err != nil {
			return response.HandleAppError(c, err)
		}

		listing, err := h.listingUC.Create(c.Request().Context(), principal, usecase.CreateListingInput{
			Kind:            kind,
			Title:           req.Title,
			Description:     req.Description,
			Category:        req.Category,
			Discount:        req.Discount,
			OriginalPrice:   req.OriginalPrice,
			MaxParticipants: req.MaxParticipants,
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			Date:            req.Date,
			TimeOfDay:       req.TimeOfDay,
			Duration:        req.Duration,
			Location:        req.Location,
			Requirements:    req.Requirements,
			Image:           req.Image,
		})
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusCreated, listing)
	}
}

// Decide resolves a pending listing to approved or rejected
func (h *ListingHandler) Decide(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing id")
	}

	var req DecideListingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verdict input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	listing, err := h.listingUC.Decide(c.Request().Context(), usecase.DecideListingInput{
		ListingID: id,
		Approve:   req.Status == string(entity.StatusApproved),
		Reason:    req.Reason,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, listing)
}

// Participate joins the caller to a listing
func (h *ListingHandler) Participate(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "AUTH_REQUIRED", "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing id")
	}

	listing, err := h.listingUC.Participate(c.Request().Context(), id, principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, listing)
}

// Delete removes a listing
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing id")
	}

	if err := h.listingUC.Delete(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "listing deleted"})
}

// Get returns a single listing
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing id")
	}

	listing, err := h.listingUC.Get(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, listing)
}
