// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ofertas/internal/delivery/http/middleware"
	"ofertas/internal/delivery/http/router/handler"
	"ofertas/internal/delivery/ws"
	"ofertas/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ListingHandler *handler.ListingHandler
	OrderHandler   *handler.OrderHandler
	CourierHandler *handler.CourierHandler
	AdminHandler   *handler.AdminHandler
	WSHandler      *ws.Handler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	listingHandler *handler.ListingHandler
	orderHandler   *handler.OrderHandler
	courierHandler *handler.CourierHandler
	adminHandler   *handler.AdminHandler
	wsHandler      *ws.Handler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		listingHandler: params.ListingHandler,
		orderHandler:   params.OrderHandler,
		courierHandler: params.CourierHandler,
		adminHandler:   params.AdminHandler,
		wsHandler:      params.WSHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/verify", r.authHandler.Verify, r.authMiddleware.Authenticate)
		authGroup.PUT("/password", r.authHandler.ChangePassword, r.authMiddleware.Authenticate)
	}

	// Offers and activities share the listing workflow; the kind is fixed
	// per group.
	r.registerListingRoutes(e.Group("/offers"), entity.KindOffer)
	r.registerListingRoutes(e.Group("/activities"), entity.KindActivity)

	// Delivery order routes
	orderGroup := e.Group("/orders")
	{
		orderGroup.GET("/public", r.orderHandler.ListPublic)
		orderGroup.POST("", r.orderHandler.Create, r.authMiddleware.Authenticate)
		orderGroup.GET("/mine", r.orderHandler.ListMine, r.authMiddleware.Authenticate)
		orderGroup.GET("/assigned", r.orderHandler.ListAssigned, r.authMiddleware.Authenticate, r.authMiddleware.RequireCourier)
		orderGroup.GET("/:id", r.orderHandler.Get, r.authMiddleware.Authenticate)
		orderGroup.PUT("/:id/claim", r.orderHandler.Claim, r.authMiddleware.Authenticate, r.authMiddleware.RequireCourier)
		orderGroup.PUT("/:id/status", r.orderHandler.UpdateStatus, r.authMiddleware.Authenticate)
		orderGroup.PUT("/:id/rate", r.orderHandler.Rate, r.authMiddleware.Authenticate)
	}

	// Courier presence routes; the availability query is public.
	courierGroup := e.Group("/couriers")
	{
		courierGroup.GET("/available", r.courierHandler.ListAvailable)
		courierGroup.GET("/profile", r.courierHandler.Profile, r.authMiddleware.Authenticate, r.authMiddleware.RequireCourier)
		courierGroup.PUT("/location", r.courierHandler.UpdateLocation, r.authMiddleware.Authenticate, r.authMiddleware.RequireCourier)
		courierGroup.PUT("/availability", r.courierHandler.SetAvailability, r.authMiddleware.Authenticate, r.authMiddleware.RequireCourier)
	}

	// Administration routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireAdmin)
	{
		adminGroup.GET("/stats", r.adminHandler.Stats)
		adminGroup.GET("/users", r.adminHandler.ListUsers)
		adminGroup.DELETE("/users/:id", r.adminHandler.DeleteUser)
	}

	// Presence channel; the handshake carries its own bearer token.
	e.GET("/ws", r.wsHandler.Serve)
}

func (r *router) registerListingRoutes(g *echo.Group, kind entity.ListingKind) {
	g.GET("", r.listingHandler.ListPublic(kind))
	g.GET("/pending", r.listingHandler.ListPending(kind), r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin)
	g.GET("/all", r.listingHandler.ListAll(kind), r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin)
	g.GET("/mine", r.listingHandler.ListMine(kind), r.authMiddleware.Authenticate, r.authMiddleware.RequireProvider)
	g.POST("", r.listingHandler.Create(kind), r.authMiddleware.Authenticate, r.authMiddleware.RequireProvider)
	g.GET("/:id", r.listingHandler.Get)
	g.PATCH("/:id/decision", r.listingHandler.Decide, r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin)
	g.POST("/:id/participate", r.listingHandler.Participate, r.authMiddleware.Authenticate)
	g.DELETE("/:id", r.listingHandler.Delete, r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin)
}
