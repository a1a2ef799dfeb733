package usecase

import (
	"context"
	"time"

	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateOrderInput defines the data required to publish a delivery order.
type CreateOrderInput struct {
	Description  string
	OfferedPrice float64
	Pickup       entity.OrderLocation
	Dropoff      entity.OrderLocation
	Deadline     *time.Time
	Category     string
	Notes        string
}

// UpdateOrderStatusInput carries a requested lifecycle move.
type UpdateOrderStatusInput struct {
	OrderID uuid.UUID
	Status  entity.OrderStatus
}

// RateOrderInput carries the requester's rating of a completed order.
type RateOrderInput struct {
	OrderID uuid.UUID
	Rating  int
	Comment string
}

// OrderUsecase defines delivery order lifecycle operations.
type OrderUsecase interface {
	Create(ctx context.Context, requester *entity.User, input CreateOrderInput) (*entity.Order, error)
	Get(ctx context.Context, id uuid.UUID, actor *entity.User) (*entity.Order, error)
	// ListPublic returns unclaimed orders for the anonymous board, newest
	// first, capped at the configured page size.
	ListPublic(ctx context.Context) ([]*entity.Order, error)
	ListMine(ctx context.Context, requester *entity.User) ([]*entity.Order, error)
	ListAssigned(ctx context.Context, courier *entity.User) ([]*entity.Order, error)
	// Claim assigns a pending order to the courier. The first claimer wins;
	// concurrent losers get a conflict.
	Claim(ctx context.Context, orderID uuid.UUID, courier *entity.User) (*entity.Order, error)
	// UpdateStatus moves the order along its lifecycle. Only the requester or
	// the assigned courier may move it, and only along legal edges.
	UpdateStatus(ctx context.Context, actor *entity.User, input UpdateOrderStatusInput) (*entity.Order, error)
	// Rate records the requester's one-time rating of a completed order and
	// recomputes the courier's running average.
	Rate(ctx context.Context, actor *entity.User, input RateOrderInput) (*entity.Order, error)
}
