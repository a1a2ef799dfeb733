package repository

import (
	"context"
	"errors"

	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderNotPending is returned when a claim races against another courier
// or targets an order that already left the pending state.
var ErrOrderNotPending = errors.New("order not pending")

// OrderRepository defines persistence operations for delivery orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order by ID, including the courier profile when assigned.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// Update modifies an existing order.
	Update(ctx context.Context, order *entity.Order) error

	// ListPending returns unclaimed orders, newest first, capped at limit.
	ListPending(ctx context.Context, limit int) ([]*entity.Order, error)

	// ListByRequester returns orders created by the given user, newest first.
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*entity.Order, error)

	// ListByCourier returns orders assigned to the given courier, newest first.
	ListByCourier(ctx context.Context, courierID uuid.UUID) ([]*entity.Order, error)

	// Claim atomically assigns a pending order to the courier. The write is
	// conditional on the order still being pending; a lost race returns
	// ErrOrderNotPending.
	Claim(ctx context.Context, orderID, courierID uuid.UUID) error

	// AverageRatingForCourier computes the mean rating over the courier's
	// rated orders, or 0 when none exist.
	AverageRatingForCourier(ctx context.Context, courierID uuid.UUID) (float64, error)
}
