package usecase

import (
	"context"

	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateLocationInput carries a courier position report.
type UpdateLocationInput struct {
	UserID uuid.UUID
	Lat    float64
	Lng    float64
}

// QueryAvailableInput optionally supplies an origin to sort couriers by distance.
type QueryAvailableInput struct {
	OriginLat *float64
	OriginLng *float64
}

// CourierUsecase defines courier presence and availability operations.
type CourierUsecase interface {
	// UpdateLocation persists the courier's last reported position.
	// Last write wins; reports are not sequenced.
	UpdateLocation(ctx context.Context, input UpdateLocationInput) (*entity.GeoPoint, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error
	// QueryAvailable returns public-safe summaries of available couriers,
	// sorted by distance when an origin is supplied.
	QueryAvailable(ctx context.Context, input QueryAvailableInput) ([]*entity.CourierSummary, error)
	Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
