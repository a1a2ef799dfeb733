// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when the email unique constraint is violated.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes a user and their courier profile, if any.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all users ordered by creation date, newest first.
	List(ctx context.Context) ([]*entity.User, error)

	// CountAll returns the total number of registered users.
	CountAll(ctx context.Context) (int64, error)

	// CountCreatedSince counts users registered at or after the given time.
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)

	// ListAvailableCouriers returns couriers currently flagged as available.
	ListAvailableCouriers(ctx context.Context) ([]*entity.User, error)

	// SetCourierAvailability flips the availability flag of a courier profile.
	SetCourierAvailability(ctx context.Context, userID uuid.UUID, available bool) error

	// UpdateCourierLocation stores the last reported position of a courier.
	UpdateCourierLocation(ctx context.Context, userID uuid.UUID, point entity.GeoPoint) error

	// UpdateCourierRating overwrites the aggregate rating of a courier profile.
	UpdateCourierRating(ctx context.Context, userID uuid.UUID, rating float64) error

	// IncrementCompletedServices bumps the completed-services counter of a courier.
	IncrementCompletedServices(ctx context.Context, userID uuid.UUID) error
}
