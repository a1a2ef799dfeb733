package repository

import (
	"context"
	"errors"

	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrListingNotFound is returned when a listing does not exist.
var ErrListingNotFound = errors.New("listing not found")

// ErrListingFull is returned when a participation attempt finds no capacity left.
var ErrListingFull = errors.New("listing full")

// ErrAlreadyParticipating is returned when the user already holds a membership row.
var ErrAlreadyParticipating = errors.New("already participating")

// ListingFilter narrows public listing queries.
type ListingFilter struct {
	Kind     entity.ListingKind
	Category string
}

// ListingRepository defines persistence operations for listings and their participants.
type ListingRepository interface {
	// Create persists a new listing.
	Create(ctx context.Context, listing *entity.Listing) error

	// FindByID retrieves a listing by ID, including its creator profile.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)

	// Update modifies an existing listing.
	Update(ctx context.Context, listing *entity.Listing) error

	// Delete removes a listing and its participation rows.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListPublic returns approved, active listings matching the filter, newest first.
	ListPublic(ctx context.Context, filter ListingFilter) ([]*entity.Listing, error)

	// ListPending returns listings of a kind awaiting moderation, newest first.
	ListPending(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error)

	// ListByCreator returns listings of a kind owned by the given provider, newest first.
	ListByCreator(ctx context.Context, kind entity.ListingKind, creatorID uuid.UUID) ([]*entity.Listing, error)

	// ListAll returns every listing of a kind regardless of status, newest first.
	ListAll(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error)

	// CountByStatus counts listings of a kind in the given moderation status.
	// An empty status counts every listing of the kind.
	CountByStatus(ctx context.Context, kind entity.ListingKind, status entity.ListingStatus) (int64, error)

	// SumApprovedRevenue totals discounted price times participants over approved offers.
	SumApprovedRevenue(ctx context.Context) (float64, error)

	// AddParticipant atomically consumes one capacity slot and records membership.
	// Returns ErrListingFull when capacity is exhausted and ErrAlreadyParticipating
	// when the (listing, user) pair already exists.
	AddParticipant(ctx context.Context, listingID, userID uuid.UUID) error

	// HasParticipant reports whether the user already joined the listing.
	HasParticipant(ctx context.Context, listingID, userID uuid.UUID) (bool, error)

	// ListJoinedIDs returns the IDs of listings the user has joined.
	ListJoinedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
