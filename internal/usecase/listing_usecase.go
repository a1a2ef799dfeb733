package usecase

import (
	"context"
	"time"

	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateListingInput defines the data required to publish a new listing.
// Offers carry StartDate/EndDate; activities carry Date/TimeOfDay/Duration.
type CreateListingInput struct {
	Kind            entity.ListingKind
	Title           string
	Description     string
	Category        string
	Discount        int
	OriginalPrice   float64
	MaxParticipants int
	StartDate       *time.Time
	EndDate         *time.Time
	Date            *time.Time
	TimeOfDay       string
	Duration        string
	Location        string
	Requirements    string
	Image           string
}

// DecideListingInput carries an admin moderation verdict.
type DecideListingInput struct {
	ListingID uuid.UUID
	Approve   bool
	Reason    string
}

// ListPublicInput narrows the public catalogue query.
type ListPublicInput struct {
	Kind     entity.ListingKind
	Category string
}

// ListingUsecase defines listing publication, moderation and participation operations.
type ListingUsecase interface {
	Create(ctx context.Context, creator *entity.User, input CreateListingInput) (*entity.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	ListPublic(ctx context.Context, input ListPublicInput) ([]*entity.Listing, error)
	ListPending(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error)
	ListMine(ctx context.Context, kind entity.ListingKind, creator *entity.User) ([]*entity.Listing, error)
	// Decide resolves a pending listing to approved or rejected. Listings
	// already moderated cannot be decided again.
	Decide(ctx context.Context, input DecideListingInput) (*entity.Listing, error)
	// Participate joins the principal to an open listing, consuming one
	// capacity slot. Joining twice or joining a full listing fails.
	Participate(ctx context.Context, listingID uuid.UUID, principal *entity.User) (*entity.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error)
}
