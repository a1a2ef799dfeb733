package entity

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ListingKind distinguishes the two listing shapes. They share one moderation
// state machine and one participation counter; only the scheduling fields differ.
type ListingKind string

const (
	// KindOffer is a discounted offer valid over a date range.
	KindOffer ListingKind = "offer"
	// KindActivity is a scheduled activity with a single date, time and duration.
	KindActivity ListingKind = "activity"
)

// IsValid checks if the ListingKind is a valid value.
func (k ListingKind) IsValid() bool {
	return k == KindOffer || k == KindActivity
}

// ListingStatus is the moderation state of a listing. The only transitions
// permitted by the moderation workflow are pending→approved and pending→rejected.
type ListingStatus string

const (
	// StatusPending awaits administrator review.
	StatusPending ListingStatus = "pendiente"
	// StatusApproved was accepted by an administrator and is publicly visible.
	StatusApproved ListingStatus = "aprobada"
	// StatusRejected was declined by an administrator, with an optional reason.
	StatusRejected ListingStatus = "rechazada"
	// StatusCompleted marks an activity whose date has passed. Activities only.
	StatusCompleted ListingStatus = "completada"
)

// offerCategories and activityCategories are the closed category enums per kind.
var (
	offerCategories    = []string{"gastronomia", "belleza", "aventura", "hotel", "otros"}
	activityCategories = []string{"taller", "tour", "clase", "evento", "conferencia"}
)

// ValidListingCategory reports whether the category belongs to the kind's closed enum.
func ValidListingCategory(kind ListingKind, category string) bool {
	switch kind {
	case KindOffer:
		return slices.Contains(offerCategories, category)
	case KindActivity:
		return slices.Contains(activityCategories, category)
	default:
		return false
	}
}

// Listing is the moderated, capacity-bounded entity behind both offers and
// activities.
type Listing struct {
	ID          uuid.UUID   `json:"id"`
	Kind        ListingKind `json:"tipo"`
	Title       string      `json:"titulo"`
	Description string      `json:"descripcion"`
	Category    string      `json:"categoria"`

	Discount        int     `json:"descuento"`       // Percentage, 0..100.
	OriginalPrice   float64 `json:"precioOriginal"`  // Price before discount.
	DiscountedPrice float64 `json:"precioDescuento"` // Derived: OriginalPrice × (1 − Discount/100).

	MaxParticipants int `json:"maxParticipantes"` // Capacity; Participants never exceeds it.
	Participants    int `json:"participantes"`    // Incremented only by the participation workflow.

	// Offer scheduling.
	StartDate *time.Time `json:"fechaInicio,omitempty"`
	EndDate   *time.Time `json:"fechaFin,omitempty"`

	// Activity scheduling.
	Date      *time.Time `json:"fecha,omitempty"`
	TimeOfDay string     `json:"hora,omitempty"`
	Duration  string     `json:"duracion,omitempty"`

	Location     string `json:"ubicacion,omitempty"`
	Requirements string `json:"requisitos,omitempty"`
	Image        string `json:"imagen,omitempty"`

	Status          ListingStatus `json:"estado"`
	RejectionReason string        `json:"motivoRechazo,omitempty"`
	Active          bool          `json:"activa"`

	CreatorID uuid.UUID      `json:"creadorId"`
	Company   string         `json:"empresa,omitempty"`
	Creator   *PublicProfile `json:"creador,omitempty"` // Enrichment for listing views; not always loaded.

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecomputePrice derives the discounted price from the original price and the
// discount percentage. It must be called whenever either input changes.
func (l *Listing) RecomputePrice() {
	price := l.OriginalPrice * (1 - float64(l.Discount)/100)
	// Round to cents to keep the stored value stable across recomputations.
	l.DiscountedPrice = math.Round(price*100) / 100
}

// OpenForParticipation reports whether the participation workflow may act on
// this listing: it must be approved by a moderator and still active.
func (l *Listing) OpenForParticipation() bool {
	return l.Status == StatusApproved && l.Active
}

// Full reports whether the participant count reached capacity.
func (l *Listing) Full() bool {
	return l.Participants >= l.MaxParticipants
}

// Moderated reports whether the listing already left the pending state.
// Approved and rejected are terminal for the moderation workflow.
func (l *Listing) Moderated() bool {
	return l.Status != StatusPending
}
