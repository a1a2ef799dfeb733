package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListing_RecomputePrice(t *testing.T) {
	cases := []struct {
		name     string
		original float64
		discount int
		want     float64
	}{
		{"no discount", 8000, 0, 8000},
		{"half off", 8000, 50, 4000},
		{"full discount", 8000, 100, 0},
		{"rounds to cents", 9999, 33, 6699.33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := Listing{OriginalPrice: tc.original, Discount: tc.discount}
			l.RecomputePrice()
			assert.InDelta(t, tc.want, l.DiscountedPrice, 0.001)
		})
	}
}

func TestListing_OpenForParticipation(t *testing.T) {
	l := Listing{Status: StatusApproved, Active: true}
	assert.True(t, l.OpenForParticipation())

	l.Active = false
	assert.False(t, l.OpenForParticipation())

	l = Listing{Status: StatusPending, Active: true}
	assert.False(t, l.OpenForParticipation())
}

func TestListing_Moderated(t *testing.T) {
	assert.False(t, (&Listing{Status: StatusPending}).Moderated())
	assert.True(t, (&Listing{Status: StatusApproved}).Moderated())
	assert.True(t, (&Listing{Status: StatusRejected}).Moderated())
}

func TestValidListingCategory(t *testing.T) {
	assert.True(t, ValidListingCategory(KindOffer, "gastronomia"))
	assert.True(t, ValidListingCategory(KindActivity, "taller"))
	// Categories do not cross kinds.
	assert.False(t, ValidListingCategory(KindOffer, "taller"))
	assert.False(t, ValidListingCategory(KindActivity, "gastronomia"))
	assert.False(t, ValidListingCategory("unknown", "gastronomia"))
}
