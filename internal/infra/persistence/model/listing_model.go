package model

import (
	"time"

	"github.com/google/uuid"
)

// ListingModel mirrors the 'listings' table. Offers and activities share the
// table; the kind column selects which scheduling columns are meaningful.
type ListingModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind        string    `gorm:"type:varchar(10);not null;index"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null"`
	Category    string    `gorm:"type:varchar(30);not null"`

	Discount        int     `gorm:"not null;default:0"`
	OriginalPrice   float64 `gorm:"type:numeric(12,2);not null"`
	DiscountedPrice float64 `gorm:"type:numeric(12,2);not null"`

	MaxParticipants int `gorm:"not null"`
	Participants    int `gorm:"not null;default:0"`

	StartDate *time.Time
	EndDate   *time.Time
	Date      *time.Time
	TimeOfDay string `gorm:"type:varchar(20)"`
	Duration  string `gorm:"type:varchar(50)"`

	Location     string `gorm:"type:varchar(255)"`
	Requirements string `gorm:"type:text"`
	Image        string `gorm:"type:varchar(500)"`

	Status          string `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	RejectionReason string `gorm:"type:text"`
	Active          bool   `gorm:"not null;default:true"`

	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Creator   *UserModel `gorm:"foreignKey:CreatorID"`
	Company   string     `gorm:"type:varchar(100)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ListingModel) TableName() string {
	return "listings"
}

// ParticipationModel mirrors the 'listing_participants' table. The composite
// primary key doubles as the unique index that makes joining idempotent.
type ParticipationModel struct {
	ListingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ParticipationModel) TableName() string {
	return "listing_participants"
}
