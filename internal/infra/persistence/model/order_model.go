package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. Requester name and phone are stored
// denormalized: they are snapshots taken at creation time.
type OrderModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	RequesterID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RequesterName  string    `gorm:"type:varchar(100);not null"`
	RequesterPhone string    `gorm:"type:varchar(30)"`

	Description  string  `gorm:"type:varchar(500);not null"`
	OfferedPrice float64 `gorm:"type:numeric(12,2);not null"`

	Status    string     `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	CourierID *uuid.UUID `gorm:"type:uuid;index"`
	Courier   *UserModel `gorm:"foreignKey:CourierID"`

	PickupAddress  string `gorm:"type:varchar(255);not null"`
	PickupLat      *float64
	PickupLng      *float64
	DropoffAddress string `gorm:"type:varchar(255);not null"`
	DropoffLat     *float64
	DropoffLng     *float64

	Deadline *time.Time
	Category string `gorm:"type:varchar(30)"`
	Notes    string `gorm:"type:text"`

	Rating  *int   `gorm:"check:rating >= 1 AND rating <= 5"`
	Comment string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
