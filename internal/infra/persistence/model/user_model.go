// Package model holds the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;index"`
	Phone        string    `gorm:"type:varchar(30)"`
	Company      string    `gorm:"type:varchar(100)"`
	Address      string    `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	CourierProfile *CourierProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// CourierProfileModel mirrors the 'courier_profiles' table. UserID references users.id.
type CourierProfileModel struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Vehicle           string    `gorm:"type:varchar(50)"`
	Rating            float64   `gorm:"type:numeric(3,1);not null;default:0"`
	CompletedServices int       `gorm:"not null;default:0"`
	Available         bool      `gorm:"not null;default:false;index"`

	// Last reported location; null until the first update.
	Lat               *float64
	Lng               *float64
	LocationUpdatedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CourierProfileModel) TableName() string {
	return "courier_profiles"
}
