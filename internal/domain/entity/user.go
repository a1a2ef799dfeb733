package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core principal entity. It carries the credential, the role that
// gates every workflow, and the role-specific profile data.
type User struct {
	ID           uuid.UUID // The unique identifier for the principal.
	Name         string    // Display name.
	Email        string    // Login identifier; stored lowercased, unique.
	PasswordHash string    // bcrypt hash; never serialized to clients.
	Role         Role      // Closed role enumeration; determines permitted workflows.

	// Provider-specific contact fields. Required at registration for providers,
	// optional for everyone else.
	Phone   string
	Company string
	Address string

	// Courier holds courier-specific state. Nil unless Role is RoleCourier.
	Courier *CourierProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CourierProfile holds data specific to the courier role: vehicle, availability
// and the running service rating maintained by the order workflow.
type CourierProfile struct {
	UserID            uuid.UUID // Foreign key to the core User entity.
	Vehicle           string    // Free-form vehicle descriptor ("moto", "bicicleta", ...).
	Rating            float64   // Running average over rated orders, one decimal.
	CompletedServices int       // Count of completed deliveries.
	Available         bool      // Whether the courier currently accepts orders.
	Location          *GeoPoint // Last known location; nil until the first update.
	UpdatedAt         time.Time
}

// GeoPoint is a last-write-wins location snapshot.
type GeoPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicProfile is the client-safe projection of a User. It never carries the
// password hash.
type PublicProfile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"nombre"`
	Email   string    `json:"email"`
	Role    Role      `json:"rol"`
	Phone   string    `json:"telefono,omitempty"`
	Company string    `json:"empresa,omitempty"`
	Address string    `json:"direccion,omitempty"`

	Vehicle           string    `json:"vehiculo,omitempty"`
	Rating            float64   `json:"calificacion,omitempty"`
	CompletedServices int       `json:"totalServicios,omitempty"`
	Available         bool      `json:"disponible,omitempty"`
	Location          *GeoPoint `json:"ubicacion,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() *PublicProfile {
	p := &PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Company:   u.Company,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
	if u.Courier != nil {
		p.Vehicle = u.Courier.Vehicle
		p.Rating = u.Courier.Rating
		p.CompletedServices = u.Courier.CompletedServices
		p.Available = u.Courier.Available
		p.Location = u.Courier.Location
	}

	return p
}

// CourierSummary is the public-safe view returned by the availability query.
type CourierSummary struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"nombre"`
	Vehicle           string    `json:"vehiculo"`
	Phone             string    `json:"telefono,omitempty"`
	Rating            float64   `json:"calificacion"`
	CompletedServices int       `json:"totalServicios"`
	Location          *GeoPoint `json:"ubicacion,omitempty"`

	// DistanceMeters is populated only when the query supplies an origin point.
	DistanceMeters float64 `json:"distanciaMetros,omitempty"`
}

// Summary projects the courier user into its public availability view.
func (u *User) Summary() *CourierSummary {
	s := &CourierSummary{
		ID:   u.ID,
		Name: u.Name,
	}
	if u.Courier != nil {
		s.Vehicle = u.Courier.Vehicle
		s.Phone = u.Phone
		s.Rating = u.Courier.Rating
		s.CompletedServices = u.Courier.CompletedServices
		s.Location = u.Courier.Location
	}

	return s
}
