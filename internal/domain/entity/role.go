// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "slices"

// Role represents the type of role a principal can have in the system.
// The string values are the wire/storage representation inherited from the product.
type Role string

const (
	// RoleUser indicates a regular end-user who joins offers and requests deliveries.
	RoleUser Role = "usuario"
	// RoleProvider indicates a business account that publishes offers and activities.
	RoleProvider Role = "oferente"
	// RoleAdmin indicates an administrator who moderates listings and manages users.
	RoleAdmin Role = "administrador"
	// RoleCourier indicates a delivery courier ("mandadito").
	RoleCourier Role = "mandadito"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin, RoleCourier:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role carries administrator privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanPublishListings reports whether the role may create offers and activities.
// Administrators implicitly satisfy provider-level gates.
func (r Role) CanPublishListings() bool {
	return r == RoleProvider || r == RoleAdmin
}

// IsCourier reports whether the role may claim orders and push location updates.
func (r Role) IsCourier() bool {
	return r == RoleCourier
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
