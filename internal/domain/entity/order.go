package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a delivery request.
type OrderStatus string

const (
	// OrderPending is open for couriers to claim.
	OrderPending OrderStatus = "pendiente"
	// OrderAssigned has exactly one courier attached.
	OrderAssigned OrderStatus = "asignado"
	// OrderInProgress is being carried out.
	OrderInProgress OrderStatus = "en_proceso"
	// OrderCompleted is done and may be rated by the requester.
	OrderCompleted OrderStatus = "completado"
	// OrderCancelled was abandoned before completion.
	OrderCancelled OrderStatus = "cancelado"
)

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderAssigned, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

// orderTransitions is the legal transition graph:
// pending → assigned → in_progress → completed, with cancellation allowed
// from pending and assigned.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderAssigned, OrderCancelled},
	OrderAssigned:   {OrderInProgress, OrderCancelled},
	OrderInProgress: {OrderCompleted},
}

// CanTransitionTo reports whether the status may legally move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// orderCategories is the closed category enum for delivery requests.
var orderCategories = []string{"comida", "mercado", "farmacia", "paqueteria", "documentos", "otros"}

// ValidOrderCategory reports whether the category belongs to the closed enum.
func ValidOrderCategory(category string) bool {
	return slices.Contains(orderCategories, category)
}

// OrderLocation is a pickup or drop-off point: an address plus optional coordinates.
type OrderLocation struct {
	Address string   `json:"direccion"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Order is a delivery request ("mandado") moving from creation to rated completion.
// Requester name and phone are snapshotted at creation time so later profile
// edits do not rewrite history.
type Order struct {
	ID             uuid.UUID `json:"id"`
	RequesterID    uuid.UUID `json:"solicitanteId"`
	RequesterName  string    `json:"nombreSolicitante"`
	RequesterPhone string    `json:"telefonoSolicitante,omitempty"`

	Description  string  `json:"descripcion"`
	OfferedPrice float64 `json:"precioOfertado"`

	Status    OrderStatus    `json:"estado"`
	CourierID *uuid.UUID     `json:"mandaditoId,omitempty"` // Set once by the first successful claim.
	Courier   *PublicProfile `json:"mandadito,omitempty"`

	Pickup   OrderLocation `json:"recogida"`
	Dropoff  OrderLocation `json:"entrega"`
	Deadline *time.Time    `json:"fechaLimite,omitempty"`
	Category string        `json:"categoria,omitempty"`
	Notes    string        `json:"notas,omitempty"`

	// Rating is set at most once, by the requester, after completion.
	Rating  *int   `json:"calificacion,omitempty"`
	Comment string `json:"comentario,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Rated reports whether the requester already rated this order.
func (o *Order) Rated() bool {
	return o.Rating != nil
}

// IsParty reports whether the principal is the requester or the assigned courier.
func (o *Order) IsParty(userID uuid.UUID) bool {
	if o.RequesterID == userID {
		return true
	}

	return o.CourierID != nil && *o.CourierID == userID
}
