package usecase

import (
	"context"

	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
)

// StatsOutput aggregates platform counters for the admin dashboard.
type StatsOutput struct {
	TotalUsers        int64   `json:"totalUsuarios"`
	NewUsersLast30d   int64   `json:"usuariosNuevos30d"`
	TotalOffers       int64   `json:"totalOfertas"`
	PendingOffers     int64   `json:"ofertasPendientes"`
	TotalActivities   int64   `json:"totalActividades"`
	PendingActivities int64   `json:"actividadesPendientes"`
	EstimatedRevenue  float64 `json:"ingresosEstimados"`
}

// AdminUsecase defines platform administration operations.
type AdminUsecase interface {
	Stats(ctx context.Context) (*StatsOutput, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
