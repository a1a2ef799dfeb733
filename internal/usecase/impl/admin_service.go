package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "ofertas/internal/delivery/context"
	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/repository"
	"ofertas/internal/errors"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const newUserWindow = 30 * 24 * time.Hour

// adminService implements the AdminUsecase interface.
type adminService struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	logger      *slog.Logger
}

// AdminServiceParams holds dependencies for adminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	ListingRepo repository.ListingRepository
	Logger      *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		userRepo:    params.UserRepo,
		listingRepo: params.ListingRepo,
		logger:      params.Logger,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Stats aggregates the dashboard counters.
func (srv *adminService) Stats(ctx context.Context) (*usecase.StatsOutput, error) {
	out := &usecase.StatsOutput{}

	var err error
	if out.TotalUsers, err = srv.userRepo.CountAll(ctx); err != nil {
		return nil, errors.Wrap(err, "count users")
	}
	if out.NewUsersLast30d, err = srv.userRepo.CountCreatedSince(ctx, time.Now().Add(-newUserWindow)); err != nil {
		return nil, errors.Wrap(err, "count new users")
	}
	if out.TotalOffers, err = srv.listingRepo.CountByStatus(ctx, entity.KindOffer, ""); err != nil {
		return nil, errors.Wrap(err, "count offers")
	}
	if out.PendingOffers, err = srv.listingRepo.CountByStatus(ctx, entity.KindOffer, entity.StatusPending); err != nil {
		return nil, errors.Wrap(err, "count pending offers")
	}
	if out.TotalActivities, err = srv.listingRepo.CountByStatus(ctx, entity.KindActivity, ""); err != nil {
		return nil, errors.Wrap(err, "count activities")
	}
	if out.PendingActivities, err = srv.listingRepo.CountByStatus(ctx, entity.KindActivity, entity.StatusPending); err != nil {
		return nil, errors.Wrap(err, "count pending activities")
	}
	if out.EstimatedRevenue, err = srv.listingRepo.SumApprovedRevenue(ctx); err != nil {
		return nil, errors.Wrap(err, "sum approved revenue")
	}

	return out, nil
}

// ListUsers returns every registered user. Password hashes never leave the
// persistence boundary through this path.
func (srv *adminService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	return users, nil
}

// DeleteUser removes an account and its courier profile.
func (srv *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := srv.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "find user by id")
	}

	if err := srv.userRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete user")
	}

	srv.log(ctx).Info("User deleted", slog.String("user_id", id.String()))

	return nil
}
