package impl

import (
	"context"
	"log/slog"
	"sort"
	"time"

	deliverycontext "ofertas/internal/delivery/context"
	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/repository"
	"ofertas/internal/errors"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"go.uber.org/fx"
)

// courierService implements the CourierUsecase interface.
type courierService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// CourierServiceParams holds dependencies for courierService, injected by Fx.
type CourierServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewCourierService is the constructor for courierService.
func NewCourierService(params CourierServiceParams) usecase.CourierUsecase {
	return &courierService{
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

func (srv *courierService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpdateLocation persists the courier's last reported position. Reports are
// not sequenced; the latest write wins.
func (srv *courierService) UpdateLocation(ctx context.Context, input usecase.UpdateLocationInput) (*entity.GeoPoint, error) {
	if input.Lat < -90 || input.Lat > 90 || input.Lng < -180 || input.Lng > 180 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("coordinates out of range")
	}

	courier, err := srv.requireCourier(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	point := entity.GeoPoint{
		Lat:       input.Lat,
		Lng:       input.Lng,
		UpdatedAt: time.Now(),
	}

	if err := srv.userRepo.UpdateCourierLocation(ctx, courier.ID, point); err != nil {
		return nil, errors.Wrap(err, "update courier location")
	}

	srv.log(ctx).Debug("Courier location updated",
		slog.String("courier_id", courier.ID.String()),
		slog.Float64("lat", point.Lat),
		slog.Float64("lng", point.Lng))

	return &point, nil
}

// SetAvailability flips whether the courier accepts new orders.
func (srv *courierService) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	courier, err := srv.requireCourier(ctx, userID)
	if err != nil {
		return err
	}

	if err := srv.userRepo.SetCourierAvailability(ctx, courier.ID, available); err != nil {
		return errors.Wrap(err, "set courier availability")
	}

	srv.log(ctx).Info("Courier availability changed",
		slog.String("courier_id", courier.ID.String()),
		slog.Bool("available", available))

	return nil
}

// QueryAvailable returns public-safe summaries of available couriers. When an
// origin is supplied, couriers with a known location are sorted nearest first;
// couriers without one go last.
func (srv *courierService) QueryAvailable(ctx context.Context, input usecase.QueryAvailableInput) ([]*entity.CourierSummary, error) {
	couriers, err := srv.userRepo.ListAvailableCouriers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list available couriers")
	}

	summaries := make([]*entity.CourierSummary, 0, len(couriers))
	for _, courier := range couriers {
		summaries = append(summaries, courier.Summary())
	}

	if input.OriginLat != nil && input.OriginLng != nil {
		origin := orb.Point{*input.OriginLng, *input.OriginLat}
		for _, summary := range summaries {
			if summary.Location != nil {
				summary.DistanceMeters = geo.Distance(origin, orb.Point{summary.Location.Lng, summary.Location.Lat})
			}
		}

		sort.SliceStable(summaries, func(i, j int) bool {
			a, b := summaries[i], summaries[j]
			if (a.Location == nil) != (b.Location == nil) {
				return a.Location != nil
			}

			return a.DistanceMeters < b.DistanceMeters
		})
	}

	return summaries, nil
}

// Profile returns the courier's own profile.
func (srv *courierService) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return srv.requireCourier(ctx, userID)
}

func (srv *courierService) requireCourier(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "find user by id")
	}

	if !user.Role.IsCourier() {
		return nil, domainerrors.ErrCourierRequired
	}

	return user, nil
}
