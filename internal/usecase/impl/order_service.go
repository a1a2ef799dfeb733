package impl

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"ofertas/config"
	deliverycontext "ofertas/internal/delivery/context"
	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/repository"
	"ofertas/internal/errors"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	maxOrderDescriptionLength = 500
	defaultOrderMinPrice      = 1000
	defaultPublicPageSize     = 50
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager      repository.TransactionManager
	orderRepo      repository.OrderRepository
	userRepo       repository.UserRepository
	minPrice       float64
	publicPageSize int
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	UserRepo  repository.UserRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	minPrice := float64(defaultOrderMinPrice)
	pageSize := defaultPublicPageSize
	if params.Config != nil && params.Config.Orders != nil {
		if params.Config.Orders.MinPrice > 0 {
			minPrice = params.Config.Orders.MinPrice
		}
		if params.Config.Orders.PublicPageSize > 0 {
			pageSize = params.Config.Orders.PublicPageSize
		}
	}

	return &orderService{
		txManager:      params.TxManager,
		orderRepo:      params.OrderRepo,
		userRepo:       params.UserRepo,
		minPrice:       minPrice,
		publicPageSize: pageSize,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create publishes a new delivery order in the pending state. The requester's
// name and phone are snapshotted so later profile edits do not rewrite history.
func (srv *orderService) Create(ctx context.Context, requester *entity.User, input usecase.CreateOrderInput) (*entity.Order, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("description is required")
	}
	if len(description) > maxOrderDescriptionLength {
		return nil, domainerrors.ErrValidationFailed.WithDetails("description exceeds the maximum length")
	}
	if input.OfferedPrice < srv.minPrice {
		return nil, domainerrors.ErrValidationFailed.WithDetails("offered price is below the minimum")
	}
	if input.Category != "" && !entity.ValidOrderCategory(input.Category) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order category")
	}
	if strings.TrimSpace(input.Pickup.Address) == "" || strings.TrimSpace(input.Dropoff.Address) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("pickup and dropoff addresses are required")
	}

	order := &entity.Order{
		ID:             uuid.New(),
		RequesterID:    requester.ID,
		RequesterName:  requester.Name,
		RequesterPhone: requester.Phone,
		Description:    description,
		OfferedPrice:   input.OfferedPrice,
		Status:         entity.OrderPending,
		Pickup:         input.Pickup,
		Dropoff:        input.Dropoff,
		Deadline:       input.Deadline,
		Category:       input.Category,
		Notes:          input.Notes,
	}

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	srv.log(ctx).Info("Order created",
		slog.String("order_id", order.ID.String()),
		slog.String("requester_id", requester.ID.String()))

	return order, nil
}

// Get retrieves an order visible to the actor. Pending orders are public;
// anything else only its parties and administrators may see.
func (srv *orderService) Get(ctx context.Context, id uuid.UUID, actor *entity.User) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, srv.orderRepo, id)
	if err != nil {
		return nil, err
	}

	if order.Status != entity.OrderPending {
		if actor == nil || (!order.IsParty(actor.ID) && !actor.Role.IsAdmin()) {
			return nil, domainerrors.ErrForbidden
		}
	}

	return order, nil
}

// ListPublic returns the anonymous board of unclaimed orders.
func (srv *orderService) ListPublic(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListPending(ctx, srv.publicPageSize)
	if err != nil {
		return nil, errors.Wrap(err, "list pending orders")
	}

	return orders, nil
}

// ListMine returns orders created by the requester.
func (srv *orderService) ListMine(ctx context.Context, requester *entity.User) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByRequester(ctx, requester.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by requester")
	}

	return orders, nil
}

// ListAssigned returns orders assigned to the courier.
func (srv *orderService) ListAssigned(ctx context.Context, courier *entity.User) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByCourier(ctx, courier.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by courier")
	}

	return orders, nil
}

// Claim assigns a pending order to the courier. The conditional write in the
// storage layer serializes concurrent claims; only the first one wins.
func (srv *orderService) Claim(ctx context.Context, orderID uuid.UUID, courier *entity.User) (*entity.Order, error) {
	if !courier.Role.IsCourier() {
		return nil, domainerrors.ErrCourierRequired
	}

	if _, err := srv.findOrder(ctx, srv.orderRepo, orderID); err != nil {
		return nil, err
	}

	if err := srv.orderRepo.Claim(ctx, orderID, courier.ID); err != nil {
		if errors.Is(err, repository.ErrOrderNotPending) {
			return nil, domainerrors.ErrOrderNotAvailable
		}

		return nil, errors.Wrap(err, "claim order")
	}

	srv.log(ctx).Info("Order claimed",
		slog.String("order_id", orderID.String()),
		slog.String("courier_id", courier.ID.String()))

	return srv.findOrder(ctx, srv.orderRepo, orderID)
}

// UpdateStatus moves an order along its lifecycle. Only the requester or the
// assigned courier may move it, and only along the legal transition graph.
// Assignment happens exclusively through Claim.
func (srv *orderService) UpdateStatus(ctx context.Context, actor *entity.User, input usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if !input.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}
	if input.Status == entity.OrderAssigned {
		return nil, domainerrors.ErrInvalidTransition.WithDetails("orders are assigned by claiming them")
	}

	var updated *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, err := srv.findOrder(ctx, orderRepo, input.OrderID)
		if err != nil {
			return err
		}

		if !order.IsParty(actor.ID) {
			return domainerrors.ErrForbidden
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return domainerrors.ErrInvalidTransition.WithDetails(
				string(order.Status) + " -> " + string(input.Status))
		}

		order.Status = input.Status

		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "update order")
		}

		if order.Status == entity.OrderCompleted && order.CourierID != nil {
			userRepo := repoFactory.NewUserRepository()
			if err := userRepo.IncrementCompletedServices(ctx, *order.CourierID); err != nil {
				return errors.Wrap(err, "increment completed services")
			}
		}

		updated = order

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order status updated",
		slog.String("order_id", updated.ID.String()),
		slog.String("status", string(updated.Status)))

	return updated, nil
}

// Rate records the requester's one-time rating of a completed order, then
// recomputes the courier's running average over all rated orders.
func (srv *orderService) Rate(ctx context.Context, actor *entity.User, input usecase.RateOrderInput) (*entity.Order, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	var rated *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, err := srv.findOrder(ctx, orderRepo, input.OrderID)
		if err != nil {
			return err
		}

		if order.RequesterID != actor.ID {
			return domainerrors.ErrForbidden
		}
		if order.Status != entity.OrderCompleted {
			return domainerrors.ErrOrderNotCompleted
		}
		if order.Rated() {
			return domainerrors.ErrOrderAlreadyRated
		}

		rating := input.Rating
		order.Rating = &rating
		order.Comment = input.Comment

		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "update order")
		}

		if order.CourierID != nil {
			average, err := orderRepo.AverageRatingForCourier(ctx, *order.CourierID)
			if err != nil {
				return errors.Wrap(err, "average courier rating")
			}

			userRepo := repoFactory.NewUserRepository()
			rounded := math.Round(average*10) / 10
			if err := userRepo.UpdateCourierRating(ctx, *order.CourierID, rounded); err != nil {
				return errors.Wrap(err, "update courier rating")
			}
		}

		rated = order

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order rated",
		slog.String("order_id", rated.ID.String()),
		slog.Int("rating", input.Rating))

	return rated, nil
}

func (srv *orderService) findOrder(ctx context.Context, orderRepo repository.OrderRepository, id uuid.UUID) (*entity.Order, error) {
	order, err := orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "find order by id")
	}

	return order, nil
}
