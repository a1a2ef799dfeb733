package postgres

import (
	"context"

	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/repository"
	"ofertas/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("unknown requester")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindByID retrieves an order by ID, including the courier profile when assigned.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Courier").
		Preload("Courier.CourierProfile").
		First(&orderM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// Update modifies an existing order. Assignment fields are excluded: only
// Claim may set them.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Select("*").
		Omit("courier_id", "requester_id", "created_at").
		Updates(orderM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update order")
	}

	return nil
}

// ListPending returns unclaimed orders, newest first, capped at limit.
func (repo *orderRepository) ListPending(ctx context.Context, limit int) ([]*entity.Order, error) {
	var models []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Where("status = ?", string(entity.OrderPending)).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending orders")
	}

	return toOrderDomains(models), nil
}

// ListByRequester returns orders created by the given user, newest first.
func (repo *orderRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*entity.Order, error) {
	var models []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Courier").
		Preload("Courier.CourierProfile").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by requester")
	}

	return toOrderDomains(models), nil
}

// ListByCourier returns orders assigned to the given courier, newest first.
func (repo *orderRepository) ListByCourier(ctx context.Context, courierID uuid.UUID) ([]*entity.Order, error) {
	var models []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Where("courier_id = ?", courierID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by courier")
	}

	return toOrderDomains(models), nil
}

// Claim atomically assigns a pending order to the courier. The status guard in
// the WHERE clause makes concurrent claims first-writer-wins: the loser
// matches zero rows.
func (repo *orderRepository) Claim(ctx context.Context, orderID, courierID uuid.UUID) error {
	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", orderID, string(entity.OrderPending)).
		Updates(map[string]any{
			"status":     string(entity.OrderAssigned),
			"courier_id": courierID,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to claim order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotPending
	}

	return nil
}

// AverageRatingForCourier computes the mean rating over the courier's rated orders.
func (repo *orderRepository) AverageRatingForCourier(ctx context.Context, courierID uuid.UUID) (float64, error) {
	var average float64
	err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("courier_id = ? AND rating IS NOT NULL", courierID).
		Scan(&average).Error

	return average, errors.Wrap(err, "failed to average courier rating")
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	order := &entity.Order{
		ID:             data.ID,
		RequesterID:    data.RequesterID,
		RequesterName:  data.RequesterName,
		RequesterPhone: data.RequesterPhone,
		Description:    data.Description,
		OfferedPrice:   data.OfferedPrice,
		Status:         entity.OrderStatus(data.Status),
		CourierID:      data.CourierID,
		Pickup: entity.OrderLocation{
			Address: data.PickupAddress,
			Lat:     data.PickupLat,
			Lng:     data.PickupLng,
		},
		Dropoff: entity.OrderLocation{
			Address: data.DropoffAddress,
			Lat:     data.DropoffLat,
			Lng:     data.DropoffLng,
		},
		Deadline:  data.Deadline,
		Category:  data.Category,
		Notes:     data.Notes,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	if data.Courier != nil {
		order.Courier = toUserDomain(data.Courier).Public()
	}

	return order
}

func toOrderDomains(models []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, toOrderDomain(m))
	}

	return orders
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:             data.ID,
		RequesterID:    data.RequesterID,
		RequesterName:  data.RequesterName,
		RequesterPhone: data.RequesterPhone,
		Description:    data.Description,
		OfferedPrice:   data.OfferedPrice,
		Status:         string(data.Status),
		CourierID:      data.CourierID,
		PickupAddress:  data.Pickup.Address,
		PickupLat:      data.Pickup.Lat,
		PickupLng:      data.Pickup.Lng,
		DropoffAddress: data.Dropoff.Address,
		DropoffLat:     data.Dropoff.Lat,
		DropoffLng:     data.Dropoff.Lng,
		Deadline:       data.Deadline,
		Category:       data.Category,
		Notes:          data.Notes,
		Rating:         data.Rating,
		Comment:        data.Comment,
	}
}
