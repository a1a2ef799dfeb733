// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/repository"
	"ofertas/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading the courier profile.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("CourierProfile").
		First(&userM, "id = ?", id).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading the courier profile.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("CourierProfile").
		First(&userM, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity, including its courier profile when present.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity, including its courier profile.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Delete removes a user. The courier profile goes with it via the FK cascade;
// membership rows are cleaned up explicitly.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Delete(&model.ParticipationModel{}, "user_id = ?", id).Error; err != nil {
		return errors.Wrap(err, "failed to delete participations")
	}

	result := repo.db.WithContext(ctx).Delete(&model.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// List returns all users, newest first.
func (repo *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var models []*model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("CourierProfile").
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return toUserDomains(models), nil
}

// CountAll returns the total number of registered users.
func (repo *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.UserModel{}).Count(&count).Error

	return count, errors.Wrap(err, "failed to count users")
}

// CountCreatedSince counts users registered at or after the given time.
func (repo *userRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error

	return count, errors.Wrap(err, "failed to count recent users")
}

// ListAvailableCouriers returns couriers currently flagged as available.
func (repo *userRepository) ListAvailableCouriers(ctx context.Context) ([]*entity.User, error) {
	var models []*model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("CourierProfile").
		Joins("JOIN courier_profiles ON courier_profiles.user_id = users.id").
		Where("users.role = ? AND courier_profiles.available", entity.RoleCourier.String()).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list available couriers")
	}

	return toUserDomains(models), nil
}

// SetCourierAvailability flips the availability flag of a courier profile.
func (repo *userRepository) SetCourierAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	result := repo.db.WithContext(ctx).Model(&model.CourierProfileModel{}).
		Where("user_id = ?", userID).
		Update("available", available)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set courier availability")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// UpdateCourierLocation stores the last reported position. Last write wins.
func (repo *userRepository) UpdateCourierLocation(ctx context.Context, userID uuid.UUID, point entity.GeoPoint) error {
	result := repo.db.WithContext(ctx).Model(&model.CourierProfileModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"lat":                 point.Lat,
			"lng":                 point.Lng,
			"location_updated_at": point.UpdatedAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update courier location")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// UpdateCourierRating overwrites the aggregate rating of a courier profile.
func (repo *userRepository) UpdateCourierRating(ctx context.Context, userID uuid.UUID, rating float64) error {
	result := repo.db.WithContext(ctx).Model(&model.CourierProfileModel{}).
		Where("user_id = ?", userID).
		Update("rating", rating)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update courier rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// IncrementCompletedServices bumps the completed-services counter of a courier.
func (repo *userRepository) IncrementCompletedServices(ctx context.Context, userID uuid.UUID) error {
	result := repo.db.WithContext(ctx).Model(&model.CourierProfileModel{}).
		Where("user_id = ?", userID).
		Update("completed_services", gorm.Expr("completed_services + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment completed services")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Role:         entity.Role(data.Role),
		Phone:        data.Phone,
		Company:      data.Company,
		Address:      data.Address,
		Courier:      toCourierProfileDomain(data.CourierProfile),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func toUserDomains(models []*model.UserModel) []*entity.User {
	users := make([]*entity.User, 0, len(models))
	for _, m := range models {
		users = append(users, toUserDomain(m))
	}

	return users
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:             data.ID,
		Name:           data.Name,
		Email:          data.Email,
		PasswordHash:   data.PasswordHash,
		Role:           data.Role.String(),
		Phone:          data.Phone,
		Company:        data.Company,
		Address:        data.Address,
		CourierProfile: fromCourierProfileDomain(data.Courier),
	}
}

func toCourierProfileDomain(data *model.CourierProfileModel) *entity.CourierProfile {
	if data == nil {
		return nil
	}

	profile := &entity.CourierProfile{
		UserID:            data.UserID,
		Vehicle:           data.Vehicle,
		Rating:            data.Rating,
		CompletedServices: data.CompletedServices,
		Available:         data.Available,
		UpdatedAt:         data.UpdatedAt,
	}
	if data.Lat != nil && data.Lng != nil && data.LocationUpdatedAt != nil {
		profile.Location = &entity.GeoPoint{
			Lat:       *data.Lat,
			Lng:       *data.Lng,
			UpdatedAt: *data.LocationUpdatedAt,
		}
	}

	return profile
}

func fromCourierProfileDomain(data *entity.CourierProfile) *model.CourierProfileModel {
	if data == nil {
		return nil
	}

	profile := &model.CourierProfileModel{
		UserID:            data.UserID,
		Vehicle:           data.Vehicle,
		Rating:            data.Rating,
		CompletedServices: data.CompletedServices,
		Available:         data.Available,
	}
	if data.Location != nil {
		profile.Lat = &data.Location.Lat
		profile.Lng = &data.Location.Lng
		profile.LocationUpdatedAt = &data.Location.UpdatedAt
	}

	return profile
}
