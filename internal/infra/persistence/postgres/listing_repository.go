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

// listingRepository implements the domain.ListingRepository interface using GORM.
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository is the constructor for listingRepository.
func NewListingRepository(db *gorm.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

// Create persists a new listing.
func (repo *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	listingM := fromListingDomain(listing)

	if err := repo.db.WithContext(ctx).Create(listingM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("unknown creator")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create listing")
	}

	listing.CreatedAt = listingM.CreatedAt
	listing.UpdatedAt = listingM.UpdatedAt

	return nil
}

// FindByID retrieves a listing by ID, including its creator profile.
func (repo *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	var listingM model.ListingModel
	err := repo.db.WithContext(ctx).
		Preload("Creator").
		First(&listingM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find listing by id")
	}

	return toListingDomain(&listingM), nil
}

// Update modifies an existing listing. The participant counter is excluded:
// only AddParticipant may touch it.
func (repo *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listingM := fromListingDomain(listing)

	err := repo.db.WithContext(ctx).Model(&model.ListingModel{}).
		Where("id = ?", listing.ID).
		Select("*").
		Omit("participants", "created_at", "creator_id").
		Updates(listingM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update listing")
	}

	return nil
}

// Delete removes a listing and its participation rows.
func (repo *listingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Delete(&model.ParticipationModel{}, "listing_id = ?", id).Error; err != nil {
		return errors.Wrap(err, "failed to delete participations")
	}

	result := repo.db.WithContext(ctx).Delete(&model.ListingModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete listing")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}

	return nil
}

// ListPublic returns approved, active listings matching the filter, newest first.
func (repo *listingRepository) ListPublic(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	query := repo.db.WithContext(ctx).
		Preload("Creator").
		Where("kind = ? AND status = ? AND active", string(filter.Kind), string(entity.StatusApproved))
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var models []*model.ListingModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list public listings")
	}

	return toListingDomains(models), nil
}

// ListPending returns listings of a kind awaiting moderation, newest first.
func (repo *listingRepository) ListPending(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error) {
	var models []*model.ListingModel
	err := repo.db.WithContext(ctx).
		Preload("Creator").
		Where("kind = ? AND status = ?", string(kind), string(entity.StatusPending)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending listings")
	}

	return toListingDomains(models), nil
}

// ListByCreator returns listings of a kind owned by the given provider, newest first.
func (repo *listingRepository) ListByCreator(ctx context.Context, kind entity.ListingKind, creatorID uuid.UUID) ([]*entity.Listing, error) {
	var models []*model.ListingModel
	err := repo.db.WithContext(ctx).
		Where("kind = ? AND creator_id = ?", string(kind), creatorID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list listings by creator")
	}

	return toListingDomains(models), nil
}

// ListAll returns every listing of a kind regardless of status, newest first.
func (repo *listingRepository) ListAll(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error) {
	var models []*model.ListingModel
	err := repo.db.WithContext(ctx).
		Preload("Creator").
		Where("kind = ?", string(kind)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list listings")
	}

	return toListingDomains(models), nil
}

// CountByStatus counts listings of a kind in the given moderation status.
func (repo *listingRepository) CountByStatus(ctx context.Context, kind entity.ListingKind, status entity.ListingStatus) (int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ListingModel{}).
		Where("kind = ?", string(kind))
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var count int64
	err := query.Count(&count).Error

	return count, errors.Wrap(err, "failed to count listings")
}

// SumApprovedRevenue totals discounted price times participants over approved offers.
func (repo *listingRepository) SumApprovedRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := repo.db.WithContext(ctx).Model(&model.ListingModel{}).
		Select("COALESCE(SUM(discounted_price * participants), 0)").
		Where("kind = ? AND status = ?", string(entity.KindOffer), string(entity.StatusApproved)).
		Scan(&total).Error

	return total, errors.Wrap(err, "failed to sum approved revenue")
}

// AddParticipant atomically consumes one capacity slot and records membership.
// The membership insert goes first so the composite primary key rejects
// duplicate joins before the counter moves; the conditional increment then
// serializes concurrent joins at the database, so capacity never overshoots.
func (repo *listingRepository) AddParticipant(ctx context.Context, listingID, userID uuid.UUID) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		membership := &model.ParticipationModel{
			ListingID: listingID,
			UserID:    userID,
		}
		if err := tx.Create(membership).Error; err != nil {
			if isUniqueConstraintViolation(err) {
				return repository.ErrAlreadyParticipating
			}

			return errors.Wrap(err, "failed to record membership")
		}

		result := tx.Model(&model.ListingModel{}).
			Where("id = ? AND participants < max_participants", listingID).
			Update("participants", gorm.Expr("participants + 1"))
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to increment participants")
		}
		if result.RowsAffected == 0 {
			// No capacity left; rolling back also removes the membership row.
			return repository.ErrListingFull
		}

		return nil
	})
}

// HasParticipant reports whether the user already joined the listing.
func (repo *listingRepository) HasParticipant(ctx context.Context, listingID, userID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.ParticipationModel{}).
		Where("listing_id = ? AND user_id = ?", listingID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check participation")
	}

	return count > 0, nil
}

// ListJoinedIDs returns the IDs of listings the user has joined.
func (repo *listingRepository) ListJoinedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := repo.db.WithContext(ctx).Model(&model.ParticipationModel{}).
		Where("user_id = ?", userID).
		Pluck("listing_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list joined listings")
	}

	return ids, nil
}

// --- Mapper Functions ---

func toListingDomain(data *model.ListingModel) *entity.Listing {
	if data == nil {
		return nil
	}

	listing := &entity.Listing{
		ID:              data.ID,
		Kind:            entity.ListingKind(data.Kind),
		Title:           data.Title,
		Description:     data.Description,
		Category:        data.Category,
		Discount:        data.Discount,
		OriginalPrice:   data.OriginalPrice,
		DiscountedPrice: data.DiscountedPrice,
		MaxParticipants: data.MaxParticipants,
		Participants:    data.Participants,
		StartDate:       data.StartDate,
		EndDate:         data.EndDate,
		Date:            data.Date,
		TimeOfDay:       data.TimeOfDay,
		Duration:        data.Duration,
		Location:        data.Location,
		Requirements:    data.Requirements,
		Image:           data.Image,
		Status:          entity.ListingStatus(data.Status),
		RejectionReason: data.RejectionReason,
		Active:          data.Active,
		CreatorID:       data.CreatorID,
		Company:         data.Company,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
	if data.Creator != nil {
		listing.Creator = toUserDomain(data.Creator).Public()
	}

	return listing
}

func toListingDomains(models []*model.ListingModel) []*entity.Listing {
	listings := make([]*entity.Listing, 0, len(models))
	for _, m := range models {
		listings = append(listings, toListingDomain(m))
	}

	return listings
}

func fromListingDomain(data *entity.Listing) *model.ListingModel {
	if data == nil {
		return nil
	}

	return &model.ListingModel{
		ID:              data.ID,
		Kind:            string(data.Kind),
		Title:           data.Title,
		Description:     data.Description,
		Category:        data.Category,
		Discount:        data.Discount,
		OriginalPrice:   data.OriginalPrice,
		DiscountedPrice: data.DiscountedPrice,
		MaxParticipants: data.MaxParticipants,
		Participants:    data.Participants,
		StartDate:       data.StartDate,
		EndDate:         data.EndDate,
		Date:            data.Date,
		TimeOfDay:       data.TimeOfDay,
		Duration:        data.Duration,
		Location:        data.Location,
		Requirements:    data.Requirements,
		Image:           data.Image,
		Status:          string(data.Status),
		RejectionReason: data.RejectionReason,
		Active:          data.Active,
		CreatorID:       data.CreatorID,
		Company:         data.Company,
	}
}
