package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "ofertas/internal/delivery/context"
	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/repository"
	"ofertas/internal/errors"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// listingService implements the ListingUsecase interface.
type listingService struct {
	txManager   repository.TransactionManager
	listingRepo repository.ListingRepository
	logger      *slog.Logger
}

// ListingServiceParams holds dependencies for listingService, injected by Fx.
type ListingServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ListingRepo repository.ListingRepository
	Logger      *slog.Logger
}

// NewListingService is the constructor for listingService.
func NewListingService(params ListingServiceParams) usecase.ListingUsecase {
	return &listingService{
		txManager:   params.TxManager,
		listingRepo: params.ListingRepo,
		logger:      params.Logger,
	}
}

func (srv *listingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create publishes a new listing in the pending moderation state.
func (srv *listingService) Create(ctx context.Context, creator *entity.User, input usecase.CreateListingInput) (*entity.Listing, error) {
	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		ID:              uuid.New(),
		Kind:            input.Kind,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Category:        input.Category,
		Discount:        input.Discount,
		OriginalPrice:   input.OriginalPrice,
		MaxParticipants: input.MaxParticipants,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Date:            input.Date,
		TimeOfDay:       input.TimeOfDay,
		Duration:        input.Duration,
		Location:        input.Location,
		Requirements:    input.Requirements,
		Image:           input.Image,
		Status:          entity.StatusPending,
		Active:          true,
		Participants:    0,
		CreatorID:       creator.ID,
		Company:         creator.Company,
	}
	listing.RecomputePrice()

	if err := srv.listingRepo.Create(ctx, listing); err != nil {
		return nil, errors.Wrap(err, "create listing")
	}

	srv.log(ctx).Info("Listing created",
		slog.String("listing_id", listing.ID.String()),
		slog.String("kind", string(listing.Kind)),
		slog.String("creator_id", creator.ID.String()))

	return listing, nil
}

// Get retrieves a single listing by ID.
func (srv *listingService) Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	listing, err := srv.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "find listing by id")
	}

	return listing, nil
}

// ListPublic returns approved, active listings for the public catalogue.
func (srv *listingService) ListPublic(ctx context.Context, input usecase.ListPublicInput) ([]*entity.Listing, error) {
	listings, err := srv.listingRepo.ListPublic(ctx, repository.ListingFilter{
		Kind:     input.Kind,
		Category: input.Category,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list public listings")
	}

	return listings, nil
}

// ListPending returns listings awaiting moderation.
func (srv *listingService) ListPending(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error) {
	listings, err := srv.listingRepo.ListPending(ctx, kind)
	if err != nil {
		return nil, errors.Wrap(err, "list pending listings")
	}

	return listings, nil
}

// ListMine returns the creator's own listings regardless of status.
func (srv *listingService) ListMine(ctx context.Context, kind entity.ListingKind, creator *entity.User) ([]*entity.Listing, error) {
	listings, err := srv.listingRepo.ListByCreator(ctx, kind, creator.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list listings by creator")
	}

	return listings, nil
}

// Decide resolves a pending listing to approved or rejected. Moderation is
// one-shot: approved and rejected are terminal.
func (srv *listingService) Decide(ctx context.Context, input usecase.DecideListingInput) (*entity.Listing, error) {
	var decided *entity.Listing

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		listingRepo := repoFactory.NewListingRepository()

		listing, err := listingRepo.FindByID(ctx, input.ListingID)
		if err != nil {
			if errors.Is(err, repository.ErrListingNotFound) {
				return domainerrors.ErrListingNotFound
			}

			return errors.Wrap(err, "find listing by id")
		}

		if listing.Moderated() {
			return domainerrors.ErrListingModerated
		}

		if input.Approve {
			listing.Status = entity.StatusApproved
			listing.Active = true
			listing.RejectionReason = ""
		} else {
			listing.Status = entity.StatusRejected
			listing.Active = false
			listing.RejectionReason = input.Reason
		}

		if err := listingRepo.Update(ctx, listing); err != nil {
			return errors.Wrap(err, "update listing")
		}

		decided = listing

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Listing moderated",
		slog.String("listing_id", decided.ID.String()),
		slog.String("status", string(decided.Status)))

	return decided, nil
}

// Participate joins the principal to an open listing. Capacity is enforced by
// the storage layer's conditional increment, so concurrent joins never
// overshoot the maximum.
func (srv *listingService) Participate(ctx context.Context, listingID uuid.UUID, principal *entity.User) (*entity.Listing, error) {
	listing, err := srv.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "find listing by id")
	}

	if !listing.OpenForParticipation() {
		return nil, domainerrors.ErrListingNotAvailable
	}
	if listing.Full() {
		return nil, domainerrors.ErrListingFull
	}

	joined, err := srv.listingRepo.HasParticipant(ctx, listingID, principal.ID)
	if err != nil {
		return nil, errors.Wrap(err, "check participation")
	}
	if joined {
		return nil, domainerrors.ErrAlreadyParticipating
	}

	if err := srv.listingRepo.AddParticipant(ctx, listingID, principal.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrListingFull):
			return nil, domainerrors.ErrListingFull
		case errors.Is(err, repository.ErrAlreadyParticipating):
			return nil, domainerrors.ErrAlreadyParticipating
		default:
			return nil, errors.Wrap(err, "add participant")
		}
	}

	srv.log(ctx).Info("User joined listing",
		slog.String("listing_id", listingID.String()),
		slog.String("user_id", principal.ID.String()))

	return srv.Get(ctx, listingID)
}

// Delete removes a listing and its membership rows.
func (srv *listingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := srv.Get(ctx, id); err != nil {
		return err
	}

	if err := srv.listingRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete listing")
	}

	srv.log(ctx).Info("Listing deleted", slog.String("listing_id", id.String()))

	return nil
}

// ListAll returns every listing of a kind for administration views.
func (srv *listingService) ListAll(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error) {
	listings, err := srv.listingRepo.ListAll(ctx, kind)
	if err != nil {
		return nil, errors.Wrap(err, "list all listings")
	}

	return listings, nil
}

func validateListingInput(input usecase.CreateListingInput) error {
	if !input.Kind.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown listing kind")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("title and description are required")
	}
	if !entity.ValidListingCategory(input.Kind, input.Category) {
		return domainerrors.ErrValidationFailed.WithDetails("unknown category for this listing kind")
	}
	if input.Discount < 0 || input.Discount > 100 {
		return domainerrors.ErrValidationFailed.WithDetails("discount must be between 0 and 100")
	}
	if input.OriginalPrice <= 0 {
		return domainerrors.ErrValidationFailed.WithDetails("original price must be positive")
	}
	if input.MaxParticipants <= 0 {
		return domainerrors.ErrValidationFailed.WithDetails("capacity must be positive")
	}

	switch input.Kind {
	case entity.KindOffer:
		if input.StartDate == nil || input.EndDate == nil {
			return domainerrors.ErrValidationFailed.WithDetails("offers require start and end dates")
		}
		if input.EndDate.Before(*input.StartDate) {
			return domainerrors.ErrValidationFailed.WithDetails("end date must not precede start date")
		}
	case entity.KindActivity:
		if input.Date == nil || input.TimeOfDay == "" {
			return domainerrors.ErrValidationFailed.WithDetails("activities require a date and time")
		}
	}

	return nil
}
