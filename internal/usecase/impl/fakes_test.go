package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"ofertas/internal/domain/entity"
	"ofertas/internal/domain/repository"
	"ofertas/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is a mutex-guarded in-memory stand-in for the database. The
// participation and claim operations honor the same conditional-write
// contracts as the Postgres layer so concurrency tests are meaningful.
type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	listings map[uuid.UUID]*entity.Listing
	members  map[uuid.UUID]map[uuid.UUID]struct{}
	orders   map[uuid.UUID]*entity.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		listings: make(map[uuid.UUID]*entity.Listing),
		members:  make(map[uuid.UUID]map[uuid.UUID]struct{}),
		orders:   make(map[uuid.UUID]*entity.Order),
	}
}

func copyUser(u *entity.User) *entity.User {
	clone := *u
	if u.Courier != nil {
		courier := *u.Courier
		if u.Courier.Location != nil {
			loc := *u.Courier.Location
			courier.Location = &loc
		}
		clone.Courier = &courier
	}

	return &clone
}

func copyListing(l *entity.Listing) *entity.Listing {
	clone := *l

	return &clone
}

func copyOrder(o *entity.Order) *entity.Order {
	clone := *o
	if o.CourierID != nil {
		id := *o.CourierID
		clone.CourierID = &id
	}
	if o.Rating != nil {
		r := *o.Rating
		clone.Rating = &r
	}

	return &clone
}

// fakeUserRepo implements repository.UserRepository over the fakeStore.
type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if user.Email != "" && existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	r.store.users[user.ID] = copyUser(user)

	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.store.users[user.ID] = copyUser(user)

	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.store.users, id)
	for _, members := range r.store.members {
		delete(members, id)
	}

	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users := make([]*entity.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		users = append(users, copyUser(user))
	}

	return users, nil
}

func (r *fakeUserRepo) CountAll(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return int64(len(r.store.users)), nil
}

func (r *fakeUserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, user := range r.store.users {
		if !user.CreatedAt.Before(since) {
			count++
		}
	}

	return count, nil
}

func (r *fakeUserRepo) ListAvailableCouriers(ctx context.Context) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var couriers []*entity.User
	for _, user := range r.store.users {
		if user.Courier != nil && user.Courier.Available {
			couriers = append(couriers, copyUser(user))
		}
	}

	return couriers, nil
}

func (r *fakeUserRepo) SetCourierAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok || user.Courier == nil {
		return repository.ErrUserNotFound
	}
	user.Courier.Available = available

	return nil
}

func (r *fakeUserRepo) UpdateCourierLocation(ctx context.Context, userID uuid.UUID, point entity.GeoPoint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok || user.Courier == nil {
		return repository.ErrUserNotFound
	}
	user.Courier.Location = &point

	return nil
}

func (r *fakeUserRepo) UpdateCourierRating(ctx context.Context, userID uuid.UUID, rating float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok || user.Courier == nil {
		return repository.ErrUserNotFound
	}
	user.Courier.Rating = rating

	return nil
}

func (r *fakeUserRepo) IncrementCompletedServices(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok || user.Courier == nil {
		return repository.ErrUserNotFound
	}
	user.Courier.CompletedServices++

	return nil
}

// fakeListingRepo implements repository.ListingRepository over the fakeStore.
type fakeListingRepo struct {
	store *fakeStore
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing.CreatedAt = time.Now()
	r.store.listings[listing.ID] = copyListing(listing)

	return nil
}

func (r *fakeListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}

	return copyListing(listing), nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.listings[listing.ID]
	if !ok {
		return repository.ErrListingNotFound
	}
	// Participants only move through AddParticipant, mirroring the SQL layer.
	participants := stored.Participants
	updated := copyListing(listing)
	updated.Participants = participants
	r.store.listings[listing.ID] = updated

	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.listings[id]; !ok {
		return repository.ErrListingNotFound
	}
	delete(r.store.listings, id)
	delete(r.store.members, id)

	return nil
}

func (r *fakeListingRepo) ListPublic(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var listings []*entity.Listing
	for _, listing := range r.store.listings {
		if listing.Kind != filter.Kind || listing.Status != entity.StatusApproved || !listing.Active {
			continue
		}
		if filter.Category != "" && listing.Category != filter.Category {
			continue
		}
		listings = append(listings, copyListing(listing))
	}
	sortListingsNewestFirst(listings)

	return listings, nil
}

func (r *fakeListingRepo) ListPending(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var listings []*entity.Listing
	for _, listing := range r.store.listings {
		if listing.Kind == kind && listing.Status == entity.StatusPending {
			listings = append(listings, copyListing(listing))
		}
	}
	sortListingsNewestFirst(listings)

	return listings, nil
}

// sortListingsNewestFirst mirrors the created_at DESC ordering of the SQL layer.
func sortListingsNewestFirst(listings []*entity.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}

func (r *fakeListingRepo) ListByCreator(ctx context.Context, kind entity.ListingKind, creatorID uuid.UUID) ([]*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var listings []*entity.Listing
	for _, listing := range r.store.listings {
		if listing.Kind == kind && listing.CreatorID == creatorID {
			listings = append(listings, copyListing(listing))
		}
	}
	sortListingsNewestFirst(listings)

	return listings, nil
}

func (r *fakeListingRepo) ListAll(ctx context.Context, kind entity.ListingKind) ([]*entity.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var listings []*entity.Listing
	for _, listing := range r.store.listings {
		if listing.Kind == kind {
			listings = append(listings, copyListing(listing))
		}
	}
	sortListingsNewestFirst(listings)

	return listings, nil
}

func (r *fakeListingRepo) CountByStatus(ctx context.Context, kind entity.ListingKind, status entity.ListingStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, listing := range r.store.listings {
		if listing.Kind != kind {
			continue
		}
		if status != "" && listing.Status != status {
			continue
		}
		count++
	}

	return count, nil
}

func (r *fakeListingRepo) SumApprovedRevenue(ctx context.Context) (float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var total float64
	for _, listing := range r.store.listings {
		if listing.Kind == entity.KindOffer && listing.Status == entity.StatusApproved {
			total += listing.DiscountedPrice * float64(listing.Participants)
		}
	}

	return total, nil
}

func (r *fakeListingRepo) AddParticipant(ctx context.Context, listingID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	listing, ok := r.store.listings[listingID]
	if !ok {
		return repository.ErrListingNotFound
	}
	members := r.store.members[listingID]
	if members == nil {
		members = make(map[uuid.UUID]struct{})
		r.store.members[listingID] = members
	}
	if _, joined := members[userID]; joined {
		return repository.ErrAlreadyParticipating
	}
	if listing.Participants >= listing.MaxParticipants {
		return repository.ErrListingFull
	}
	members[userID] = struct{}{}
	listing.Participants++

	return nil
}

func (r *fakeListingRepo) HasParticipant(ctx context.Context, listingID, userID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, joined := r.store.members[listingID][userID]

	return joined, nil
}

func (r *fakeListingRepo) ListJoinedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ids []uuid.UUID
	for listingID, members := range r.store.members {
		if _, joined := members[userID]; joined {
			ids = append(ids, listingID)
		}
	}

	return ids, nil
}

// fakeOrderRepo implements repository.OrderRepository over the fakeStore.
type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order.CreatedAt = time.Now()
	r.store.orders[order.ID] = copyOrder(order)

	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	return copyOrder(order), nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[order.ID]; !ok {
		return repository.ErrOrderNotFound
	}
	r.store.orders[order.ID] = copyOrder(order)

	return nil
}

func (r *fakeOrderRepo) ListPending(ctx context.Context, limit int) ([]*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var orders []*entity.Order
	for _, order := range r.store.orders {
		if order.Status == entity.OrderPending {
			orders = append(orders, copyOrder(order))
		}
		if len(orders) == limit {
			break
		}
	}

	return orders, nil
}

func (r *fakeOrderRepo) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var orders []*entity.Order
	for _, order := range r.store.orders {
		if order.RequesterID == requesterID {
			orders = append(orders, copyOrder(order))
		}
	}

	return orders, nil
}

func (r *fakeOrderRepo) ListByCourier(ctx context.Context, courierID uuid.UUID) ([]*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var orders []*entity.Order
	for _, order := range r.store.orders {
		if order.CourierID != nil && *order.CourierID == courierID {
			orders = append(orders, copyOrder(order))
		}
	}

	return orders, nil
}

func (r *fakeOrderRepo) Claim(ctx context.Context, orderID, courierID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Status != entity.OrderPending {
		return repository.ErrOrderNotPending
	}
	id := courierID
	order.Status = entity.OrderAssigned
	order.CourierID = &id

	return nil
}

func (r *fakeOrderRepo) AverageRatingForCourier(ctx context.Context, courierID uuid.UUID) (float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var sum, count float64
	for _, order := range r.store.orders {
		if order.CourierID != nil && *order.CourierID == courierID && order.Rating != nil {
			sum += float64(*order.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	return sum / count, nil
}

// fakeTxManager runs the callback against the same fake store. The store's
// mutex already serializes each repository call.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{store: m.store})
}

type fakeRepoFactory struct {
	store *fakeStore
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository {
	return &fakeUserRepo{store: f.store}
}

func (f *fakeRepoFactory) NewListingRepository() repository.ListingRepository {
	return &fakeListingRepo{store: f.store}
}

func (f *fakeRepoFactory) NewOrderRepository() repository.OrderRepository {
	return &fakeOrderRepo{store: f.store}
}

// fakeHasher trades bcrypt for a reversible prefix so tests stay fast.
type fakeHasher struct {
	minLength int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (h *fakeHasher) ValidateStrength(password string) error {
	minLength := h.minLength
	if minLength == 0 {
		minLength = 6
	}
	if len(password) < minLength {
		return errors.Errorf("password must be at least %d characters", minLength)
	}

	return nil
}

// fakeTokenService issues predictable tokens.
type fakeTokenService struct{}

func (s *fakeTokenService) GenerateToken(userID uuid.UUID, role entity.Role) (string, error) {
	return "token-" + userID.String(), nil
}

func (s *fakeTokenService) ValidateToken(token string) (*service.Claims, error) {
	return nil, errors.New("not supported in fake")
}

func (s *fakeTokenService) TokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}
