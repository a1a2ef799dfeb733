package impl

import (
	"context"
	"sync"
	"testing"

	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderServiceFixtures holds all test dependencies for order service tests.
type orderServiceFixtures struct {
	service usecase.OrderUsecase
	store   *fakeStore
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	t.Helper()

	store := newFakeStore()
	service := NewOrderService(OrderServiceParams{
		TxManager: &fakeTxManager{store: store},
		OrderRepo: &fakeOrderRepo{store: store},
		UserRepo:  &fakeUserRepo{store: store},
		Config:    nil,
		Logger:    newDiscardLogger(),
	})

	return orderServiceFixtures{service: service, store: store}
}

func (fx orderServiceFixtures) addCourier(t *testing.T) *entity.User {
	t.Helper()

	id := uuid.New()
	courier := &entity.User{
		ID:    id,
		Name:  "Luis",
		Email: id.String() + "@example.com",
		Role:  entity.RoleCourier,
	}
	courier.Courier = &entity.CourierProfile{UserID: courier.ID, Vehicle: "moto"}
	require.NoError(t, (&fakeUserRepo{store: fx.store}).Create(context.Background(), courier))

	return courier
}

func testRequester() *entity.User {
	return &entity.User{
		ID:    uuid.New(),
		Name:  "Ana Morales",
		Phone: "88881234",
		Role:  entity.RoleUser,
	}
}

func orderInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		Description:  "Recoger documentos en el banco",
		OfferedPrice: 2500,
		Pickup:       entity.OrderLocation{Address: "Banco Nacional, San Jose"},
		Dropoff:      entity.OrderLocation{Address: "Avenida Central 12"},
		Category:     "documentos",
	}
}

func TestOrderService_Create_SnapshotsRequester(t *testing.T) {
	fx := createTestOrderService(t)
	requester := testRequester()

	order, err := fx.service.Create(context.Background(), requester, orderInput())

	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.Equal(t, requester.ID, order.RequesterID)
	assert.Equal(t, "Ana Morales", order.RequesterName)
	assert.Equal(t, "88881234", order.RequesterPhone)
	assert.Nil(t, order.CourierID)
}

func TestOrderService_Create_Validation(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	requester := testRequester()

	cases := []struct {
		name   string
		mutate func(*usecase.CreateOrderInput)
	}{
		{"empty description", func(in *usecase.CreateOrderInput) { in.Description = "  " }},
		{"price below minimum", func(in *usecase.CreateOrderInput) { in.OfferedPrice = 999 }},
		{"unknown category", func(in *usecase.CreateOrderInput) { in.Category = "magia" }},
		{"missing pickup address", func(in *usecase.CreateOrderInput) { in.Pickup.Address = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := orderInput()
			tc.mutate(&input)

			_, err := fx.service.Create(ctx, requester, input)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestOrderService_Claim_AssignsFirstCourier(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	order, err := fx.service.Create(ctx, testRequester(), orderInput())
	require.NoError(t, err)

	courier := fx.addCourier(t)
	claimed, err := fx.service.Claim(ctx, order.ID, courier)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderAssigned, claimed.Status)
	require.NotNil(t, claimed.CourierID)
	assert.Equal(t, courier.ID, *claimed.CourierID)
}

func TestOrderService_Claim_RequiresCourierRole(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	order, err := fx.service.Create(ctx, testRequester(), orderInput())
	require.NoError(t, err)

	_, err = fx.service.Claim(ctx, order.ID, testRequester())
	assert.ErrorIs(t, err, domainerrors.ErrCourierRequired)
}

func TestOrderService_Claim_FirstWriterWins(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	order, err := fx.service.Create(ctx, testRequester(), orderInput())
	require.NoError(t, err)

	const contenders = 20
	couriers := make([]*entity.User, contenders)
	for i := range couriers {
		couriers[i] = fx.addCourier(t)
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.service.Claim(ctx, order.ID, couriers[i])
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, domainerrors.ErrOrderNotAvailable)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestOrderService_UpdateStatus_EnforcesTransitionGraph(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	requester := testRequester()

	order, err := fx.service.Create(ctx, requester, orderInput())
	require.NoError(t, err)

	// Pending orders cannot jump straight to completed.
	_, err = fx.service.UpdateStatus(ctx, requester, usecase.UpdateOrderStatusInput{
		OrderID: order.ID,
		Status:  entity.OrderCompleted,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)

	// Assignment only happens through Claim.
	_, err = fx.service.UpdateStatus(ctx, requester, usecase.UpdateOrderStatusInput{
		OrderID: order.ID,
		Status:  entity.OrderAssigned,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)

	courier := fx.addCourier(t)
	_, err = fx.service.Claim(ctx, order.ID, courier)
	require.NoError(t, err)

	inProgress, err := fx.service.UpdateStatus(ctx, courier, usecase.UpdateOrderStatusInput{
		OrderID: order.ID,
		Status:  entity.OrderInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderInProgress, inProgress.Status)

	// Cancellation is no longer legal once in progress.
	_, err = fx.service.UpdateStatus(ctx, courier, usecase.UpdateOrderStatusInput{
		OrderID: order.ID,
		Status:  entity.OrderCancelled,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestOrderService_UpdateStatus_OnlyPartiesMayMove(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	order, err := fx.service.Create(ctx, testRequester(), orderInput())
	require.NoError(t, err)

	stranger := testRequester()
	_, err = fx.service.UpdateStatus(ctx, stranger, usecase.UpdateOrderStatusInput{
		OrderID: order.ID,
		Status:  entity.OrderCancelled,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestOrderService_UpdateStatus_CompletionBumpsCourierCounter(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	requester := testRequester()
	courier := fx.addCourier(t)

	order := fx.completedOrder(t, requester, courier)

	stored, err := (&fakeUserRepo{store: fx.store}).FindByID(ctx, courier.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Courier.CompletedServices)
	assert.Equal(t, entity.OrderCompleted, order.Status)
}

func TestOrderService_Rate_RecomputesCourierAverage(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	courier := fx.addCourier(t)
	requester := testRequester()

	first := fx.completedOrder(t, requester, courier)
	second := fx.completedOrder(t, requester, courier)

	_, err := fx.service.Rate(ctx, requester, usecase.RateOrderInput{OrderID: first.ID, Rating: 5})
	require.NoError(t, err)

	_, err = fx.service.Rate(ctx, requester, usecase.RateOrderInput{OrderID: second.ID, Rating: 4, Comment: "rapido"})
	require.NoError(t, err)

	stored, err := (&fakeUserRepo{store: fx.store}).FindByID(ctx, courier.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, stored.Courier.Rating, 0.001)
}

func TestOrderService_Rate_Guards(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	courier := fx.addCourier(t)
	requester := testRequester()

	pending, err := fx.service.Create(ctx, requester, orderInput())
	require.NoError(t, err)

	_, err = fx.service.Rate(ctx, requester, usecase.RateOrderInput{OrderID: pending.ID, Rating: 6})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.Rate(ctx, requester, usecase.RateOrderInput{OrderID: pending.ID, Rating: 5})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotCompleted)

	completed := fx.completedOrder(t, requester, courier)

	_, err = fx.service.Rate(ctx, testRequester(), usecase.RateOrderInput{OrderID: completed.ID, Rating: 5})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = fx.service.Rate(ctx, requester, usecase.RateOrderInput{OrderID: completed.ID, Rating: 5})
	require.NoError(t, err)

	_, err = fx.service.Rate(ctx, requester, usecase.RateOrderInput{OrderID: completed.ID, Rating: 4})
	assert.ErrorIs(t, err, domainerrors.ErrOrderAlreadyRated)
}

func TestOrderService_Get_VisibilityRules(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	requester := testRequester()
	courier := fx.addCourier(t)

	order, err := fx.service.Create(ctx, requester, orderInput())
	require.NoError(t, err)

	// Pending orders are visible to anyone on the board.
	stranger := testRequester()
	_, err = fx.service.Get(ctx, order.ID, stranger)
	require.NoError(t, err)

	_, err = fx.service.Claim(ctx, order.ID, courier)
	require.NoError(t, err)

	_, err = fx.service.Get(ctx, order.ID, stranger)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = fx.service.Get(ctx, order.ID, courier)
	require.NoError(t, err)

	admin := &entity.User{ID: uuid.New(), Role: entity.RoleAdmin}
	_, err = fx.service.Get(ctx, order.ID, admin)
	require.NoError(t, err)
}

// completedOrder walks an order through claim, in-progress and completion.
func (fx orderServiceFixtures) completedOrder(t *testing.T, requester, courier *entity.User) *entity.Order {
	t.Helper()
	ctx := context.Background()

	order, err := fx.service.Create(ctx, requester, orderInput())
	require.NoError(t, err)

	_, err = fx.service.Claim(ctx, order.ID, courier)
	require.NoError(t, err)

	_, err = fx.service.UpdateStatus(ctx, courier, usecase.UpdateOrderStatusInput{
		OrderID: order.ID, Status: entity.OrderInProgress,
	})
	require.NoError(t, err)

	completed, err := fx.service.UpdateStatus(ctx, courier, usecase.UpdateOrderStatusInput{
		OrderID: order.ID, Status: entity.OrderCompleted,
	})
	require.NoError(t, err)

	return completed
}
