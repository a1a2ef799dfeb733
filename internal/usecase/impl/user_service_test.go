package impl

import (
	"context"
	"testing"

	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service usecase.UserUsecase
	store   *fakeStore
}

func createTestUserService(t *testing.T) userServiceFixtures {
	t.Helper()

	store := newFakeStore()
	service := NewUserService(UserServiceParams{
		TxManager:    &fakeTxManager{store: store},
		UserRepo:     &fakeUserRepo{store: store},
		Hasher:       &fakeHasher{},
		TokenService: &fakeTokenService{},
		Logger:       newDiscardLogger(),
	})

	return userServiceFixtures{service: service, store: store}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	output, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Ana Morales",
		Email:    "Ana@Example.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, output.Token)
	assert.Equal(t, "ana@example.com", output.User.Email)
	assert.Equal(t, entity.RoleUser, output.User.Role)
	assert.NotEqual(t, "secret1", output.User.PasswordHash)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	input := usecase.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"}
	_, err := fx.service.Register(ctx, input)
	require.NoError(t, err)

	_, err = fx.service.Register(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestUserService_Register_AdminRejected(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "secret1",
		Role:     entity.RoleAdmin,
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Register_ProviderRequiresContactFields(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Cafe Lula",
		Email:    "lula@example.com",
		Password: "secret1",
		Role:     entity.RoleProvider,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	output, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Cafe Lula",
		Email:    "lula@example.com",
		Password: "secret1",
		Role:     entity.RoleProvider,
		Phone:    "88881234",
		Company:  "Cafe Lula",
		Address:  "Avenida Central 12",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleProvider, output.User.Role)
}

func TestUserService_Register_CourierGetsProfile(t *testing.T) {
	fx := createTestUserService(t)

	output, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "secret1",
		Role:     entity.RoleCourier,
		Vehicle:  "moto",
	})

	require.NoError(t, err)
	require.NotNil(t, output.User.Courier)
	assert.Equal(t, "moto", output.User.Courier.Vehicle)
}

func TestUserService_Register_ShortPassword(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "12345",
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	// Email lookup is case-insensitive.
	output, err := fx.service.Login(ctx, usecase.LoginInput{Email: "ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, output.User.ID)
	assert.NotEmpty(t, output.Token)
}

func TestUserService_Login_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, wrongPass := fx.service.Login(ctx, usecase.LoginInput{Email: "ana@example.com", Password: "nope"})
	_, unknown := fx.service.Login(ctx, usecase.LoginInput{Email: "ghost@example.com", Password: "secret1"})

	assert.ErrorIs(t, wrongPass, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Verify_NotFound(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.Verify(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	err = fx.service.ChangePassword(ctx, usecase.ChangePasswordInput{
		UserID:          registered.User.ID,
		CurrentPassword: "wrong",
		NewPassword:     "secret2",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	err = fx.service.ChangePassword(ctx, usecase.ChangePasswordInput{
		UserID:          registered.User.ID,
		CurrentPassword: "secret1",
		NewPassword:     "secret2",
	})
	require.NoError(t, err)

	_, err = fx.service.Login(ctx, usecase.LoginInput{Email: "ana@example.com", Password: "secret2"})
	assert.NoError(t, err)
}
