// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "ofertas/internal/delivery/context"
	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/repository"
	"ofertas/internal/domain/service"
	"ofertas/internal/errors"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account with a hashed credential and returns a signed token.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}

	if err := srv.validateRegistration(input, role); err != nil {
		return nil, err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user := &entity.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        input.Phone,
		Company:      input.Company,
		Address:      input.Address,
	}
	if role == entity.RoleCourier {
		user.Courier = &entity.CourierProfile{
			UserID:  user.ID,
			Vehicle: input.Vehicle,
		}
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrEmailTaken
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "find user by email")
		}

		if err := userRepo.Create(ctx, user); err != nil {
			// A concurrent registration can win the race between the lookup
			// and the insert; the unique index reports it.
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return domainerrors.ErrEmailTaken
			}

			return errors.Wrap(err, "create user")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()))

	return srv.issueToken(user)
}

// Login verifies the credential and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	srv.log(ctx).Info("User logged in", slog.String("user_id", user.ID.String()))

	return srv.issueToken(user)
}

// Verify resolves the authenticated principal's fresh profile from storage.
func (srv *userService) Verify(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "find user by id")
	}

	return user, nil
}

// ChangePassword swaps the stored credential after verifying the current one.
func (srv *userService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	if err := srv.hasher.ValidateStrength(input.NewPassword); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "find user by id")
		}

		if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
			return domainerrors.ErrInvalidCredentials
		}

		hash, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return errors.Wrap(err, "hash password")
		}

		user.PasswordHash = hash

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "update user")
		}

		srv.log(ctx).Info("Password changed", slog.String("user_id", user.ID.String()))

		return nil
	})
}

func (srv *userService) validateRegistration(input usecase.RegisterInput, role entity.Role) error {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		input.Password == "" {
		return domainerrors.ErrValidationFailed.WithDetails("name, email and password are required")
	}

	if !role.IsValid() || role == entity.RoleAdmin {
		return domainerrors.ErrValidationFailed.WithDetails("invalid role")
	}

	if err := srv.hasher.ValidateStrength(input.Password); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	if role == entity.RoleProvider {
		if input.Phone == "" || input.Company == "" || input.Address == "" {
			return domainerrors.ErrValidationFailed.WithDetails("providers must supply phone, company and address")
		}
	}

	return nil
}

func (srv *userService) issueToken(user *entity.User) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "generate token")
	}

	return &usecase.AuthOutput{Token: token, User: user}, nil
}
