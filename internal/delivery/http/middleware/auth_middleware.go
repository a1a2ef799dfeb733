package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "ofertas/internal/delivery/context"
	"ofertas/internal/delivery/http/response"
	"ofertas/internal/domain/entity"
	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/service"
	"ofertas/internal/usecase"

	"github.com/labstack/echo/v4"
)

// principalKey is the echo context key carrying the resolved principal.
const principalKey = "principal"

// AuthMiddleware provides middleware for JWT authentication and role-based authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userUC   usecase.UserUsecase
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userUC usecase.UserUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userUC: userUC, logger: logger}
}

// Authenticate validates the bearer token and resolves the principal from
// storage, so a deleted account is rejected even with a valid token. Missing,
// malformed and expired tokens all get the same client-facing message; the
// log entry carries the real cause.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, domainerrors.ErrAuthRequired.ErrorCode(), domainerrors.ErrAuthRequired.Message())
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			m.log(c).Debug("Rejected non-bearer authorization header")

			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), domainerrors.ErrInvalidToken.Message())
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			m.log(c).Info("Token validation failed", slog.Any("error", err))

			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), domainerrors.ErrInvalidToken.Message())
		}

		principal, err := m.userUC.Verify(c.Request().Context(), claims.UserID)
		if err != nil {
			m.log(c).Info("Token principal no longer resolvable",
				slog.String("user_id", claims.UserID.String()),
				slog.Any("error", err))

			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), domainerrors.ErrInvalidToken.Message())
		}

		SetPrincipal(c, principal)

		return next(c)
	}
}

// RequireAdmin permits administrators only. Must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, func(role entity.Role) bool { return role.IsAdmin() }, domainerrors.ErrAdminRequired)
}

// RequireProvider permits providers and administrators. Must run after Authenticate.
func (m *AuthMiddleware) RequireProvider(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, entity.Role.CanPublishListings, domainerrors.ErrProviderRequired)
}

// RequireCourier permits couriers only. Must run after Authenticate.
func (m *AuthMiddleware) RequireCourier(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, entity.Role.IsCourier, domainerrors.ErrCourierRequired)
}

func (m *AuthMiddleware) requireRole(next echo.HandlerFunc, allowed func(entity.Role) bool, denied *domainerrors.BaseError) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, domainerrors.ErrAuthRequired.ErrorCode(), domainerrors.ErrAuthRequired.Message())
		}

		if !allowed(principal.Role) {
			return response.Forbidden(c, denied.ErrorCode(), denied.Message())
		}

		return next(c)
	}
}

// SetPrincipal attaches the authenticated principal to the request context.
func SetPrincipal(c echo.Context, principal *entity.User) {
	c.Set(principalKey, principal)
}

// GetPrincipal returns the principal attached by Authenticate.
func GetPrincipal(c echo.Context) (*entity.User, bool) {
	principal, ok := c.Get(principalKey).(*entity.User)

	return principal, ok
}

func (m *AuthMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}
