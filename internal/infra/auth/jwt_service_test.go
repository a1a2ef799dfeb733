package auth

import (
	"testing"
	"time"

	"ofertas/config"
	"ofertas/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	if ttl > 0 {
		cfg.Auth = &config.AuthConfig{TokenTTL: ttl}
	}

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(0))
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID, entity.RoleCourier)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleCourier, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_DefaultDurationIsSevenDays(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(0))
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, jwtService.TokenDuration())
}

func TestJWTService_ExpiredToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(-time.Minute))
	require.NoError(t, err)

	// A negative TTL falls back to the default, so force expiry via a short TTL.
	shortLived, err := NewJWTService(testConfig(time.Millisecond))
	require.NoError(t, err)

	token, err := shortLived.GenerateToken(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(0))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(0))
	require.NoError(t, err)

	other := &config.Config{}
	other.SecretKey.Access = "a_completely_different_secret_key_here"
	otherService, err := NewJWTService(other)
	require.NoError(t, err)

	token, err := otherService.GenerateToken(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_MissingSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
