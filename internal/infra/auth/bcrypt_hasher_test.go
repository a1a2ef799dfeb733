package auth

import (
	"testing"

	"ofertas/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher(minLength int) *bcryptHasher {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	if minLength > 0 {
		cfg.PasswordStrength = &config.PasswordStrengthConfig{MinLength: minLength}
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := testHasher(0)

	password := "secreto123"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("otro-password", hash))
	assert.False(t, hasher.Check("", hash))
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := testHasher(0)

	first, err := hasher.Hash("secreto123")
	require.NoError(t, err)
	second, err := hasher.Hash("secreto123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_ValidateStrength(t *testing.T) {
	hasher := testHasher(0)

	assert.Error(t, hasher.ValidateStrength("12345"))
	assert.NoError(t, hasher.ValidateStrength("123456"))
}

func TestBcryptHasher_ValidateStrengthConfiguredMinimum(t *testing.T) {
	hasher := testHasher(10)

	assert.Error(t, hasher.ValidateStrength("123456789"))
	assert.NoError(t, hasher.ValidateStrength("1234567890"))
}
