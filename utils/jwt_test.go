package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvudang/equip-data-service/config"
)

func testConfig() *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Expire = 3600
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()

	token, err := GenerateToken(userID, cfg)
	require.NoError(t, err)

	parsed, err := ParseToken(token, cfg)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID.String(), claims["user_id"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateToken(uuid.New(), cfg)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.SecretKey = "different-secret"
	_, err = ParseToken(token, other)
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
