package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	user := &domain.User{
		ID:      "user-1",
		Email:   "member@example.com",
		Role:    domain.RoleMember,
		PlantID: "plant-1",
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "member@example.com", claims.Email)
	assert.Equal(t, domain.RoleMember, claims.Role)
	assert.Equal(t, "plant-1", claims.PlantID)
	assert.False(t, claims.IsHQ())
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-1", Role: domain.RoleHQ})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken("v4.local.garbage")
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsBadKey(t *testing.T) {
	_, err := NewTokenService("tooshort", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	h1 := HashRefreshToken(token)
	h2 := HashRefreshToken(token)
	assert.Equal(t, h1, h2)

	other, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, h1, HashRefreshToken(other))
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, keyHexLength)

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}
