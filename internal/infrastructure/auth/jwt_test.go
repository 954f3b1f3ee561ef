package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        3,
	})
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Username: "jamie",
		IsAdmin:  true,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Username: "jamie",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "jamie", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Username: "jamie"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                 "a-completely-different-secret-value",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        3,
	})

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Username: "jamie"})
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "jamie"})
	require.NoError(t, err)

	newPair, err := svc.RefreshTokenPair(pair.RefreshToken, "jamie", false)

	require.NoError(t, err)
	claims, err := svc.ValidateRefreshToken(newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.RefreshCount)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestRefreshTokenPair_MaxCountExceeded(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Username: "jamie"})
	require.NoError(t, err)

	refreshToken := pair.RefreshToken
	for i := 0; i < 3; i++ {
		newPair, err := svc.RefreshTokenPair(refreshToken, "jamie", false)
		require.NoError(t, err)
		refreshToken = newPair.RefreshToken
	}

	_, err = svc.RefreshTokenPair(refreshToken, "jamie", false)

	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Username: "jamie"})
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.AccessToken, "jamie", false)

	assert.Error(t, err)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))

	blacklisted, err = bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestInMemoryTokenBlacklist_EntryExpires(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", -time.Second))

	blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestInMemoryTokenBlacklist_UserInvalidation(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	userID := uuid.New().String()

	issuedBefore := time.Now().Add(-time.Minute)
	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, userID, time.Hour))

	invalidated, err := bl.IsUserTokenInvalidated(ctx, userID, issuedBefore)
	require.NoError(t, err)
	assert.True(t, invalidated)

	invalidated, err = bl.IsUserTokenInvalidated(ctx, userID, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, invalidated)
}
