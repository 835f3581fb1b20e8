package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank2130/user-leagues/config"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:           "test-secret",
		PlatformTokenSecret: "platform-secret",
	})

	token, err := GenerateToken(42, 7, "user_abc", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.MemberID)
	assert.Equal(t, uint(7), claims.CommunityID)
	assert.Equal(t, "user_abc", claims.WhopUserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:           "secret-a",
		PlatformTokenSecret: "platform-secret",
	})
	token, err := GenerateToken(1, 1, "user", "member", time.Hour)
	require.NoError(t, err)

	config.SetForTesting(config.AppConfig{
		JWTSecret:           "secret-b",
		PlatformTokenSecret: "platform-secret",
	})
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		JWTSecret:           "test-secret",
		PlatformTokenSecret: "platform-secret",
	})
	token, err := GenerateToken(1, 1, "user", "member", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}
