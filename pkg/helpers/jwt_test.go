package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWT()

	token, exp, err := m.GenerateAccessToken("u1", "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	m := newTestJWT()

	token, _, err := m.GenerateRefreshToken("u1", "sess-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := newTestJWT()
	token, _, err := m.GenerateAccessToken("u1", "sess-1")
	require.NoError(t, err)

	other := &JWTManager{AccessSecret: []byte("different"), AccessTTL: time.Hour}
	_, err = other.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := newTestJWT()
	m.AccessTTL = -time.Minute

	token, _, err := m.GenerateAccessToken("u1", "sess-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := newTestJWT()
	_, err := m.ParseAccessToken("not.a.jwt")
	assert.Error(t, err)
}
