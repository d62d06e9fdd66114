package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestSignAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	token, err := SignAccess("42", "admin", testSecret, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccess(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.True(t, claims.IsAdmin())
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(AccessTokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestSignRefresh_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	token, err := SignRefresh("7", "user", testSecret, now)
	require.NoError(t, err)

	claims, err := ParseRefresh(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, KindRefresh, claims.Kind)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, claims.IsAdmin())
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(RefreshTokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestParseAccess_Expired(t *testing.T) {
	t.Parallel()

	token, err := SignAccess("42", "user", testSecret, time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)

	claims, err := ParseAccess(token, testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccess_BadSignature(t *testing.T) {
	t.Parallel()

	token, err := SignAccess("42", "user", []byte("other-secret"), time.Now().UTC())
	require.NoError(t, err)

	claims, err := ParseAccess(token, testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestParseAccess_Malformed(t *testing.T) {
	t.Parallel()

	claims, err := ParseAccess("not-a-jwt", testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParse_KindMismatch(t *testing.T) {
	t.Parallel()

	refresh, err := SignRefresh("42", "user", testSecret, time.Now().UTC())
	require.NoError(t, err)

	claims, err := ParseAccess(refresh, testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	access, err := SignAccess("42", "user", testSecret, time.Now().UTC())
	require.NoError(t, err)

	claims, err = ParseRefresh(access, testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
