package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/vip-store/internal/adapter/token"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte(strings.Repeat("k", 32))

func TestJWTIssuer(t *testing.T) {
	admin := domain.Identity{Username: "admin", Role: domain.RoleAdmin}
	issuedAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	clock := func(at time.Time) token.Opt {
		return token.WithClock(func() time.Time { return at })
	}

	t.Run("RoundTrip", func(t *testing.T) {
		i, err := token.NewJWTIssuer(secret, 24*time.Hour, clock(issuedAt.Add(time.Hour)))
		require.NoError(t, err)

		cred, err := i.Issue(admin, issuedAt)
		require.NoError(t, err)
		assert.Equal(t, issuedAt.Add(24*time.Hour), cred.ExpiresAt)
		assert.Equal(t, admin, cred.Identity)

		got, err := i.Parse(cred.Token)
		require.NoError(t, err)
		assert.Equal(t, admin, got)
	})

	t.Run("Expired", func(t *testing.T) {
		i, err := token.NewJWTIssuer(secret, 24*time.Hour, clock(issuedAt.Add(25*time.Hour)))
		require.NoError(t, err)

		cred, err := i.Issue(admin, issuedAt)
		require.NoError(t, err)

		_, err = i.Parse(cred.Token)
		require.ErrorIs(t, err, domain.ErrAuthentication)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("OtherSecret", func(t *testing.T) {
		i, err := token.NewJWTIssuer(secret, time.Hour, clock(issuedAt))
		require.NoError(t, err)
		other, err := token.NewJWTIssuer([]byte(strings.Repeat("x", 32)), time.Hour, clock(issuedAt))
		require.NoError(t, err)

		cred, err := other.Issue(admin, issuedAt)
		require.NoError(t, err)

		_, err = i.Parse(cred.Token)
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("UnsignedRejected", func(t *testing.T) {
		i, err := token.NewJWTIssuer(secret, time.Hour, clock(issuedAt))
		require.NoError(t, err)

		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"username": "admin",
			"role":     "admin",
			"exp":      issuedAt.Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = i.Parse(unsigned)
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("Garbage", func(t *testing.T) {
		i, err := token.NewJWTIssuer(secret, time.Hour)
		require.NoError(t, err)
		_, err = i.Parse("not-a-token")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("ShortSecret", func(t *testing.T) {
		_, err := token.NewJWTIssuer([]byte("short"), time.Hour)
		assert.Error(t, err)
	})
}
