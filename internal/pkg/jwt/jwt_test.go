//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"room-booking/internal/domain/user"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	const secret = "test-secret"
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trip keeps user id and role", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		svc := jwt.NewService(secret, time.Hour, "user-service", clk)
		userID := uuid.New()

		token, err := svc.GenerateToken(userID, user.RoleAdmin)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "user-service", claims.Issuer)
	})

	t.Run("expired token", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		svc := jwt.NewService(secret, time.Minute, "user-service", clk)

		token, err := svc.GenerateToken(uuid.New(), user.RoleUser)
		require.NoError(t, err)

		clk.Add(2 * time.Minute)
		_, err = svc.ValidateToken(token)
		require.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		signer := jwt.NewService("other-secret", time.Hour, "user-service", clk)
		verifier := jwt.NewService(secret, time.Hour, "user-service", clk)

		token, err := signer.GenerateToken(uuid.New(), user.RoleUser)
		require.NoError(t, err)

		_, err = verifier.ValidateToken(token)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		signer := jwt.NewService(secret, time.Hour, "someone-else", clk)
		verifier := jwt.NewService(secret, time.Hour, "user-service", clk)

		token, err := signer.GenerateToken(uuid.New(), user.RoleUser)
		require.NoError(t, err)

		_, err = verifier.ValidateToken(token)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("alg none rejected", func(t *testing.T) {
		svc := jwt.NewService(secret, time.Hour, "", clock.NewMockClock(start))
		unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, jwt.Claims{UserID: uuid.New(), Role: "admin"})
		token, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		svc := jwt.NewService(secret, time.Hour, "", nil)
		_, err := svc.ValidateToken("not-a-token")
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
