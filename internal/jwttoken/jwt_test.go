package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	dErrors "eventops/pkg/domainerrors"
)

const testKey = "test-signing-key"

func signToken(t *testing.T, key string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func operatorClaims(issuer string, expiresIn time.Duration) Claims {
	return Claims{
		ActorID:   uuid.NewString(),
		StationID: "station-9",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateTokenOK(t *testing.T) {
	svc := NewService(testKey, "eventops")
	claims := operatorClaims("eventops", time.Hour)
	token := signToken(t, testKey, claims)

	got, err := svc.ValidateToken(token)

	require.NoError(t, err)
	require.Equal(t, claims.ActorID, got.ActorID)
	require.Equal(t, "station-9", got.StationID)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewService(testKey, "eventops")
	token := signToken(t, testKey, operatorClaims("eventops", -time.Minute))

	_, err := svc.ValidateToken(token)

	require.Error(t, err)
	require.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	require.Contains(t, err.Error(), "expired")
}

func TestValidateTokenWrongKey(t *testing.T) {
	svc := NewService(testKey, "eventops")
	token := signToken(t, "some-other-key", operatorClaims("eventops", time.Hour))

	_, err := svc.ValidateToken(token)

	require.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	svc := NewService(testKey, "eventops")
	token := signToken(t, testKey, operatorClaims("someone-else", time.Hour))

	_, err := svc.ValidateToken(token)

	require.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestValidateTokenMissingActor(t *testing.T) {
	svc := NewService(testKey, "eventops")
	claims := operatorClaims("eventops", time.Hour)
	claims.ActorID = ""
	token := signToken(t, testKey, claims)

	_, err := svc.ValidateToken(token)

	require.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewService(testKey, "eventops")

	_, err := svc.ValidateToken("not.a.token")

	require.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}
