package auth_test

import (
	"testing"
	"time"

	"draw-poker/internal/config"
	"draw-poker/pkg/auth"
	appErr "draw-poker/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSecret(secret string) {
	config.GlobalConfig = &config.Config{JWT: config.JWTConfig{Secret: secret, Expire: 1}}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	useSecret("s3cret")
	token, expireAt, err := auth.GenerateSessionToken("ident-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expireAt, time.Minute)

	claims, err := auth.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ident-1", claims.Identity)
	assert.Equal(t, auth.ScopeSession, claims.Scope)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	useSecret("one")
	token, _, err := auth.GenerateSessionToken("ident-1")
	require.NoError(t, err)

	useSecret("two")
	_, err = auth.ParseSessionToken(token)
	assert.Error(t, err)
}

func TestSessionTokenWrongScope(t *testing.T) {
	useSecret("s3cret")
	claims := auth.Claims{
		Identity: "ident-1",
		Scope:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = auth.ParseSessionToken(token)
	assert.ErrorIs(t, err, appErr.ErrInvalidToken)
}
