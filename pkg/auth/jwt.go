package auth

import (
	"time"

	"draw-poker/internal/config"
	appErr "draw-poker/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const ScopeSession = "session"

type Claims struct {
	Identity string `json:"identity"`
	Scope    string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a token binding the bearer to identity.
func GenerateSessionToken(identity string) (string, time.Time, error) {
	duration := time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour
	expireAt := time.Now().Add(duration)
	claims := Claims{
		Identity: identity,
		Scope:    ScopeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   identity,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.GlobalConfig.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expireAt, nil
}

func ParseSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErr.ErrInvalidToken
		}
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Scope != ScopeSession || claims.Identity == "" {
		return nil, appErr.ErrInvalidToken
	}
	return claims, nil
}
