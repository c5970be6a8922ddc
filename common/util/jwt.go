package util

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/type/shared"
)

func GenerateAuthToken(id string) (string, error) {
	expirationTime := time.Now().Add(time.Hour * 24 * 2) // 2 days

	claims := &shared.UserClaims{
		UserId: &id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(*common.Config.JWTSecret))
}

func DecodeAuthToken(tokenString string) (*shared.UserClaims, error) {
	claims := new(shared.UserClaims)

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(*common.Config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
