// Package auth issues and verifies the HS256 access tokens handed out by
// Authenticate. A token carries the caller's role and nothing else.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleClerk     = "clerk"
	RoleBishopric = "bishopric"
)

// Claims are the registered claims plus the caller's role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// GenerateToken signs a token for role valid for validityDuration from now.
func GenerateToken(role string, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(validityDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// GetRoleFromToken verifies tokenString and returns its role claim.
// Expired tokens give common.ErrTokenExpired, anything else that fails
// verification gives common.ErrInvalidToken.
func GetRoleFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", common.ErrTokenExpired
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Role == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Role, nil
}
