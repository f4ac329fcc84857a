package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, exp, err := GenerateToken(RoleBishopric, secret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	role, err := GetRoleFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, RoleBishopric, role)
}

func TestGetRoleFromToken_Expired(t *testing.T) {
	t.Parallel()

	tok, _, err := GenerateToken(RoleClerk, []byte("secret"), -1*time.Minute)
	require.NoError(t, err)

	_, err = GetRoleFromToken(tok, []byte("secret"))
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetRoleFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := GenerateToken(RoleClerk, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = GetRoleFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetRoleFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetRoleFromToken("not.a.jwt", []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetRoleFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Role:             RoleBishopric,
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = GetRoleFromToken(tok, []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetRoleFromToken_MissingRole(t *testing.T) {
	t.Parallel()

	tok, _, err := GenerateToken("", []byte("k"), time.Hour)
	require.NoError(t, err)

	_, err = GetRoleFromToken(tok, []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
