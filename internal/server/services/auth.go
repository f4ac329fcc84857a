package services

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/secrets"
	"github.com/dmitrijs2005/wardminutes/internal/server/auth"
	"github.com/dmitrijs2005/wardminutes/internal/server/config"
)

// Token is an issued access token.
type Token struct {
	AccessToken string
	Role        string
	ExpiresAt   time.Time
}

// AuthService trades a PIN for an access token carrying the PIN's role.
type AuthService struct {
	pins                        secrets.PINs
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		pins:                        cfg.PINs,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func pinMatches(configured, candidate string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(candidate)) == 1
}

// Authenticate returns common.ErrorUnauthorized for an unknown PIN. Both
// PINs are always compared.
func (s *AuthService) Authenticate(ctx context.Context, pin string) (*Token, error) {
	bishopric := pinMatches(s.pins.Bishopric, pin)
	clerk := pinMatches(s.pins.Clerk, pin)

	var role string
	switch {
	case bishopric:
		role = auth.RoleBishopric
	case clerk:
		role = auth.RoleClerk
	default:
		return nil, common.ErrorUnauthorized
	}

	tok, exp, err := auth.GenerateToken(role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: tok, Role: role, ExpiresAt: exp}, nil
}
