// Package services contains the client's application services: the
// per-kind synchronization facade (RecordStore), form sessions with
// auto-save, import/export and backup, and PIN login.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
)

// AuthService covers PIN login and server liveness.
type AuthService interface {
	Login(ctx context.Context, pin string) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

// Login exchanges pin for an access token held by the client and returns
// the granted role.
func (a *authService) Login(ctx context.Context, pin string) (string, error) {
	if a.client == nil {
		return "", ErrNoRemote
	}
	role, err := a.client.Authenticate(ctx, pin)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return "", client.ErrUnauthorized
		}
		return "", err
	}
	return role, nil
}

func (a *authService) Ping(ctx context.Context) error {
	if a.client == nil {
		return ErrNoRemote
	}
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}
