package session

import (
	"context"

	"actividades-cli/internal/model"
)

// LoginClient is the backend login call. *api.Client implements it.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (model.LoginResult, error)
}

// Authenticator joins the backend login call with the persisted session.
type Authenticator struct {
	*Manager
	client LoginClient
}

func NewAuthenticator(client LoginClient, m *Manager) *Authenticator {
	if m == nil {
		m = NewManager()
	}
	return &Authenticator{Manager: m, client: client}
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (model.LoginResult, error) {
	return a.client.Login(ctx, username, password)
}
