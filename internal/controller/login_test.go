package controller

import (
	"context"
	"errors"
	"testing"

	"actividades-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginMissingFields(t *testing.T) {
	t.Parallel()

	cases := []LoginForm{
		{},
		{Username: "ana"},
		{Password: "ana"},
	}
	for _, form := range cases {
		form := form
		auth := &fakeAuth{}
		notes := &recNotifier{}
		router := &recRouter{}
		l := &Login{Auth: auth, Notifier: notes, Router: router}

		route, err := l.Submit(context.Background(), &form)
		require.ErrorIs(t, err, ErrMissingFields)
		assert.Equal(t, RouteHome, route)
		assert.True(t, form.UsernameTouched)
		assert.True(t, form.PasswordTouched)
		assert.Equal(t, 0, auth.loginCalls)
		assert.Empty(t, router.routes)
		assert.Equal(t, []note{{SeverityError, msgLoginMissingFields}}, notes.all())
	}
}

func TestLoginWhitespaceIsNotTrimmed(t *testing.T) {
	t.Parallel()

	form := LoginForm{Username: " ", Password: " "}
	assert.True(t, form.Valid())
}

func TestLoginRoutesByRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		roles map[model.Role]bool
		route Route
		label string
	}{
		{"admin", map[model.Role]bool{model.RoleAdmin: true}, RouteAdmin, "Administrador"},
		{"executor", map[model.Role]bool{model.RoleExecutor: true}, RouteExecutor, "Ejecutor"},
		{"both prefers admin", map[model.Role]bool{model.RoleAdmin: true, model.RoleExecutor: true}, RouteAdmin, "Administrador"},
		{"none", nil, RouteHome, "Usuario"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			auth := &fakeAuth{token: "tok", roles: tc.roles}
			notes := &recNotifier{}
			router := &recRouter{}
			dialogs := &recDialogs{}
			l := &Login{Auth: auth, Notifier: notes, Router: router, Dialogs: dialogs}

			form := &LoginForm{Username: "ana", Password: "secret"}
			route, err := l.Submit(context.Background(), form)
			require.NoError(t, err)
			assert.Equal(t, tc.route, route)
			assert.Equal(t, "tok", auth.stored)
			assert.Equal(t, "ana", auth.storedUser)
			assert.Equal(t, []Route{tc.route}, router.routes)
			require.Len(t, dialogs.opened, 1)
			assert.Equal(t, DialogWelcome, dialogs.opened[0].Kind)
			assert.Equal(t, Welcome{Username: "ana", RoleLabel: tc.label}, *dialogs.opened[0].Welcome)
			assert.Empty(t, notes.all())
		})
	}
}

func TestLoginFailure(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{loginErr: errors.New("401")}
	notes := &recNotifier{}
	router := &recRouter{}
	l := &Login{Auth: auth, Notifier: notes, Router: router}

	_, err := l.Submit(context.Background(), &LoginForm{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.Empty(t, auth.stored)
	assert.Empty(t, router.routes)
	assert.Equal(t, []note{{SeverityError, msgLoginFailed}}, notes.all())
}

func TestLoginSessionSaveFailure(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{token: "tok", setErr: errors.New("disk")}
	notes := &recNotifier{}
	router := &recRouter{}
	l := &Login{Auth: auth, Notifier: notes, Router: router}

	_, err := l.Submit(context.Background(), &LoginForm{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.Empty(t, router.routes)
	assert.Equal(t, []note{{SeverityError, msgSessionSaveFailed}}, notes.all())
}

func TestRouteFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RouteAdmin, RouteFor(model.RoleAdmin))
	assert.Equal(t, RouteExecutor, RouteFor(model.RoleExecutor))
	assert.Equal(t, RouteHome, RouteFor(model.RoleUnknown))
}
