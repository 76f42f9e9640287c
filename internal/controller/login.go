package controller

import (
	"context"
	"errors"
	"log/slog"

	"actividades-cli/internal/logging"
	"actividades-cli/internal/model"
)

// ErrMissingFields is returned by Submit when the username or password is empty.
var ErrMissingFields = errors.New("username and password are required")

// LoginForm is the two-field login form. Touched drives error display in the TUI.
type LoginForm struct {
	Username string
	Password string

	UsernameTouched bool
	PasswordTouched bool
}

// Valid reports whether both fields are non-empty. Whitespace is not trimmed.
func (f *LoginForm) Valid() bool {
	return f.Username != "" && f.Password != ""
}

func (f *LoginForm) MarkAllTouched() {
	f.UsernameTouched = true
	f.PasswordTouched = true
}

// UsernameError reports whether the username field should show its error.
func (f *LoginForm) UsernameError() bool { return f.UsernameTouched && f.Username == "" }

func (f *LoginForm) PasswordError() bool { return f.PasswordTouched && f.Password == "" }

type Login struct {
	Auth     Authenticator
	Notifier Notifier
	Router   Router
	Dialogs  DialogHost
}

// Submit authenticates with the form credentials, stores the session and
// routes by role. It returns the route navigated to.
func (l *Login) Submit(ctx context.Context, form *LoginForm) (Route, error) {
	if !form.Valid() {
		form.MarkAllTouched()
		l.notify(SeverityError, msgLoginMissingFields)
		return RouteHome, ErrMissingFields
	}
	ctx = logging.WithAttrs(ctx, "op", "login", "user", form.Username)

	res, err := l.Auth.Login(ctx, form.Username, form.Password)
	if err != nil {
		slog.WarnContext(ctx, "login failed", "err", err)
		l.notify(SeverityError, msgLoginFailed)
		return RouteHome, err
	}
	if err := l.Auth.SetSession(res.Token, form.Username); err != nil {
		slog.ErrorContext(ctx, "store session failed", "err", err)
		l.notify(SeverityError, msgSessionSaveFailed)
		return RouteHome, err
	}

	role := l.resolveRole()
	route := RouteFor(role)
	slog.InfoContext(ctx, "logged in", "role", role.String(), "route", string(route))
	if l.Router != nil {
		l.Router.Navigate(route)
	}
	if l.Dialogs != nil {
		l.Dialogs.Open(Dialog{
			Kind:    DialogWelcome,
			Welcome: &Welcome{Username: form.Username, RoleLabel: role.Label()},
		})
	}
	return route, nil
}

// resolveRole checks admin first so a token carrying both roles lands on the admin view.
func (l *Login) resolveRole() model.Role {
	switch {
	case l.Auth.HasRole(model.RoleAdmin):
		return model.RoleAdmin
	case l.Auth.HasRole(model.RoleExecutor):
		return model.RoleExecutor
	default:
		return model.RoleUnknown
	}
}

// RouteFor maps a role to its landing route.
func RouteFor(role model.Role) Route {
	switch role {
	case model.RoleAdmin:
		return RouteAdmin
	case model.RoleExecutor:
		return RouteExecutor
	default:
		return RouteHome
	}
}

func (l *Login) notify(sev Severity, msg string) {
	if l.Notifier != nil {
		l.Notifier.Notify(sev, msg)
	}
}
