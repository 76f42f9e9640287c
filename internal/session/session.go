// Package session persists the login token and answers role questions about it.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"actividades-cli/internal/model"
	"actividades-cli/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no token has been stored.
var ErrNoSession = errors.New("not logged in; run `actividades login`")

// ErrInvalidToken wraps token decoding failures.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the subset of the backend token the client relies on.
type Claims struct {
	Subject   string
	Username  string
	Roles     map[model.Role]struct{}
	ExpiresAt time.Time
}

// HasRole reports whether the claim set includes role.
func (c *Claims) HasRole(role model.Role) bool {
	if c == nil {
		return false
	}
	_, ok := c.Roles[role]
	return ok
}

// PrimaryRole picks the role used for routing: admin wins over executor.
func (c *Claims) PrimaryRole() model.Role {
	switch {
	case c.HasRole(model.RoleAdmin):
		return model.RoleAdmin
	case c.HasRole(model.RoleExecutor):
		return model.RoleExecutor
	default:
		return model.RoleUnknown
	}
}

// SortedRoles returns the known roles in the claim set, admin first.
func (c *Claims) SortedRoles() []model.Role {
	out := []model.Role{}
	for _, r := range []model.Role{model.RoleAdmin, model.RoleExecutor} {
		if c.HasRole(r) {
			out = append(out, r)
		}
	}
	return out
}

// Decode reads the token claims without verifying the signature. The client
// never holds the signing key; the backend re-validates the token on every call.
func Decode(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoSession
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	out := &Claims{Roles: map[model.Role]struct{}{}}
	out.Subject, _ = claims.GetSubject()
	for _, k := range []string{"nombreUsuario", "username", "name"} {
		if s, ok := claims[k].(string); ok && s != "" {
			out.Username = s
			break
		}
	}
	for _, k := range []string{"rol", "roles", "role"} {
		for r := range normalizeRoles(claims[k]) {
			out.Roles[r] = struct{}{}
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func normalizeRoles(value any) map[model.Role]struct{} {
	out := map[model.Role]struct{}{}
	add := func(s string) {
		if r := model.ParseRole(strings.ToUpper(strings.TrimSpace(s))); r != model.RoleUnknown {
			out[r] = struct{}{}
		}
	}
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			switch x := item.(type) {
			case string:
				add(x)
			case map[string]any:
				// Spring-style authorities: [{"authority": "ADMINISTRADOR"}]
				if s, ok := x["authority"].(string); ok {
					add(strings.TrimPrefix(s, "ROLE_"))
				}
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	case string:
		for _, s := range strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' }) {
			add(s)
		}
	}
	return out
}

// Manager is the Authenticator-side token holder backed by the config file.
type Manager struct {
	now func() time.Time
}

func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// SetSession stores token (and the username it belongs to) in the config file.
func (m *Manager) SetSession(token, username string) error {
	if _, err := Decode(token); err != nil {
		return err
	}
	return store.UpdateConfig(func(cfg *store.GlobalConfig) {
		cfg.Session = &store.Session{
			Token:    strings.TrimSpace(token),
			Username: strings.TrimSpace(username),
			SavedAt:  m.now().UTC(),
		}
	})
}

// Clear removes the stored session.
func (m *Manager) Clear() error {
	return store.UpdateConfig(func(cfg *store.GlobalConfig) {
		cfg.Session = nil
	})
}

// Token returns the stored token, rejecting expired ones.
func (m *Manager) Token() (string, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Session == nil || strings.TrimSpace(cfg.Session.Token) == "" {
		return "", ErrNoSession
	}
	claims, err := Decode(cfg.Session.Token)
	if err != nil {
		return "", err
	}
	if !claims.ExpiresAt.IsZero() && !m.now().Before(claims.ExpiresAt) {
		return "", fmt.Errorf("%w: session expired at %s", ErrNoSession, claims.ExpiresAt.Format(time.RFC3339))
	}
	return cfg.Session.Token, nil
}

// Claims decodes the stored token.
func (m *Manager) Claims() (*Claims, error) {
	tok, err := m.Token()
	if err != nil {
		return nil, err
	}
	return Decode(tok)
}

// HasRole reports whether the stored session carries role.
func (m *Manager) HasRole(role model.Role) bool {
	c, err := m.Claims()
	if err != nil {
		return false
	}
	return c.HasRole(role)
}
