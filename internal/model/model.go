package model

import (
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle state of an activity as sent by the backend.
//
// Unknown values are preserved verbatim so that newer backends don't break
// older clients.
type State string

const (
	StatePending    State = "PENDIENTE"
	StateInProgress State = "EN_PROGRESO"
	StateFinalized  State = "FINALIZADO"
)

// IsTerminal reports whether the executor workflow considers s finished.
func (s State) IsTerminal() bool { return s == StateFinalized }

func (s State) String() string { return string(s) }

// Role is the closed set of user roles known to the client.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleExecutor
)

const (
	roleAdminWire    = "ADMINISTRADOR"
	roleExecutorWire = "EJECUTOR"
)

// ParseRole maps a wire role string to a Role. Matching is exact, as the
// backend always sends upper-case role names.
func ParseRole(s string) Role {
	switch s {
	case roleAdminWire:
		return RoleAdmin
	case roleExecutorWire:
		return RoleExecutor
	default:
		return RoleUnknown
	}
}

// ParseRoleFlag is the lenient variant used for user input (flags, TUI).
func ParseRoleFlag(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador":
		return RoleAdmin, nil
	case "ejecutor", "executor":
		return RoleExecutor, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role: %q (expected admin|ejecutor)", s)
	}
}

// Wire returns the backend representation of r.
func (r Role) Wire() string {
	switch r {
	case RoleAdmin:
		return roleAdminWire
	case RoleExecutor:
		return roleExecutorWire
	default:
		return ""
	}
}

// Label is the human-facing role name shown in welcome dialogs.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleExecutor:
		return "Ejecutor"
	default:
		return "Usuario"
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleExecutor:
		return "ejecutor"
	default:
		return "unknown"
	}
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.Wire()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}

// UserRef is a weak reference to the user currently assigned to an activity.
type UserRef struct {
	ID   int64  `json:"idUsuario"`
	Name string `json:"nombreUsuario"`
}

type Activity struct {
	ID          int64    `json:"idActividad"`
	Description *string  `json:"descripcion"`
	Priority    string   `json:"prioridad"`
	State       State    `json:"estado"`
	CurrentUser *UserRef `json:"idUsuarioActual"`

	// Responsible is a display-only field derived from CurrentUser.
	Responsible string `json:"responsable,omitempty"`
}

// DescriptionText returns the description or "" when absent.
func (a Activity) DescriptionText() string {
	if a.Description == nil {
		return ""
	}
	return *a.Description
}

// AssignedUserName returns the assigned user's display name or "".
func (a Activity) AssignedUserName() string {
	if a.CurrentUser == nil {
		return ""
	}
	return a.CurrentUser.Name
}

type User struct {
	ID    int64  `json:"idUsuario"`
	Name  string `json:"nombreUsuario"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"rol"`
}

// EditPayload is the body of PUT /actividades.
type EditPayload struct {
	ID             int64  `json:"idActividad"`
	Description    string `json:"descripcion"`
	AssignedUserID *int64 `json:"idUsuarioActual"`
	Priority       string `json:"prioridad"`
	State          State  `json:"estado"`
}

// CreatePayload is the body of POST /actividades.
type CreatePayload struct {
	Description    string `json:"descripcion"`
	AssignedUserID *int64 `json:"idUsuarioActual"`
	Priority       string `json:"prioridad"`
	State          State  `json:"estado"`
}

// AuditEntry is one row of the backend audit trail for activities.
type AuditEntry struct {
	ID          int64     `json:"idAuditoria"`
	ActivityID  int64     `json:"idActividad"`
	Description string    `json:"descripcion,omitempty"`
	State       State     `json:"estado"`
	UserName    string    `json:"nombreUsuario,omitempty"`
	ChangedAt   time.Time `json:"fecha"`
}

type LoginRequest struct {
	Username string `json:"nombreUsuario"`
	Password string `json:"clave"`
}

type LoginResult struct {
	Token string `json:"token"`
}
