package controller

import (
	"context"

	"actividades-cli/internal/model"
	"actividades-cli/internal/store"
)

// DataService is the backend as seen by the views.
type DataService interface {
	ListActivities(ctx context.Context) ([]model.Activity, error)
	DeleteActivity(ctx context.Context, id int64, idempotencyKey string) error
	EditActivity(ctx context.Context, p model.EditPayload, idempotencyKey string) error
	CreateActivity(ctx context.Context, p model.CreatePayload, idempotencyKey string) (model.Activity, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListAudit(ctx context.Context) ([]model.AuditEntry, error)
}

// Authenticator performs the login call and owns the resulting session.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (model.LoginResult, error)
	SetSession(token, username string) error
	HasRole(role model.Role) bool
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notifier is a fire-and-forget toast sink.
type Notifier interface {
	Notify(sev Severity, message string)
}

type Prompt struct {
	Header      string
	Message     string
	AcceptLabel string
	RejectLabel string
}

// Confirmer asks the user to accept or reject a prompt. accept runs only when
// the user accepts; rejecting does nothing. Implementations may call accept
// later (modal UIs) or synchronously (terminal prompts).
type Confirmer interface {
	Confirm(p Prompt, accept func(ctx context.Context))
}

type DialogKind int

const (
	DialogUserInfo DialogKind = iota
	DialogWelcome
)

type Welcome struct {
	Username  string
	RoleLabel string
}

type Dialog struct {
	Kind    DialogKind
	User    *model.User
	Welcome *Welcome
}

// DialogHost opens informational dialogs. Their close result is not used.
type DialogHost interface {
	Open(d Dialog)
}

type Route string

const (
	RouteHome     Route = ""
	RouteAdmin    Route = "admin"
	RouteExecutor Route = "ejecutor"
)

type Router interface {
	Navigate(r Route)
}

// Recorder receives the outcome of every mutation. store.Journal implements it.
type Recorder interface {
	Record(ctx context.Context, e store.JournalEntry) (store.JournalEntry, error)
}
