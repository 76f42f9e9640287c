package controller

import (
	"context"
	"sync"

	"actividades-cli/internal/model"
	"actividades-cli/internal/store"
)

type fakeData struct {
	mu sync.Mutex

	activities []model.Activity
	users      []model.User
	audit      []model.AuditEntry

	listErr   error
	deleteErr error
	editErr   error
	createErr error
	usersErr  error
	auditErr  error

	listCalls int
	deleted   []int64
	edited    []model.EditPayload
	created   []model.CreatePayload
	keys      []string

	// onDelete runs inside DeleteActivity before it returns.
	onDelete func()
}

func (f *fakeData) ListActivities(ctx context.Context) ([]model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Activity(nil), f.activities...), nil
}

func (f *fakeData) DeleteActivity(ctx context.Context, id int64, key string) error {
	if f.onDelete != nil {
		f.onDelete()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	kept := f.activities[:0]
	for _, a := range f.activities {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	f.activities = kept
	return nil
}

func (f *fakeData) EditActivity(ctx context.Context, p model.EditPayload, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.editErr != nil {
		return f.editErr
	}
	f.edited = append(f.edited, p)
	for i := range f.activities {
		if f.activities[i].ID == p.ID {
			f.activities[i].State = p.State
		}
	}
	return nil
}

func (f *fakeData) CreateActivity(ctx context.Context, p model.CreatePayload, key string) (model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.createErr != nil {
		return model.Activity{}, f.createErr
	}
	f.created = append(f.created, p)
	desc := p.Description
	a := model.Activity{ID: int64(100 + len(f.created)), Description: &desc, Priority: p.Priority, State: p.State}
	f.activities = append(f.activities, a)
	return a, nil
}

func (f *fakeData) ListUsers(ctx context.Context) ([]model.User, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakeData) ListAudit(ctx context.Context) ([]model.AuditEntry, error) {
	if f.auditErr != nil {
		return nil, f.auditErr
	}
	return f.audit, nil
}

type note struct {
	sev Severity
	msg string
}

type recNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recNotifier) Notify(sev Severity, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{sev, msg})
}

func (r *recNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

// heldConfirmer keeps the last prompt so the test can accept or reject it.
type heldConfirmer struct {
	prompts []Prompt
	accept  func(ctx context.Context)
}

func (c *heldConfirmer) Confirm(p Prompt, accept func(ctx context.Context)) {
	c.prompts = append(c.prompts, p)
	c.accept = accept
}

type recDialogs struct{ opened []Dialog }

func (d *recDialogs) Open(dl Dialog) { d.opened = append(d.opened, dl) }

type recRouter struct{ routes []Route }

func (r *recRouter) Navigate(route Route) { r.routes = append(r.routes, route) }

type recJournal struct {
	mu      sync.Mutex
	entries []store.JournalEntry
}

func (j *recJournal) Record(ctx context.Context, e store.JournalEntry) (store.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return e, nil
}

type fakeAuth struct {
	token    string
	loginErr error
	setErr   error
	roles    map[model.Role]bool

	loginCalls int
	stored     string
	storedUser string
}

func (a *fakeAuth) Login(ctx context.Context, username, password string) (model.LoginResult, error) {
	a.loginCalls++
	if a.loginErr != nil {
		return model.LoginResult{}, a.loginErr
	}
	return model.LoginResult{Token: a.token}, nil
}

func (a *fakeAuth) SetSession(token, username string) error {
	if a.setErr != nil {
		return a.setErr
	}
	a.stored = token
	a.storedUser = username
	return nil
}

func (a *fakeAuth) HasRole(role model.Role) bool { return a.roles[role] }

func strPtr(s string) *string { return &s }

// sampleRecords is the two-record fixture used across the view tests.
func sampleRecords() []model.Activity {
	return []model.Activity{
		{ID: 1, Description: strPtr("Fix bug"), Priority: "High", State: model.StatePending, CurrentUser: &model.UserRef{ID: 9, Name: "ana"}},
		{ID: 2, Description: strPtr("Write docs"), Priority: "Low", State: model.StatePending},
	}
}
