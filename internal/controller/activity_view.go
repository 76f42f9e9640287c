package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"actividades-cli/internal/filter"
	"actividades-cli/internal/logging"
	"actividades-cli/internal/model"
	"actividades-cli/internal/mutate"
	"actividades-cli/internal/store"

	"github.com/google/uuid"
)

// ErrBusy is returned when a mutation is requested while another one is in flight.
var ErrBusy = errors.New("another operation is in progress")

// ErrNotPermitted is returned when the view's role does not offer the action.
var ErrNotPermitted = errors.New("action not permitted for role")

// ErrValidation wraps form errors caught before any backend call.
var ErrValidation = errors.New("invalid activity form")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseLoadError
	PhaseMutating
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseLoadError:
		return "load-error"
	case PhaseMutating:
		return "mutating"
	default:
		return "idle"
	}
}

type Action int

const (
	ActionCreate Action = iota
	ActionEdit
	ActionRemove
	ActionFinalize
	ActionAudit
)

type Deps struct {
	Data      DataService
	Notifier  Notifier
	Confirmer Confirmer
	Dialogs   DialogHost
	// Journal is optional.
	Journal Recorder
	// NewKey generates idempotency keys for mutations. Defaults to UUIDv4.
	NewKey func() string
}

// ActivityView drives one activities screen: fetch, display transform, filter,
// mutate and refetch.
type ActivityView struct {
	role  model.Role
	deps  Deps
	cache activityCache

	mu        sync.Mutex
	phase     Phase
	query     string
	displayed []model.Activity
	inFlight  bool
}

func NewActivityView(role model.Role, deps Deps) *ActivityView {
	if deps.NewKey == nil {
		deps.NewKey = uuid.NewString
	}
	return &ActivityView{role: role, deps: deps}
}

func (v *ActivityView) Role() model.Role { return v.role }

// Can reports whether the role offers action. Admins manage activities,
// executors finalize them and read the audit trail; both may delete.
func (v *ActivityView) Can(a Action) bool {
	switch v.role {
	case model.RoleAdmin:
		switch a {
		case ActionCreate, ActionEdit, ActionRemove:
			return true
		}
	case model.RoleExecutor:
		switch a {
		case ActionFinalize, ActionRemove, ActionAudit:
			return true
		}
	}
	return false
}

func (v *ActivityView) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

func (v *ActivityView) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Displayed returns a copy of the currently displayed (filtered) list.
func (v *ActivityView) Displayed() []model.Activity {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Activity(nil), v.displayed...)
}

// Canonical returns a copy of the last fetched list.
func (v *ActivityView) Canonical() []model.Activity {
	return v.cache.Snapshot()
}

// Find looks up id in the canonical list.
func (v *ActivityView) Find(id int64) (*model.Activity, bool) {
	for _, a := range v.cache.Snapshot() {
		if a.ID == id {
			a := a
			return &a, true
		}
	}
	return nil, false
}

// Transform fills the display-only Responsible field from the assigned user.
func Transform(list []model.Activity) []model.Activity {
	out := make([]model.Activity, len(list))
	for i, a := range list {
		a.Responsible = a.AssignedUserName()
		out[i] = a
	}
	return out
}

func (v *ActivityView) setPhase(p Phase) {
	v.mu.Lock()
	v.phase = p
	v.mu.Unlock()
}

// Load fetches all activities and replaces the canonical list.
func (v *ActivityView) Load(ctx context.Context) error {
	ctx = logging.WithAttrs(ctx, "role", v.role.String())
	v.setPhase(PhaseLoading)

	list, err := v.deps.Data.ListActivities(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list activities failed", "err", err)
		v.setPhase(PhaseLoadError)
		v.notify(SeverityError, msgLoadActivitiesFailed)
		return err
	}
	list = Transform(list)
	v.cache.Replace(list)

	v.mu.Lock()
	if v.role == model.RoleAdmin {
		v.query = ""
		v.displayed = v.cache.Snapshot()
	} else {
		v.displayed = filter.Activities(v.cache.Snapshot(), v.query)
	}
	v.phase = PhaseLoaded
	v.mu.Unlock()
	slog.DebugContext(ctx, "activities loaded", "count", len(list))
	return nil
}

// Search replaces the displayed list with the canonical records matching query.
func (v *ActivityView) Search(query string) []model.Activity {
	canonical := v.cache.Snapshot()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	v.displayed = filter.Activities(canonical, query)
	return append([]model.Activity(nil), v.displayed...)
}

// ConfirmRemove asks for confirmation and then runs Remove.
func (v *ActivityView) ConfirmRemove(selected *model.Activity) {
	if !v.RequireSelection(ActionRemove, selected) {
		return
	}
	sel := *selected
	v.confirm(deletePrompt, func(ctx context.Context) { _ = v.Remove(ctx, &sel) })
}

// ConfirmFinalize asks for confirmation and then runs Finalize.
func (v *ActivityView) ConfirmFinalize(selected *model.Activity) {
	if !v.RequireSelection(ActionFinalize, selected) {
		return
	}
	sel := *selected
	v.confirm(finalizePrompt, func(ctx context.Context) { _ = v.Finalize(ctx, &sel) })
}

func (v *ActivityView) confirm(p Prompt, accept func(ctx context.Context)) {
	if v.deps.Confirmer == nil {
		return
	}
	v.deps.Confirmer.Confirm(p, accept)
}

// RequireSelection warns with the action's "select an activity" message and
// returns false when sel is nil.
func (v *ActivityView) RequireSelection(a Action, sel *model.Activity) bool {
	if sel != nil {
		return true
	}
	switch a {
	case ActionEdit:
		v.notify(SeverityWarn, msgSelectToEdit)
	case ActionFinalize:
		v.notify(SeverityWarn, msgSelectToFinalize)
	default:
		v.notify(SeverityWarn, msgSelectToDelete)
	}
	return false
}

// Remove deletes selected and refetches on success.
func (v *ActivityView) Remove(ctx context.Context, selected *model.Activity) error {
	if !v.RequireSelection(ActionRemove, selected) {
		return mutate.ErrNoSelection
	}
	if !v.Can(ActionRemove) {
		v.notify(SeverityWarn, msgNotPermitted)
		return ErrNotPermitted
	}
	id := selected.ID
	return v.mutate(ctx, "delete", &id, msgDeleted, msgDeleteFailed, func(ctx context.Context, key string) error {
		return v.deps.Data.DeleteActivity(ctx, id, key)
	})
}

// Finalize sends the FINALIZADO payload for selected and refetches on success.
func (v *ActivityView) Finalize(ctx context.Context, selected *model.Activity) error {
	payload, err := mutate.Finalize(selected)
	if err != nil {
		v.RequireSelection(ActionFinalize, selected)
		return err
	}
	if !v.Can(ActionFinalize) {
		v.notify(SeverityWarn, msgNotPermitted)
		return ErrNotPermitted
	}
	if selected.State.IsTerminal() {
		slog.DebugContext(ctx, "finalizing an already finalized activity", "id", selected.ID)
	}
	return v.mutate(ctx, "finalize", &payload.ID, msgModified, msgFinalizeFailed, func(ctx context.Context, key string) error {
		return v.deps.Data.EditActivity(ctx, payload, key)
	})
}

// Create validates f, sends it and refetches on success. It returns the
// record as echoed by the backend.
func (v *ActivityView) Create(ctx context.Context, f mutate.Form) (model.Activity, error) {
	if !v.Can(ActionCreate) {
		v.notify(SeverityWarn, msgNotPermitted)
		return model.Activity{}, ErrNotPermitted
	}
	payload, err := mutate.Create(f)
	if err != nil {
		v.notifyFormError(err)
		return model.Activity{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	var created model.Activity
	err = v.mutate(ctx, "create", nil, msgCreated, msgSaveFailed, func(ctx context.Context, key string) error {
		var err error
		created, err = v.deps.Data.CreateActivity(ctx, payload, key)
		return err
	})
	if err != nil {
		return model.Activity{}, err
	}
	return created, nil
}

// Edit validates f against selected, sends it and refetches on success.
func (v *ActivityView) Edit(ctx context.Context, selected *model.Activity, f mutate.Form) error {
	if !v.RequireSelection(ActionEdit, selected) {
		return mutate.ErrNoSelection
	}
	if !v.Can(ActionEdit) {
		v.notify(SeverityWarn, msgNotPermitted)
		return ErrNotPermitted
	}
	payload, err := mutate.Edit(selected, f)
	if err != nil {
		v.notifyFormError(err)
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.mutate(ctx, "edit", &payload.ID, msgModified, msgSaveFailed, func(ctx context.Context, key string) error {
		return v.deps.Data.EditActivity(ctx, payload, key)
	})
}

func (v *ActivityView) notifyFormError(err error) {
	if errors.Is(err, mutate.ErrDescriptionRequired) {
		v.notify(SeverityWarn, msgDescRequired)
		return
	}
	v.notify(SeverityWarn, msgInvalidForm)
}

// mutate runs call under the in-flight guard. On success the cache is
// invalidated and reloaded before the success toast; on failure the view keeps
// its previous list and phase.
func (v *ActivityView) mutate(ctx context.Context, action string, id *int64, okMsg, failMsg string, call func(ctx context.Context, key string) error) error {
	v.mu.Lock()
	if v.inFlight {
		v.mu.Unlock()
		v.notify(SeverityWarn, msgBusy)
		return ErrBusy
	}
	v.inFlight = true
	prev := v.phase
	v.phase = PhaseMutating
	v.mu.Unlock()

	key := v.deps.NewKey()
	ctx = logging.WithAttrs(ctx, "op", action, "role", v.role.String(), "idempotency_key", key)
	if id != nil {
		ctx = logging.WithAttrs(ctx, "id", *id)
	}

	err := call(ctx, key)
	v.record(ctx, action, id, key, err)

	v.mu.Lock()
	v.inFlight = false
	if err != nil {
		v.phase = prev
	}
	v.mu.Unlock()

	if err != nil {
		slog.ErrorContext(ctx, "mutation failed", "err", err)
		v.notify(SeverityError, failMsg)
		return err
	}
	slog.InfoContext(ctx, "mutation applied")
	v.cache.Invalidate()
	_ = v.Load(ctx)
	v.notify(SeveritySuccess, okMsg)
	return nil
}

func (v *ActivityView) record(ctx context.Context, action string, id *int64, key string, callErr error) {
	if v.deps.Journal == nil {
		return
	}
	e := store.JournalEntry{
		Action:         action,
		ActivityID:     id,
		Role:           v.role.String(),
		Outcome:        store.OutcomeOK,
		IdempotencyKey: key,
	}
	if callErr != nil {
		e.Outcome = store.OutcomeError
		e.Detail = callErr.Error()
	}
	if _, err := v.deps.Journal.Record(ctx, e); err != nil {
		slog.WarnContext(ctx, "journal record failed", "err", err)
	}
}

// ShowUsersByRole opens one info dialog per user with exactly role.
func (v *ActivityView) ShowUsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	ctx = logging.WithAttrs(ctx, "op", "users-by-role", "role", role.String())
	users, err := v.deps.Data.ListUsers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list users failed", "err", err)
		v.notify(SeverityError, msgLoadUsersFailed)
		return nil, err
	}
	slog.DebugContext(ctx, "users fetched", "count", len(users))

	matches := UsersWithRole(users, role)
	if len(matches) == 0 {
		slog.DebugContext(ctx, "no users with role")
		v.notify(SeverityWarn, noUsersMessage(role))
		return matches, nil
	}
	for i := range matches {
		u := matches[i]
		if v.deps.Dialogs != nil {
			v.deps.Dialogs.Open(Dialog{Kind: DialogUserInfo, User: &u})
		}
	}
	return matches, nil
}

// UsersWithRole keeps users whose role equals role, preserving order.
func UsersWithRole(users []model.User, role model.Role) []model.User {
	out := []model.User{}
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

func noUsersMessage(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return msgNoAdmins
	case model.RoleExecutor:
		return msgNoExecutors
	default:
		return msgNoUsers
	}
}

// Audit returns the backend audit trail.
func (v *ActivityView) Audit(ctx context.Context) ([]model.AuditEntry, error) {
	if !v.Can(ActionAudit) {
		v.notify(SeverityWarn, msgNotPermitted)
		return nil, ErrNotPermitted
	}
	entries, err := v.deps.Data.ListAudit(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list audit failed", "err", err)
		v.notify(SeverityError, msgLoadAuditFailed)
		return nil, err
	}
	return entries, nil
}

func (v *ActivityView) notify(sev Severity, msg string) {
	if v.deps.Notifier != nil {
		v.deps.Notifier.Notify(sev, msg)
	}
}
