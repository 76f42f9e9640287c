package controller

import (
	"context"
	"errors"
	"testing"

	"actividades-cli/internal/model"
	"actividades-cli/internal/mutate"
	"actividades-cli/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewFixture struct {
	view    *ActivityView
	data    *fakeData
	notes   *recNotifier
	confirm *heldConfirmer
	dialogs *recDialogs
	journal *recJournal
}

func newFixture(t *testing.T, role model.Role) *viewFixture {
	t.Helper()
	f := &viewFixture{
		data:    &fakeData{activities: sampleRecords()},
		notes:   &recNotifier{},
		confirm: &heldConfirmer{},
		dialogs: &recDialogs{},
		journal: &recJournal{},
	}
	n := 0
	f.view = NewActivityView(role, Deps{
		Data:      f.data,
		Notifier:  f.notes,
		Confirmer: f.confirm,
		Dialogs:   f.dialogs,
		Journal:   f.journal,
		NewKey: func() string {
			n++
			return "key-" + string(rune('0'+n))
		},
	})
	return f
}

func TestTransform(t *testing.T) {
	t.Parallel()

	out := Transform(sampleRecords())
	require.Len(t, out, 2)
	assert.Equal(t, "ana", out[0].Responsible)
	assert.Equal(t, "", out[1].Responsible)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	assert.Equal(t, PhaseIdle, f.view.Phase())

	require.NoError(t, f.view.Load(context.Background()))
	assert.Equal(t, PhaseLoaded, f.view.Phase())
	assert.Len(t, f.view.Canonical(), 2)
	assert.Equal(t, "ana", f.view.Displayed()[0].Responsible)
	assert.Empty(t, f.notes.all())
}

func TestLoadError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	f.data.listErr = errors.New("boom")

	err := f.view.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, PhaseLoadError, f.view.Phase())
	assert.Equal(t, []note{{SeverityError, msgLoadActivitiesFailed}}, f.notes.all())
}

func TestLoadQueryHandling(t *testing.T) {
	t.Parallel()

	t.Run("admin resets the query", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleAdmin)
		require.NoError(t, f.view.Load(context.Background()))
		f.view.Search("bug")
		require.Len(t, f.view.Displayed(), 1)

		require.NoError(t, f.view.Load(context.Background()))
		assert.Len(t, f.view.Displayed(), 2)
		assert.Equal(t, "", f.view.Query())
	})

	t.Run("executor keeps the query", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleExecutor)
		require.NoError(t, f.view.Load(context.Background()))
		f.view.Search("bug")

		require.NoError(t, f.view.Load(context.Background()))
		got := f.view.Displayed()
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, "bug", f.view.Query())
	})
}

func TestSearch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	require.NoError(t, f.view.Load(context.Background()))

	cases := []struct {
		query string
		ids   []int64
	}{
		{"bug", []int64{1}},
		{"ana", []int64{1}},
		{"LOW", []int64{2}},
		{"pendiente", []int64{1, 2}},
		{"", []int64{1, 2}},
		{"nothing", nil},
	}
	for _, tc := range cases {
		got := f.view.Search(tc.query)
		var ids []int64
		for _, a := range got {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, tc.ids, ids, "query %q", tc.query)
	}
	// Search never touches the canonical list.
	assert.Len(t, f.view.Canonical(), 2)
	assert.Equal(t, 1, f.data.listCalls)
}

func TestRemoveWithoutSelection(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	err := f.view.Remove(context.Background(), nil)

	require.ErrorIs(t, err, mutate.ErrNoSelection)
	assert.Empty(t, f.data.deleted)
	assert.Empty(t, f.data.keys)
	assert.Equal(t, []note{{SeverityWarn, msgSelectToDelete}}, f.notes.all())
	assert.Empty(t, f.journal.entries)
}

func TestRemoveSuccessReloads(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))

	sel, ok := f.view.Find(2)
	require.True(t, ok)
	require.NoError(t, f.view.Remove(ctx, sel))

	assert.Equal(t, []int64{2}, f.data.deleted)
	assert.Equal(t, 2, f.data.listCalls)
	assert.Equal(t, PhaseLoaded, f.view.Phase())
	require.Len(t, f.view.Canonical(), 1)
	assert.Equal(t, []note{{SeveritySuccess, msgDeleted}}, f.notes.all())

	require.Len(t, f.journal.entries, 1)
	e := f.journal.entries[0]
	assert.Equal(t, "delete", e.Action)
	assert.Equal(t, store.OutcomeOK, e.Outcome)
	assert.Equal(t, "key-1", e.IdempotencyKey)
	require.NotNil(t, e.ActivityID)
	assert.Equal(t, int64(2), *e.ActivityID)
}

func TestRemoveFailureKeepsList(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))
	f.data.deleteErr = errors.New("500")

	sel, _ := f.view.Find(1)
	err := f.view.Remove(ctx, sel)
	require.Error(t, err)

	assert.Equal(t, 1, f.data.listCalls)
	assert.Len(t, f.view.Canonical(), 2)
	assert.Equal(t, PhaseLoaded, f.view.Phase())
	assert.Equal(t, []note{{SeverityError, msgDeleteFailed}}, f.notes.all())
	require.Len(t, f.journal.entries, 1)
	assert.Equal(t, store.OutcomeError, f.journal.entries[0].Outcome)
	assert.Equal(t, "500", f.journal.entries[0].Detail)
}

func TestFinalizeSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))

	sel, _ := f.view.Find(1)
	require.NoError(t, f.view.Finalize(ctx, sel))

	require.Len(t, f.data.edited, 1)
	p := f.data.edited[0]
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Fix bug", p.Description)
	assert.Equal(t, "High", p.Priority)
	assert.Equal(t, model.StateFinalized, p.State)
	require.NotNil(t, p.AssignedUserID)
	assert.Equal(t, int64(9), *p.AssignedUserID)

	assert.Equal(t, 2, f.data.listCalls)
	got, _ := f.view.Find(1)
	assert.Equal(t, model.StateFinalized, got.State)
	assert.Equal(t, []note{{SeveritySuccess, msgModified}}, f.notes.all())
}

func TestFinalizeUnassigned(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))

	sel, _ := f.view.Find(2)
	require.NoError(t, f.view.Finalize(ctx, sel))
	require.Len(t, f.data.edited, 1)
	assert.Nil(t, f.data.edited[0].AssignedUserID)
}

func TestFinalizeWithoutSelection(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	err := f.view.Finalize(context.Background(), nil)

	require.ErrorIs(t, err, mutate.ErrNoSelection)
	assert.Empty(t, f.data.edited)
	assert.Equal(t, []note{{SeverityWarn, msgSelectToFinalize}}, f.notes.all())
}

func TestFinalizeFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))
	f.data.editErr = errors.New("down")

	sel, _ := f.view.Find(1)
	require.Error(t, f.view.Finalize(ctx, sel))
	assert.Equal(t, 1, f.data.listCalls)
	assert.Equal(t, []note{{SeverityError, msgFinalizeFailed}}, f.notes.all())
}

func TestFinalizeAlreadyFinalized(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	f.data.activities[0].State = model.StateFinalized
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))

	sel, _ := f.view.Find(1)
	require.NoError(t, f.view.Finalize(ctx, sel))
	require.Len(t, f.data.edited, 1)
}

func TestRoleCapabilities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role   model.Role
		action Action
		want   bool
	}{
		{model.RoleAdmin, ActionCreate, true},
		{model.RoleAdmin, ActionEdit, true},
		{model.RoleAdmin, ActionRemove, true},
		{model.RoleAdmin, ActionFinalize, false},
		{model.RoleAdmin, ActionAudit, false},
		{model.RoleExecutor, ActionCreate, false},
		{model.RoleExecutor, ActionEdit, false},
		{model.RoleExecutor, ActionRemove, true},
		{model.RoleExecutor, ActionFinalize, true},
		{model.RoleExecutor, ActionAudit, true},
		{model.RoleUnknown, ActionRemove, false},
	}
	for _, tc := range cases {
		v := NewActivityView(tc.role, Deps{Data: &fakeData{}})
		assert.Equal(t, tc.want, v.Can(tc.action), "%s/%d", tc.role, tc.action)
	}
}

func TestFinalizeNotPermittedForAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))
	sel, _ := f.view.Find(1)

	require.ErrorIs(t, f.view.Finalize(ctx, sel), ErrNotPermitted)
	assert.Empty(t, f.data.edited)
	assert.Equal(t, []note{{SeverityWarn, msgNotPermitted}}, f.notes.all())
}

func TestConfirmRemove(t *testing.T) {
	t.Parallel()

	t.Run("accept runs the delete", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleAdmin)
		ctx := context.Background()
		require.NoError(t, f.view.Load(ctx))
		sel, _ := f.view.Find(1)

		f.view.ConfirmRemove(sel)
		require.Len(t, f.confirm.prompts, 1)
		assert.Equal(t, deletePrompt, f.confirm.prompts[0])
		assert.Empty(t, f.data.deleted)

		f.confirm.accept(ctx)
		assert.Equal(t, []int64{1}, f.data.deleted)
	})

	t.Run("reject does nothing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleAdmin)
		require.NoError(t, f.view.Load(context.Background()))
		sel, _ := f.view.Find(1)

		f.view.ConfirmRemove(sel)
		assert.Empty(t, f.data.deleted)
		assert.Empty(t, f.notes.all())
	})

	t.Run("no selection warns without prompting", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleAdmin)
		f.view.ConfirmRemove(nil)
		assert.Empty(t, f.confirm.prompts)
		assert.Equal(t, []note{{SeverityWarn, msgSelectToDelete}}, f.notes.all())
	})
}

func TestConfirmFinalizeUsesSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))
	sel, _ := f.view.Find(2)

	f.view.ConfirmFinalize(sel)
	require.Len(t, f.confirm.prompts, 1)
	assert.Equal(t, finalizePrompt, f.confirm.prompts[0])

	// Changing the caller's record after prompting does not change the payload.
	sel.Priority = "changed"
	f.confirm.accept(ctx)
	require.Len(t, f.data.edited, 1)
	assert.Equal(t, "Low", f.data.edited[0].Priority)
}

func TestMutationInFlightGuard(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))
	sel, _ := f.view.Find(1)

	var nested error
	f.data.onDelete = func() {
		f.data.onDelete = nil
		assert.Equal(t, PhaseMutating, f.view.Phase())
		nested = f.view.Remove(ctx, sel)
	}
	require.NoError(t, f.view.Remove(ctx, sel))

	require.ErrorIs(t, nested, ErrBusy)
	assert.Equal(t, []int64{1}, f.data.deleted)
	assert.Equal(t, []note{
		{SeverityWarn, msgBusy},
		{SeveritySuccess, msgDeleted},
	}, f.notes.all())
}

func TestCreate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))

	created, err := f.view.Create(ctx, mutate.Form{Description: " New ", Priority: "Media"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	require.Len(t, f.data.created, 1)
	assert.Equal(t, "New", f.data.created[0].Description)
	assert.Equal(t, model.StatePending, f.data.created[0].State)
	assert.Len(t, f.view.Canonical(), 3)
	assert.Equal(t, []note{{SeveritySuccess, msgCreated}}, f.notes.all())
	assert.Equal(t, "create", f.journal.entries[0].Action)
	assert.Nil(t, f.journal.entries[0].ActivityID)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	_, err := f.view.Create(context.Background(), mutate.Form{Description: "  "})

	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, mutate.ErrDescriptionRequired)
	assert.Empty(t, f.data.created)
	assert.Equal(t, []note{{SeverityWarn, msgDescRequired}}, f.notes.all())
}

func TestCreateNotPermittedForExecutor(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	_, err := f.view.Create(context.Background(), mutate.Form{Description: "x"})
	require.ErrorIs(t, err, ErrNotPermitted)
	assert.Empty(t, f.data.created)
}

func TestEdit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))
	sel, _ := f.view.Find(1)

	form := mutate.FormFromActivity(*sel)
	form.State = "en_progreso"
	require.NoError(t, f.view.Edit(ctx, sel, form))

	require.Len(t, f.data.edited, 1)
	assert.Equal(t, model.StateInProgress, f.data.edited[0].State)
	assert.Equal(t, []note{{SeveritySuccess, msgModified}}, f.notes.all())

	f.notes.notes = nil
	require.ErrorIs(t, f.view.Edit(ctx, nil, form), mutate.ErrNoSelection)
	assert.Equal(t, []note{{SeverityWarn, msgSelectToEdit}}, f.notes.all())
}

func TestEditInvalidState(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleAdmin)
	ctx := context.Background()
	require.NoError(t, f.view.Load(ctx))
	sel, _ := f.view.Find(1)

	err := f.view.Edit(ctx, sel, mutate.Form{Description: "x", State: "bogus"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.data.edited)
	assert.Equal(t, []note{{SeverityWarn, msgInvalidForm}}, f.notes.all())
}

func TestShowUsersByRole(t *testing.T) {
	t.Parallel()

	users := []model.User{
		{ID: 1, Name: "admin", Role: model.RoleAdmin},
		{ID: 2, Name: "ana", Role: model.RoleExecutor},
		{ID: 3, Name: "bruno", Role: model.RoleExecutor},
		{ID: 4, Name: "ghost", Role: model.RoleUnknown},
	}

	t.Run("opens one dialog per match", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleAdmin)
		f.data.users = users

		got, err := f.view.ShowUsersByRole(context.Background(), model.RoleExecutor)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Len(t, f.dialogs.opened, 2)
		assert.Equal(t, DialogUserInfo, f.dialogs.opened[0].Kind)
		assert.Equal(t, "ana", f.dialogs.opened[0].User.Name)
		assert.Equal(t, "bruno", f.dialogs.opened[1].User.Name)
		assert.Empty(t, f.notes.all())
	})

	t.Run("no matches warns", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleExecutor)
		f.data.users = users[1:]

		got, err := f.view.ShowUsersByRole(context.Background(), model.RoleAdmin)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Empty(t, f.dialogs.opened)
		assert.Equal(t, []note{{SeverityWarn, msgNoAdmins}}, f.notes.all())
	})

	t.Run("fetch error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, model.RoleExecutor)
		f.data.usersErr = errors.New("x")

		_, err := f.view.ShowUsersByRole(context.Background(), model.RoleExecutor)
		require.Error(t, err)
		assert.Empty(t, f.dialogs.opened)
		assert.Equal(t, []note{{SeverityError, msgLoadUsersFailed}}, f.notes.all())
	})
}

func TestAudit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, model.RoleExecutor)
	f.data.audit = []model.AuditEntry{{ID: 1, ActivityID: 2, State: model.StateFinalized}}
	got, err := f.view.Audit(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	f.data.auditErr = errors.New("x")
	_, err = f.view.Audit(context.Background())
	require.Error(t, err)
	assert.Equal(t, []note{{SeverityError, msgLoadAuditFailed}}, f.notes.all())

	admin := newFixture(t, model.RoleAdmin)
	_, err = admin.view.Audit(context.Background())
	require.ErrorIs(t, err, ErrNotPermitted)
}
