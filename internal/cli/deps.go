package cli

import (
	"context"
	"log/slog"

	"actividades-cli/internal/api"
	"actividades-cli/internal/controller"
	"actividades-cli/internal/model"
	"actividades-cli/internal/session"
	"actividades-cli/internal/store"

	"github.com/spf13/cobra"
)

func (a *App) client(mgr *session.Manager) *api.Client {
	opts := []api.Option{}
	if a.env != nil {
		opts = append(opts, api.WithTimeout(a.env.Timeout))
	}
	if mgr != nil {
		opts = append(opts, api.WithTokenSource(mgr.Token))
	}
	return api.New(a.apiURL(), opts...)
}

// openJournal opens the local action journal. Failures are logged and
// yield a nil journal so commands keep working without it.
func openJournal(ctx context.Context) *store.Journal {
	path, err := store.JournalPath()
	if err != nil {
		slog.WarnContext(ctx, "journal path", "err", err)
		return nil
	}
	j, err := store.OpenJournal(ctx, path)
	if err != nil {
		slog.WarnContext(ctx, "open journal", "err", err)
		return nil
	}
	return j
}

// sessionRole returns the primary role of the stored session.
func sessionRole(mgr *session.Manager) (model.Role, error) {
	claims, err := mgr.Claims()
	if err != nil {
		return model.RoleUnknown, err
	}
	role := claims.PrimaryRole()
	if role == model.RoleUnknown {
		return model.RoleUnknown, errNoRole
	}
	return role, nil
}

// viewEnv bundles an ActivityView with the terminal collaborators it reports to.
type viewEnv struct {
	view     *controller.ActivityView
	notifier *termNotifier
	journal  *store.Journal
}

func (e *viewEnv) Close() {
	if e.journal != nil {
		_ = e.journal.Close()
	}
}

func (a *App) newView(cmd *cobra.Command, confirmer controller.Confirmer) (*viewEnv, error) {
	mgr := session.NewManager()
	role, err := sessionRole(mgr)
	if err != nil {
		return nil, err
	}
	env := &viewEnv{notifier: &termNotifier{w: cmd.ErrOrStderr()}}
	deps := controller.Deps{
		Data:      a.client(mgr),
		Notifier:  env.notifier,
		Confirmer: confirmer,
		Dialogs:   textDialogs{w: cmd.OutOrStdout()},
	}
	if j := openJournal(cmd.Context()); j != nil {
		env.journal = j
		deps.Journal = j
	}
	env.view = controller.NewActivityView(role, deps)
	return env, nil
}
