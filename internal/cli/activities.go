package cli

import (
	"strconv"
	"strings"

	"actividades-cli/internal/format"
	"actividades-cli/internal/model"
	"actividades-cli/internal/mutate"
	"actividades-cli/internal/statusutil"

	"github.com/spf13/cobra"
)

func newActivitiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"actividades", "a"},
		Short:   "Activity commands",
	}
	cmd.AddCommand(newActivitiesListCmd(app))
	cmd.AddCommand(newActivitiesShowCmd(app))
	cmd.AddCommand(newActivitiesCreateCmd(app))
	cmd.AddCommand(newActivitiesEditCmd(app))
	cmd.AddCommand(newActivitiesDeleteCmd(app))
	cmd.AddCommand(newActivitiesFinalizeCmd(app))
	cmd.AddCommand(newActivitiesAuditCmd(app))
	return cmd
}

func parseActivityID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFound("activity", s)
	}
	return id, nil
}

func activitiesOut(role model.Role, list []model.Activity) format.Activities {
	return format.Activities{Items: list, ShowResponsible: role == model.RoleAdmin}
}

func newActivitiesListCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities (optionally filtered)",
		Long: strings.TrimSpace(`
List all activities. --query keeps the activities whose description,
priority, state or responsible user contains the text (case-insensitive).
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.newView(cmd, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			if err := env.view.Load(cmd.Context()); err != nil {
				return err
			}
			list := env.view.Displayed()
			if query != "" {
				list = env.view.Search(query)
			}
			return writeOut(cmd, app, activitiesOut(env.view.Role(), list))
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter text")
	return cmd
}

func newActivitiesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseActivityID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			env, err := app.newView(cmd, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			if err := env.view.Load(cmd.Context()); err != nil {
				return err
			}
			a, ok := env.view.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("activity", args[0]))
			}
			if app.Format == format.Table {
				return writeOut(cmd, app, activitiesOut(env.view.Role(), []model.Activity{*a}))
			}
			return writeOut(cmd, app, a)
		},
	}
}

type formFlags struct {
	description string
	priority    string
	state       string
	assignee    int64
	unassign    bool
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description (use - to read from stdin)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (free text, e.g. Alta|Media|Baja)")
	cmd.Flags().StringVar(&f.state, "state", "", "State ("+stateChoices()+")")
	cmd.Flags().Int64Var(&f.assignee, "assignee", 0, "Assigned user id (idUsuario)")
	cmd.Flags().BoolVar(&f.unassign, "unassign", false, "Clear the assigned user")
}

// apply overlays the flags the user actually set onto base.
func (f *formFlags) apply(cmd *cobra.Command, base mutate.Form) (mutate.Form, error) {
	flags := cmd.Flags()
	if flags.Changed("description") {
		desc := f.description
		if desc == "-" {
			s, err := readAllTrim(cmd.InOrStdin())
			if err != nil {
				return base, err
			}
			desc = s
		}
		base.Description = desc
	}
	if flags.Changed("priority") {
		base.Priority = f.priority
	}
	if flags.Changed("state") {
		base.State = f.state
	}
	if flags.Changed("assignee") {
		id := f.assignee
		base.AssignedUserID = &id
	}
	if f.unassign {
		base.AssignedUserID = nil
	}
	return base, nil
}

func stateChoices() string {
	var parts []string
	for _, s := range statusutil.KnownStates() {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, "|")
}

func newActivitiesCreateCmd(app *App) *cobra.Command {
	var ff formFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an activity (administrators)",
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := ff.apply(cmd, mutate.Form{})
			if err != nil {
				return writeErr(cmd, err)
			}
			env, err := app.newView(cmd, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			created, err := env.view.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, created)
		},
	}

	ff.register(cmd)
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newActivitiesEditCmd(app *App) *cobra.Command {
	var ff formFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an activity (administrators)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseActivityID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			env, err := app.newView(cmd, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			if err := env.view.Load(cmd.Context()); err != nil {
				return err
			}
			sel, ok := env.view.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("activity", args[0]))
			}
			form, err := ff.apply(cmd, mutate.FormFromActivity(*sel))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := env.view.Edit(cmd.Context(), sel, form); err != nil {
				return err
			}
			updated, ok := env.view.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("activity", args[0]))
			}
			return writeOut(cmd, app, updated)
		},
	}

	ff.register(cmd)
	return cmd
}

func newActivitiesDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an activity (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirmed(cmd, app, args[0], yes, "delete")
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newActivitiesFinalizeCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "finalize <id>",
		Short: "Mark an activity as FINALIZADO (executors; asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirmed(cmd, app, args[0], yes, "finalize")
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// runConfirmed loads the list, looks up rawID and runs delete/finalize behind
// the confirmation prompt.
func runConfirmed(cmd *cobra.Command, app *App, rawID string, yes bool, action string) error {
	id, err := parseActivityID(rawID)
	if err != nil {
		return writeErr(cmd, err)
	}
	confirmer := newTermConfirmer(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr(), yes)
	env, err := app.newView(cmd, confirmer)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer env.Close()

	if err := env.view.Load(cmd.Context()); err != nil {
		return err
	}
	sel, ok := env.view.Find(id)
	if !ok {
		return writeErr(cmd, errNotFound("activity", rawID))
	}
	switch action {
	case "finalize":
		env.view.ConfirmFinalize(sel)
	default:
		env.view.ConfirmRemove(sel)
	}
	if !confirmer.accepted {
		return writeErr(cmd, errCancelled)
	}
	if env.notifier.failures > 0 {
		return errActionFailed
	}
	out := map[string]any{"ok": true, "action": action, "idActividad": id}
	if a, ok := env.view.Find(id); ok {
		out["data"] = a
	}
	return writeOut(cmd, app, out)
}

func newActivitiesAuditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "List the activity audit trail (executors)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.newView(cmd, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			entries, err := env.view.Audit(cmd.Context())
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []model.AuditEntry{}
			}
			return writeOut(cmd, app, format.Audit(entries))
		},
	}
}
