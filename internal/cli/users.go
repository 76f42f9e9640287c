package cli

import (
	"actividades-cli/internal/controller"
	"actividades-cli/internal/format"
	"actividades-cli/internal/model"
	"actividades-cli/internal/session"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"usuarios"},
		Short:   "User commands",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersShowRoleCmd(app))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.client(session.NewManager()).ListUsers(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if role != "" {
				r, err := model.ParseRoleFlag(role)
				if err != nil {
					return writeErr(cmd, err)
				}
				users = controller.UsersWithRole(users, r)
			}
			if users == nil {
				users = []model.User{}
			}
			return writeOut(cmd, app, format.Users(users))
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Only users with this role (admin|ejecutor)")
	return cmd
}

func newUsersShowRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show-role <admin|ejecutor>",
		Short: "Show the info card of every user with a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := model.ParseRoleFlag(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			env, err := app.newView(cmd, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			if _, err := env.view.ShowUsersByRole(cmd.Context(), role); err != nil {
				return err
			}
			return nil
		},
	}
}
