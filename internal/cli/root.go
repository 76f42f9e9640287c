package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"actividades-cli/internal/config"
	"actividades-cli/internal/format"
	"actividades-cli/internal/logging"
	"actividades-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	API     string
	Format  string
	Pretty  bool
	Verbose bool

	env      *config.Env
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "actividades",
		Short:         "Activities client (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  actividades

  # Log in and list activities
  actividades login --user ana
  actividades activities list --format table

  # Direct lookup (shortcut for: actividades activities show 12)
  actividades 12
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		env, err := config.Load()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.env = env
		if app.Format == "" {
			app.Format = env.Format
		}
		var fallback io.Writer
		level := env.SlogLevel()
		if app.Verbose {
			fallback = cmd.ErrOrStderr()
			level = min(level, slog.LevelDebug)
		}
		_, closeLog, err := logging.Setup(logging.Options{Level: level, File: env.LogFile, Fallback: fallback})
		if err != nil {
			return writeErr(cmd, err)
		}
		app.closeLog = closeLog
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.API, "api", "", "Backend base URL (default: $ACTIVIDADES_API_URL, then the last login, then http://localhost:3000)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ACTIVIDADES_FORMAT", ""), "Output format (json|edn|yaml|table)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newActivitiesCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newJournalCmd(app))
	cmd.AddCommand(newMockServerCmd(app))

	return cmd
}

// apiURL resolves the backend URL: --api, then the environment, then the
// URL of the last successful login, then the built-in default.
func (a *App) apiURL() string {
	if v := strings.TrimSpace(a.API); v != "" {
		return strings.TrimRight(v, "/")
	}
	if _, ok := os.LookupEnv("ACTIVIDADES_API_URL"); ok && a.env != nil {
		return a.env.APIURL
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.APIURL != "" {
		return cfg.APIURL
	}
	if a.env != nil {
		return a.env.APIURL
	}
	return "http://localhost:3000"
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
