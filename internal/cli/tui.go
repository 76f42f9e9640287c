package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"actividades-cli/internal/logging"
	"actividades-cli/internal/model"
	"actividades-cli/internal/session"
	"actividades-cli/internal/store"
	"actividades-cli/internal/tui"

	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()

	// The alt screen owns the terminal; stderr logging would corrupt it.
	if app.Verbose && app.env != nil && app.env.LogFile == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: set ACTIVIDADES_LOG_FILE to capture TUI debug logs")
		if app.closeLog != nil {
			_ = app.closeLog()
		}
		_, closeLog, err := logging.Setup(logging.Options{Level: slog.LevelDebug})
		if err != nil {
			return writeErr(cmd, err)
		}
		app.closeLog = closeLog
	}

	mgr := session.NewManager()
	client := app.client(mgr)
	opts := tui.Options{
		Data:   client,
		Auth:   session.NewAuthenticator(client, mgr),
		Logout: mgr.Clear,
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	opts.Config = cfg.TUI

	// A valid stored session skips the login screen.
	role, err := sessionRole(mgr)
	switch {
	case err == nil:
		opts.Role = role
		if cfg.Session != nil {
			opts.Username = cfg.Session.Username
		}
	case errors.Is(err, session.ErrNoSession):
	default:
		slog.DebugContext(ctx, "stored session ignored", "err", err)
	}
	if opts.Role == model.RoleUnknown {
		opts.Username = ""
	}

	if j := openJournal(ctx); j != nil {
		defer j.Close()
		opts.Journal = j
	}

	if err := tui.Run(ctx, opts); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
