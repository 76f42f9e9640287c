// Package tui is the interactive terminal front end: a login screen and the
// role-specific activity views, driven by the controller package.
package tui

import (
	"context"

	"actividades-cli/internal/controller"
	"actividades-cli/internal/model"
	"actividades-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Data    controller.DataService
	Auth    controller.Authenticator
	Journal controller.Recorder

	// Role and Username describe a stored session; a known role skips the login screen.
	Role     model.Role
	Username string

	// Logout clears the stored session.
	Logout func() error

	Config *store.TUIConfig
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	if opts.Config != nil {
		applyGlyphPreference(opts.Config.Glyphs)
		mdStyleOverride = opts.Config.MarkdownStyle
	} else {
		applyGlyphPreference("")
	}

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
