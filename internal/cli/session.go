package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"actividades-cli/internal/controller"
	"actividades-cli/internal/session"
	"actividades-cli/internal/store"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var user, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Long: strings.TrimSpace(`
Authenticate against the backend and store the returned token in
~/.actividades/config.json. Missing credentials are prompted for.
The password may also be given via $ACTIVIDADES_PASSWORD.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(user) == "" {
				user = promptLine(cmd, in, "Usuario: ")
			}
			if password == "" {
				password = os.Getenv("ACTIVIDADES_PASSWORD")
			}
			if password == "" {
				password = promptPassword(cmd, in, "Contraseña: ")
			}

			mgr := session.NewManager()
			client := app.client(nil)
			notifier := &termNotifier{w: cmd.ErrOrStderr()}
			router := &lastRoute{}
			login := &controller.Login{
				Auth:     session.NewAuthenticator(client, mgr),
				Notifier: notifier,
				Router:   router,
				Dialogs:  textDialogs{w: cmd.ErrOrStderr()},
			}
			form := &controller.LoginForm{Username: user, Password: password}
			route, err := login.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			if err := store.UpdateConfig(func(cfg *store.GlobalConfig) { cfg.APIURL = client.BaseURL() }); err != nil {
				return writeErr(cmd, err)
			}
			claims, err := mgr.Claims()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"username": form.Username,
				"role":     claims.PrimaryRole().Wire(),
				"route":    "/" + string(route),
				"api":      client.BaseURL(),
			})
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Username (nombreUsuario)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prefer the prompt or $ACTIVIDADES_PASSWORD)")
	return cmd
}

func promptLine(cmd *cobra.Command, in *bufio.Reader, label string) string {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, _ := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func promptPassword(cmd *cobra.Command, in *bufio.Reader, label string) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err == nil {
			return string(b)
		}
	}
	return promptLine(cmd, in, label)
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.NewManager().Clear(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := session.NewManager().Claims()
			if err != nil {
				return writeErr(cmd, err)
			}
			roles := []string{}
			for _, r := range claims.SortedRoles() {
				roles = append(roles, r.Wire())
			}
			out := map[string]any{
				"username": claims.Username,
				"subject":  claims.Subject,
				"role":     claims.PrimaryRole().Wire(),
				"roles":    roles,
				"api":      app.apiURL(),
			}
			if !claims.ExpiresAt.IsZero() {
				out["expiresAt"] = claims.ExpiresAt.UTC().Format(time.RFC3339)
			}
			return writeOut(cmd, app, out)
		},
	}
}

// readAllTrim is used by commands that accept a description on stdin ("-").
func readAllTrim(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "", errors.New("empty input on stdin")
	}
	return s, nil
}
