package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"actividades-cli/internal/mockserver"

	"github.com/spf13/cobra"
)

func newMockServerCmd(app *App) *cobra.Command {
	var addr string
	var secret string

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run an in-memory development backend",
		Long: `Serve the activities REST API from memory (seeded with admin/admin,
ana/ana and bruno/bruno). Data is lost on exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []mockserver.Option{}
			if secret != "" {
				opts = append(opts, mockserver.WithSecret(secret))
			}
			srv := &http.Server{
				Handler:           mockserver.New(opts...).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "mock backend listening on http://%s\n", ln.Addr())
			slog.InfoContext(ctx, "mock server started", "addr", ln.Addr().String())

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Serve(ln) }()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return writeErr(cmd, err)
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			slog.InfoContext(shutdownCtx, "mock server stopping")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("ACTIVIDADES_MOCK_ADDR", "127.0.0.1:3000"), "Listen address")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("ACTIVIDADES_MOCK_SECRET"), "HS256 signing secret (default: built-in dev secret)")
	return cmd
}
