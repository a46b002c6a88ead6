package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nextlevel/internal/paths"
	"github.com/mesh-intelligence/nextlevel/internal/sqlite"
	"github.com/mesh-intelligence/nextlevel/internal/store"
)

// dbFileName is the database file created in the data directory.
const dbFileName = "nextlevel.db"

const shutdownTimeout = 5 * time.Second

func newServeCmd(e *env) *cobra.Command {
	var (
		addr   string
		memory bool
		token  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a local SQLite database over the pipeline protocol",
		Long: `serve answers POST /v2/pipeline from a local SQLite database so the rest of
the CLI can run without a remote account. Point database_url at the printed
address and use the same auth token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("token") {
				token = e.cfg.AuthToken
			}

			dsn := sqlite.MemoryDSN
			if !memory {
				dataDir, err := paths.ResolveDataDir(e.flags.dataDir, e.cfg.DataDir)
				if err != nil {
					return fmt.Errorf("resolve data dir: %w", err)
				}
				dsn = filepath.Join(dataDir, dbFileName)
			}

			backend := sqlite.NewBackend(sqlite.WithToken(token), sqlite.WithLogger(e.logger))
			if err := backend.Attach(dsn); err != nil {
				return err
			}
			defer backend.Detach()
			if err := backend.Bootstrap(cmd.Context(), store.SchemaStatements()); err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e.logger.Info("pipeline server listening", "addr", ln.Addr().String(), "database", dsn)
			if err := e.out.message("serving %s on http://%s", dsn, ln.Addr()); err != nil {
				return err
			}
			return serve(ctx, &http.Server{Handler: backend, ReadHeaderTimeout: 10 * time.Second}, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().BoolVar(&memory, "memory", false, "use an in-memory database instead of the data directory")
	cmd.Flags().StringVar(&token, "token", "", "required bearer token (default: auth_token from config; empty disables auth)")
	return cmd
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
