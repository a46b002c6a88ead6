// Package cli implements the nextlevel command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nextlevel/internal/config"
	"github.com/mesh-intelligence/nextlevel/internal/paths"
	"github.com/mesh-intelligence/nextlevel/internal/remote"
	"github.com/mesh-intelligence/nextlevel/pkg/nextlevel"
	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// CLI errors that are the user's to fix.
var (
	errUsage        = errors.New("usage error")
	errNotPerformed = errors.New("operation not performed")
)

// userErrors are domain and configuration sentinels reported with
// exitUserError.
var userErrors = []error{
	errUsage,
	errNotPerformed,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidPage,
	types.ErrInvalidTitle,
	types.ErrInvalidName,
	types.ErrMissionNotFound,
	types.ErrProjectNotFound,
	types.ErrParentNotFound,
	types.ErrNestedSubtask,
	types.ErrDatabaseURLEmpty,
	types.ErrAuthTokenEmpty,
	types.ErrAccountIDInvalid,
	types.ErrLogLevelUnknown,
}

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	output    string
}

// env is the state shared by the commands of one invocation.
type env struct {
	flags  rootFlags
	cfg    types.Config
	logger *slog.Logger
	out    *printer
	app    *nextlevel.App
}

// NewRootCmd creates the top-level "nextlevel" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	e := &env{logger: slog.New(slog.DiscardHandler)}
	root := &cobra.Command{
		Use:   "nextlevel",
		Short: "Track missions, projects, and tasks in a remote SQL database",
		Long: `nextlevel organizes work as missions that own projects, projects that
group tasks, and tasks that may carry one level of subtasks. Records live in a
libSQL database reached over HTTP.`,
		Version:           nextlevel.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
	}

	root.PersistentFlags().StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $"+paths.EnvConfigDir+")")
	root.PersistentFlags().StringVar(&e.flags.dataDir, "data-dir", "", "database directory for serve (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().StringVarP(&e.flags.output, "output", "o", formatTable, "output format: table, json, or yaml")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newMissionCmd(e))
	root.AddCommand(newProjectCmd(e))
	root.AddCommand(newTaskCmd(e))
	root.AddCommand(newSchemaCmd(e))
	root.AddCommand(newServeCmd(e))
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode classifies err as a user error or a system error.
func exitCode(err error) int {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	var re *remote.RemoteError
	if errors.As(err, &re) {
		return exitUserError
	}
	return exitSysError
}

// setup loads configuration and builds the logger and printer.
func (e *env) setup(cmd *cobra.Command, args []string) error {
	out, err := newPrinter(cmd.OutOrStdout(), e.flags.output)
	if err != nil {
		return err
	}
	e.out = out

	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	e.logger.Debug("configuration loaded", "config_dir", configDir, "account_id", cfg.AccountID)
	return nil
}

// open wires the application on first use.
func (e *env) open() (*nextlevel.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	app, err := nextlevel.Open(e.cfg, nextlevel.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("open database (set database_url and auth_token in config.yaml or NEXTLEVEL_* variables): %w", err)
	}
	e.app = app
	return app, nil
}

// parseID parses a positive entity identity argument.
func parseID(arg string) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, arg)
	}
	return n, nil
}

// addPageFlags registers --skip, --take, and --filter on cmd.
func addPageFlags(cmd *cobra.Command, page *types.Page) {
	cmd.Flags().IntVar(&page.Skip, "skip", 0, "number of records to skip")
	cmd.Flags().IntVar(&page.Take, "take", 20, "maximum number of records to return")
	cmd.Flags().StringVar(&page.Filter, "filter", "", "only records whose name contains this text")
}

// done reports the outcome of a boolean operation, failing with
// errNotPerformed when nothing changed.
func (e *env) done(ok bool, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if !ok {
		return fmt.Errorf("%w: %s", errNotPerformed, msg)
	}
	return e.out.message("%s", msg)
}
