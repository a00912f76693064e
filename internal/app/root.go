package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/config"
	"github.com/blackwell-systems/libconsole/internal/demo"
	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/session"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/blackwell-systems/libconsole/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	lists  *library.Service

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagJSON          bool
	flagYes           bool
)

var errNotSignedIn = errors.New("not signed in (run 'libconsole login')")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "libconsole",
		Short: "Administer a library backend from the terminal",
		Long: `libconsole manages the books, members, loans, genres and staff of a
library backend.

Lists fall back to a built-in demo dataset while the backend is unreachable.

Run 'libconsole' with no arguments to launch the interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			util.InitColor(flagNoColor)
			switch cmd.Name() {
			case "version", "completion", "help":
				return nil
			}
			return setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui.ShouldUseTUI(cmd) {
				return runConsole(cmd.Context())
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive prompts and the console")
	pf.StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/libconsole/config.yml)")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")
	pf.BoolVar(&flagYes, "yes", false, "Skip confirmation prompts")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newDashboardCmd(),
		newBooksCmd(),
		newMembersCmd(),
		newBorrowCmd(),
		newGenresCmd(),
		newStaffCmd(),
		newReportsCmd(),
		newConsoleCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// setup loads the config and builds the client, the session store and the
// list service on top of it.
func setup() error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tokens := session.NewFileTokenStore(cfg.Session.TokenFile)
	client = api.New(cfg.API.BaseURL, tokens,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLoanDays(cfg.Defaults.EffectiveLoanDays()),
	)
	store = session.New(client, tokens)
	store.SetLogf(logf)
	client.SetUnauthorizedHandler(func() { store.Expire() })

	opts := []library.Option{
		library.WithFallback(cfg.Demo.Fallback),
		library.WithLogf(logf),
	}
	if cfg.Demo.File != "" {
		ds, err := demo.Load(cfg.Demo.File)
		if err != nil {
			return fmt.Errorf("loading demo dataset: %w", err)
		}
		opts = append(opts, library.WithDataset(ds))
	}
	lists = library.New(client, opts...)
	return nil
}

// requireSession restores the persisted session or fails with a hint.
func requireSession(ctx context.Context) error {
	store.Check(ctx)
	if store.IsAuthenticated() {
		return nil
	}
	if msg := store.Err(); msg != "" {
		return fmt.Errorf("%s (run 'libconsole login')", msg)
	}
	return errNotSignedIn
}

// requireAdmin is requireSession plus the admin role.
func requireAdmin(ctx context.Context) error {
	if err := requireSession(ctx); err != nil {
		return err
	}
	if !store.IsAdmin() {
		return errors.New("this command requires the admin role")
	}
	return nil
}

// interactive reports whether prompts and forms may be shown.
func interactive() bool {
	return util.IsTTY() && !flagNoInteractive && !flagJSON
}
